package main

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/soundguard/analysis"
	"github.com/kbukum/soundguard/classification"
	"github.com/kbukum/soundguard/errors"
	"github.com/kbukum/soundguard/server"
	"github.com/kbukum/soundguard/transcription"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := loadConfig("", "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Name != serviceName || cfg.Server.Port != 8080 || cfg.Server.MaxBodySize != "50MB" {
		t.Errorf("unexpected server defaults %+v", cfg.Server)
	}
	if cfg.Classifier.Backend != "yamnet" || cfg.Transcriber.Backend != "whisper" {
		t.Errorf("unexpected backends %q %q", cfg.Classifier.Backend, cfg.Transcriber.Backend)
	}
	if cfg.Transcriber.Language != "" {
		t.Errorf("transcription language must be unconstrained, got %q", cfg.Transcriber.Language)
	}
	if lang, _ := cfg.Transcriber.FactoryConfig()["language"].(string); lang != "" {
		t.Errorf("expected no language sent to the backend, got %q", lang)
	}
	if cfg.Inference.MaxWait != 30*time.Second {
		t.Errorf("expected 30s max wait, got %v", cfg.Inference.MaxWait)
	}
	if cfg.Pipeline.AllowPartial {
		t.Error("total failure policy must be the default")
	}
	if len(cfg.Keywords) != 3 {
		t.Errorf("expected default keywords, got %v", cfg.Keywords)
	}
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PIPELINE_ALLOW_PARTIAL", "true")
	t.Setenv("YAMNET_CLASS_MAP", "/models/yamnet_class_map.csv")

	cfg, err := loadConfig("", "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if !cfg.Pipeline.AllowPartial {
		t.Error("expected partial policy from environment")
	}
	if cfg.Classifier.ClassMapPath != "/models/yamnet_class_map.csv" {
		t.Errorf("alias not applied, got %q", cfg.Classifier.ClassMapPath)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.yml")
	yml := "server:\n  port: 7070\n  max_body_size: 10MB\nkeywords:\n  - 불이야\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path, "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	cfg.ApplyDefaults()
	if cfg.Server.Port != 7070 || cfg.Server.MaxBodySize != "10MB" {
		t.Errorf("file values not applied: %+v", cfg.Server)
	}
	if len(cfg.Keywords) != 1 || cfg.Keywords[0] != "불이야" {
		t.Errorf("expected custom keywords, got %v", cfg.Keywords)
	}
}

func TestAppConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*appConfig)
	}{
		{"bad body size", func(c *appConfig) { c.Server.MaxBodySize = "huge" }},
		{"bad port", func(c *appConfig) { c.Server.Port = 70000 }},
		{"bad classifier url", func(c *appConfig) { c.Classifier.URL = "not a url" }},
		{"blank keywords", func(c *appConfig) { c.Keywords = []string{" ", ""} }},
		{"root scratch", func(c *appConfig) { c.Scratch.BasePath = "/" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &appConfig{}
			cfg.Name = serviceName
			cfg.ApplyDefaults()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestUploadMiddleware(t *testing.T) {
	if n := len(uploadMiddleware(server.Config{})); n != 0 {
		t.Errorf("expected no guards by default, got %d", n)
	}
	if n := len(uploadMiddleware(server.Config{JWTSecret: "s", RateLimit: 10})); n != 2 {
		t.Errorf("expected auth and rate limit, got %d", n)
	}
}

func TestRenderResult(t *testing.T) {
	cls := &classification.Result{Index: 1, Label: "Water", Score: 0.75}
	tr := &transcription.Result{Text: "도와줘 살려줘", Keywords: []string{"도와줘", "살려줘"}}
	trErr := errors.ModelUnavailable("whisper")

	tests := []struct {
		name string
		res  *analysis.Result
		want []string
	}{
		{"completed", analysis.Aggregate(cls, nil, tr, nil, analysis.FailurePolicyTotal), []string{"completed", "Water (0.750)", "도와줘, 살려줘"}},
		{"partial", analysis.Aggregate(cls, nil, nil, trErr, analysis.FailurePolicyPartial), []string{"partial", "Water", "MODEL_UNAVAILABLE"}},
		{"failed", analysis.Failed(errors.TranscodeFailed(nil)), []string{"failed", "TRANSCODE_FAILED"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := renderResult(tc.res, false)
			for _, w := range tc.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected %q in\n%s", w, out)
				}
			}
		})
	}
}

func TestPrintResultJSONWhenNotTerminal(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)

	res := analysis.Failed(errors.UnsupportedFormat("exe"))
	if err := printResult(cmd, res, false); err != nil {
		t.Fatal(err)
	}
	var body map[string]any
	if err := json.Unmarshal(out.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON on a non-terminal writer: %v (%q)", err, out.String())
	}
	if body["code"] != "UNSUPPORTED_FORMAT" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), serviceName+" ") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestAnalyzeRejectsUnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SCRATCH_BASE_PATH", filepath.Join(dir, "scratch"))
	t.Setenv("CLASSIFIER_URL", "http://127.0.0.1:1")
	t.Setenv("TRANSCRIBER_URL", "http://127.0.0.1:1")
	src := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(src, []byte("not audio"), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"analyze", src, "--json"})
	err := cmd.Execute()

	var exit exitError
	if !stderrors.As(err, &exit) || exit.code != "UNSUPPORTED_FORMAT" {
		t.Fatalf("expected UNSUPPORTED_FORMAT exit, got %v", err)
	}
	if !strings.Contains(out.String(), `"code": "UNSUPPORTED_FORMAT"`) {
		t.Errorf("expected JSON error body, got %q", out.String())
	}
	entries, _ := os.ReadDir(filepath.Join(dir, "scratch"))
	if len(entries) != 0 {
		t.Errorf("scratch must be empty, found %d entries", len(entries))
	}
}
