package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/soundguard/errors"
)

type serverSection struct {
	Port        int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	MaxBodySize string `mapstructure:"max_body_size" validate:"size"`
}

type sampleConfig struct {
	Server     serverSection `mapstructure:"server"`
	WhisperURL string        `mapstructure:"whisper_url" validate:"required,url"`
	Backend    string        `json:"backend" validate:"oneof=whisper"`
	TimeoutSec int           `validate:"gt=0"`
}

func valid() sampleConfig {
	return sampleConfig{
		Server:     serverSection{Port: 8080, MaxBodySize: "50MB"},
		WhisperURL: "http://localhost:8387",
		Backend:    "whisper",
		TimeoutSec: 30,
	}
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*sampleConfig)
		wantField string
	}{
		{"valid", func(*sampleConfig) {}, ""},
		{"missing url", func(c *sampleConfig) { c.WhisperURL = "" }, "whisper_url"},
		{"bad url", func(c *sampleConfig) { c.WhisperURL = "not a url" }, "whisper_url"},
		{"port range", func(c *sampleConfig) { c.Server.Port = 70000 }, "server.port"},
		{"bad size", func(c *sampleConfig) { c.Server.MaxBodySize = "lots" }, "server.max_body_size"},
		{"json tag name", func(c *sampleConfig) { c.Backend = "kaldi" }, "backend"},
		{"snake fallback", func(c *sampleConfig) { c.TimeoutSec = 0 }, "timeout_sec"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := Struct(cfg)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != errors.ErrCodeInvalidInput {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			fields, _ := appErr.Details["fields"].([]FieldError)
			if len(fields) != 1 || fields[0].Field != tc.wantField {
				t.Errorf("expected field %q, got %+v", tc.wantField, fields)
			}
			if !strings.Contains(appErr.Message, tc.wantField) {
				t.Errorf("message should name the field: %q", appErr.Message)
			}
		})
	}
}

func TestSizeTagAcceptsUtilFormats(t *testing.T) {
	for _, s := range []string{"", "1024", "10KB", "50MB", "2 mb"} {
		cfg := valid()
		cfg.Server.MaxBodySize = s
		if err := Struct(cfg); err != nil {
			t.Errorf("%q: unexpected error %v", s, err)
		}
	}
}
