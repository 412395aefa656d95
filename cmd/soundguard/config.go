package main

import (
	"fmt"

	"github.com/kbukum/soundguard/analysis"
	"github.com/kbukum/soundguard/audio"
	"github.com/kbukum/soundguard/classification"
	"github.com/kbukum/soundguard/config"
	"github.com/kbukum/soundguard/observability"
	"github.com/kbukum/soundguard/resilience"
	"github.com/kbukum/soundguard/server"
	"github.com/kbukum/soundguard/storage"
	"github.com/kbukum/soundguard/transcription"
	"github.com/kbukum/soundguard/validation"
	"github.com/kbukum/soundguard/version"
)

// appConfig is the full soundguard configuration.
type appConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config             `yaml:"server" mapstructure:"server"`
	Scratch       storage.Config            `yaml:"scratch" mapstructure:"scratch"`
	Transcoder    audio.Config              `yaml:"transcoder" mapstructure:"transcoder"`
	Classifier    classification.Config     `yaml:"classifier" mapstructure:"classifier"`
	Transcriber   transcription.Config      `yaml:"transcriber" mapstructure:"transcriber"`
	Inference     resilience.BulkheadConfig `yaml:"inference" mapstructure:"inference"`
	Pipeline      analysis.Config           `yaml:"pipeline" mapstructure:"pipeline"`
	Keywords      []string                  `yaml:"keywords" mapstructure:"keywords"`
	Observability observability.Config      `yaml:"observability" mapstructure:"observability"`
}

// defaults seeds viper so every key below is also settable from the
// environment, e.g. SERVER_PORT or PIPELINE_ALLOW_PARTIAL.
var defaults = map[string]any{
	"name":                      serviceName,
	"version":                   version.Version,
	"server.port":               8080,
	"server.max_body_size":      "50MB",
	"server.rate_limit":         0,
	"server.jwt_secret":         "",
	"server.jwt_issuer":         "",
	"scratch.provider":          storage.ProviderLocal,
	"scratch.base_path":         storage.DefaultBasePath,
	"transcoder.binary":         "ffmpeg",
	"classifier.backend":        "yamnet",
	"classifier.url":            "http://localhost:8390",
	"classifier.class_map_path": "yamnet_class_map.csv",
	"transcriber.backend":       "whisper",
	"transcriber.url":           "http://localhost:8387",
	"transcriber.model":         "small",
	"inference.max_concurrent":  4,
	"inference.max_wait":        "30s",
	"pipeline.allow_partial":    false,
	"observability.enabled":     false,
	"observability.endpoint":    "localhost:4318",
}

func loadConfig(configFile, envFile string) (*appConfig, error) {
	var cfg appConfig
	err := config.LoadConfig(serviceName, &cfg,
		config.WithDefaults(defaults),
		config.WithConfigFile(configFile),
		config.WithEnvFile(envFile),
		config.WithEnvAlias("classifier.class_map_path", "YAMNET_CLASS_MAP"),
		config.WithEnvAlias("transcriber.model", "WHISPER_MODEL"),
		config.WithEnvAlias("transcoder.binary", "FFMPEG_BIN"),
	)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills every section.
func (c *appConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Scratch.ApplyDefaults()
	c.Transcoder.ApplyDefaults()
	c.Classifier.ApplyDefaults()
	c.Transcriber.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Observability.Environment = c.Environment
	if len(c.Keywords) == 0 {
		c.Keywords = append([]string(nil), transcription.DefaultKeywords...)
	}
	if c.Inference.MaxConcurrent == 0 {
		c.Inference.MaxConcurrent = 4
	}
	c.Inference.Name = "inference"
}

// Validate runs the struct tags first, then each section's own checks.
func (c *appConfig) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	checks := []struct {
		name string
		fn   func() error
	}{
		{"service", c.ServiceConfig.Validate},
		{"server", c.Server.Validate},
		{"scratch", c.Scratch.Validate},
		{"transcoder", c.Transcoder.Validate},
		{"classifier", c.Classifier.Validate},
		{"transcriber", c.Transcriber.Validate},
		{"observability", c.Observability.Validate},
	}
	for _, check := range checks {
		if err := check.fn(); err != nil {
			return fmt.Errorf("%s: %w", check.name, err)
		}
	}
	if transcription.NewKeywordSet(c.Keywords...).Len() == 0 {
		return fmt.Errorf("keywords: at least one non-blank keyword is required")
	}
	return nil
}
