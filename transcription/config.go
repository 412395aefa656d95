package transcription

import (
	"fmt"
	"time"
)

// Config configures the transcriber.
type Config struct {
	Backend  string        `yaml:"backend" mapstructure:"backend"`
	URL      string        `yaml:"url" mapstructure:"url" validate:"omitempty,url"`
	Model    string        `yaml:"model" mapstructure:"model"`
	Language string        `yaml:"language" mapstructure:"language"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = "whisper"
	}
	if c.URL == "" {
		c.URL = "http://localhost:8387"
	}
	if c.Model == "" {
		c.Model = "small"
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Backend == "" {
		return fmt.Errorf("transcriber.backend is required")
	}
	return nil
}

// FactoryConfig renders c as the map a provider.Factory consumes.
func (c Config) FactoryConfig() map[string]any {
	return map[string]any{
		"url":      c.URL,
		"model":    c.Model,
		"language": c.Language,
		"timeout":  c.Timeout,
	}
}
