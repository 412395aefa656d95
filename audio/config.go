package audio

import (
	"fmt"
	"time"
)

// Config configures the ffmpeg toolchain shared by Transcoder and Decoder.
type Config struct {
	Binary      string        `yaml:"binary" mapstructure:"binary"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period" validate:"gte=0"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Binary == "" {
		c.Binary = "ffmpeg"
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = 2 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("transcoder.binary is required")
	}
	if c.Timeout < 0 || c.GracePeriod < 0 {
		return fmt.Errorf("transcoder timeouts must not be negative")
	}
	return nil
}
