package classification

import (
	"fmt"
	"time"
)

// Config configures the sound classifier.
type Config struct {
	// Backend selects the registered provider factory.
	Backend      string        `yaml:"backend" mapstructure:"backend"`
	URL          string        `yaml:"url" mapstructure:"url" validate:"omitempty,url"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	ClassMapPath string        `yaml:"class_map_path" mapstructure:"class_map_path"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = "yamnet"
	}
	if c.URL == "" {
		c.URL = "http://localhost:8390"
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.ClassMapPath == "" {
		c.ClassMapPath = "yamnet_class_map.csv"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Backend == "" {
		return fmt.Errorf("classifier.backend is required")
	}
	return nil
}

// FactoryConfig renders c as the map a provider.Factory consumes.
func (c Config) FactoryConfig() map[string]any {
	return map[string]any{"url": c.URL, "timeout": c.Timeout}
}
