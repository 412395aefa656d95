package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProviderLocal is the filesystem backend.
const ProviderLocal = "local"

const (
	DefaultProvider    = ProviderLocal
	DefaultMaxFileSize = int64(50 * 1024 * 1024) // 50 MB
)

// DefaultBasePath is the scratch root under the OS temp directory.
var DefaultBasePath = filepath.Join(os.TempDir(), "soundguard")

// Config selects and configures the scratch backend.
type Config struct {
	Provider string `mapstructure:"provider" json:"provider" validate:"required"`

	// BasePath is the directory all keys are resolved under.
	BasePath string `mapstructure:"base_path" json:"base_path"`

	// MaxFileSize caps a single upload in bytes. Zero or less disables the cap.
	MaxFileSize int64 `mapstructure:"max_file_size" json:"max_file_size"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			return fmt.Errorf("storage: base_path is required for local provider")
		}
		if filepath.Clean(c.BasePath) == "/" {
			return fmt.Errorf("storage: refusing to use / as scratch base_path")
		}
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	return nil
}
