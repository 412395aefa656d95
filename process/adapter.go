package process

import (
	"context"
	"os/exec"
	"time"

	"github.com/kbukum/soundguard/provider"
)

var _ provider.RequestResponse[Command, *Result] = (*Adapter)(nil)

// Config configures a process adapter.
type Config struct {
	// Name identifies the adapter as a provider.
	Name string `yaml:"name,omitempty" mapstructure:"name"`
	// Binary, when set, is checked with exec.LookPath by IsAvailable.
	Binary      string        `yaml:"binary,omitempty" mapstructure:"binary"`
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout bounds each Execute call. Zero means no limit.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// Adapter runs subprocesses as a provider.RequestResponse.
type Adapter struct {
	config Config
}

// NewAdapter creates a process adapter.
func NewAdapter(cfg Config) *Adapter {
	return &Adapter{config: cfg}
}

func (a *Adapter) Name() string { return a.config.Name }

// IsAvailable reports whether the configured binary resolves on PATH.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	if a.config.Binary == "" {
		return true
	}
	_, err := exec.LookPath(a.config.Binary)
	return err == nil
}

// Execute runs cmd with the adapter's grace period and timeout applied.
func (a *Adapter) Execute(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.GracePeriod == 0 {
		cmd.GracePeriod = a.config.GracePeriod
	}
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}
	return Run(ctx, cmd)
}
