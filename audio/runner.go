package audio

import (
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"

	"github.com/kbukum/soundguard/errors"
	"github.com/kbukum/soundguard/logger"
	"github.com/kbukum/soundguard/observability"
	"github.com/kbukum/soundguard/process"
	"github.com/kbukum/soundguard/provider"
)

// Runner executes ffmpeg. *process.Adapter is the production implementation.
type Runner = provider.RequestResponse[process.Command, *process.Result]

// NewRunner builds the ffmpeg runner: a timeout-bounded process adapter
// wrapped with logging and tracing.
func NewRunner(cfg Config, log *logger.Logger) Runner {
	cfg.ApplyDefaults()
	adapter := process.NewAdapter(process.Config{
		Name:        "ffmpeg",
		Binary:      cfg.Binary,
		Timeout:     cfg.Timeout,
		GracePeriod: cfg.GracePeriod,
	})
	return provider.Chain(
		provider.WithLogging[process.Command, *process.Result](log),
		provider.WithTracing[process.Command, *process.Result](observability.SpanProcess),
	)(adapter)
}

// runFFmpeg runs cmd and maps any failure to TRANSCODE_FAILED.
func runFFmpeg(ctx context.Context, runner Runner, cmd process.Command) (*process.Result, error) {
	res, err := runner.Execute(ctx, cmd)
	if err == nil {
		return res, nil
	}
	cause := fmt.Errorf("%s: %w", cmd.Binary, err)
	var appErr *errors.AppError
	switch {
	case stderrors.Is(err, process.ErrTimeout):
		appErr = errors.TranscodeTimedOut(cause)
	case stderrors.Is(err, exec.ErrNotFound):
		appErr = errors.TranscoderMissing(cmd.Binary, cause)
	default:
		appErr = errors.TranscodeFailed(cause)
	}
	if tail := res.StderrTail(512); tail != "" {
		appErr.WithDetail("stderr", tail)
	}
	return res, appErr
}
