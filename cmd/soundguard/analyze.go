package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kbukum/soundguard/analysis"
	"github.com/kbukum/soundguard/bootstrap"
	"github.com/kbukum/soundguard/logger"
	"github.com/kbukum/soundguard/observability"
)

type analyzeOptions struct {
	json         bool
	allowPartial bool
	timeout      time.Duration
}

func newAnalyzeCommand(load func() (*appConfig, error)) *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Classify and transcribe one audio or video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			// stdout carries the result.
			cfg.Logging.Output = "stderr"
			if opts.allowPartial {
				cfg.Pipeline.AllowPartial = true
			}
			return analyze(cmd, cfg, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON even on a terminal")
	cmd.Flags().BoolVar(&opts.allowPartial, "allow-partial", false, "Report the surviving result when one model fails")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Give up after this long")
	return cmd
}

func analyze(cmd *cobra.Command, cfg *appConfig, path string, opts analyzeOptions) error {
	app, err := bootstrap.NewApp(cfg, bootstrap.WithQuiet())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	shutdownTelemetry, err := observability.Setup(ctx, cfg.Observability, cfg.Name, cfg.Version)
	if err != nil {
		return err
	}
	app.OnStop(bootstrap.Hook(shutdownTelemetry))

	svc, err := buildService(cfg, app.Logger)
	if err != nil {
		return err
	}
	if err := app.RegisterComponent(svc.scratch); err != nil {
		return err
	}
	if err := app.RegisterComponent(svc.runtime); err != nil {
		return err
	}

	return app.RunTask(ctx, func(ctx context.Context) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(ctx, opts.timeout)
		defer cancel()
		ctx = logger.ContextWithRequestID(ctx, uuid.NewString())

		res := svc.pipeline.Run(ctx, analysis.Clip{Filename: filepath.Base(path), Body: f})
		if err := printResult(cmd, res, opts.json); err != nil {
			return err
		}
		if res.Status == analysis.StatusFailed {
			return exitError{code: string(res.Code())}
		}
		return nil
	})
}

// printResult writes JSON when asked or when stdout is not a terminal,
// otherwise a table.
func printResult(cmd *cobra.Command, res *analysis.Result, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON || !isTerminal(out) {
		return writeJSON(out, res.Response())
	}
	_, err := fmt.Fprintln(out, renderResult(res, true))
	return err
}
