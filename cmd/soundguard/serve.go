package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kbukum/soundguard/api"
	"github.com/kbukum/soundguard/bootstrap"
	"github.com/kbukum/soundguard/observability"
	"github.com/kbukum/soundguard/server"
	"github.com/kbukum/soundguard/server/middleware"
)

func newServeCommand(load func() (*appConfig, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *appConfig) error {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	log := app.Logger

	shutdownTelemetry, err := observability.Setup(ctx, cfg.Observability, cfg.Name, cfg.Version)
	if err != nil {
		return err
	}
	app.OnStop(bootstrap.Hook(shutdownTelemetry))

	svc, err := buildService(cfg, log)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(cfg.Name, app.Components.HealthAll)
	api.NewHandler(svc.pipeline, log).Register(srv.GinEngine(), uploadMiddleware(cfg.Server)...)

	// Runtime before server: the first request must see initialised models.
	if err := app.RegisterComponent(svc.scratch); err != nil {
		return err
	}
	if err := app.RegisterComponent(svc.runtime); err != nil {
		return err
	}
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}

	app.OnReady(func(context.Context) error {
		app.Summary.AddInfo("listen", srv.Addr())
		app.Summary.AddInfo("policy", svc.pipeline.Policy().String())
		return nil
	})
	return app.Run(ctx)
}

// uploadMiddleware returns the route-level guards configured for uploads.
func uploadMiddleware(cfg server.Config) []gin.HandlerFunc {
	var mw []gin.HandlerFunc
	if cfg.JWTSecret != "" {
		mw = append(mw, middleware.Auth(middleware.AuthConfig{
			Validator: middleware.HS256Validator([]byte(cfg.JWTSecret), cfg.JWTIssuer),
		}))
	}
	if cfg.RateLimit > 0 {
		mw = append(mw, middleware.RateLimit(middleware.RateLimitConfig{RequestsPerMinute: cfg.RateLimit}))
	}
	return mw
}
