package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/soundguard/logger"
)

// InitMeter installs a periodic OTLP/HTTP meter provider as the global one.
func InitMeter(ctx context.Context, cfg Config, serviceName, serviceVersion string) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(serviceName, serviceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns the named meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// PipelineMetrics holds the instruments the analysis pipeline records.
// A nil *PipelineMetrics records nothing.
type PipelineMetrics struct {
	runs          metric.Int64Counter
	active        metric.Int64UpDownCounter
	stageDuration metric.Float64Histogram
	errors        metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runs, err := meter.Int64Counter("pipeline.runs",
		metric.WithDescription("Completed pipeline runs by final status"))
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.runs counter: %w", err)
	}
	active, err := meter.Int64UpDownCounter("pipeline.active",
		metric.WithDescription("Pipeline runs in flight"))
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.active counter: %w", err)
	}
	stageDuration, err := meter.Float64Histogram("pipeline.stage.duration",
		metric.WithDescription("Stage latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.stage.duration histogram: %w", err)
	}
	errs, err := meter.Int64Counter("pipeline.errors",
		metric.WithDescription("Stage failures by error code"))
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.errors counter: %w", err)
	}
	return &PipelineMetrics{
		runs:          runs,
		active:        active,
		stageDuration: stageDuration,
		errors:        errs,
	}, nil
}

// RunStarted marks a run as in flight.
func (m *PipelineMetrics) RunStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1)
}

// RunFinished records a run's final status.
func (m *PipelineMetrics) RunFinished(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.active.Add(ctx, -1)
	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordStage records a stage's latency.
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordError counts a stage failure.
func (m *PipelineMetrics) RecordError(ctx context.Context, stage, code string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("code", code),
	))
}
