package main

import (
	"fmt"

	"github.com/kbukum/soundguard/analysis"
	"github.com/kbukum/soundguard/audio"
	"github.com/kbukum/soundguard/classification"
	"github.com/kbukum/soundguard/classification/yamnet"
	"github.com/kbukum/soundguard/logger"
	"github.com/kbukum/soundguard/observability"
	"github.com/kbukum/soundguard/provider"
	"github.com/kbukum/soundguard/resilience"
	"github.com/kbukum/soundguard/storage"
	_ "github.com/kbukum/soundguard/storage/local"
	"github.com/kbukum/soundguard/transcription"
	"github.com/kbukum/soundguard/transcription/whisper"
)

var (
	classifiers  = provider.NewRegistry[classification.Provider]()
	transcribers = provider.NewRegistry[transcription.Provider]()
)

func init() {
	classifiers.RegisterFactory(yamnet.ProviderName, yamnet.Factory())
	transcribers.RegisterFactory(whisper.ProviderName, whisper.Factory())
}

// service is everything a command needs to run clips.
type service struct {
	runtime  *analysis.Runtime
	scratch  *storage.Component
	pipeline *analysis.Pipeline
}

// buildService wires backends, runtime, scratch storage and pipeline from
// cfg. Nothing touches the network until the runtime starts.
func buildService(cfg *appConfig, log *logger.Logger) (*service, error) {
	store, err := storage.New(cfg.Scratch, log)
	if err != nil {
		return nil, err
	}

	clsBackend, err := classifiers.Create(cfg.Classifier.Backend, cfg.Classifier.FactoryConfig())
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	trBackend, err := transcribers.Create(cfg.Transcriber.Backend, cfg.Transcriber.FactoryConfig())
	if err != nil {
		return nil, fmt.Errorf("transcriber: %w", err)
	}

	clsBackend = guard(clsBackend, bulkhead(cfg.Inference, "classifier", log), log)
	trBackend = guard(trBackend, bulkhead(cfg.Inference, "transcriber", log), log)

	runner := audio.NewRunner(cfg.Transcoder, log)
	rt := analysis.NewRuntime(
		classification.NewClassifier(clsBackend, cfg.Classifier, log),
		transcription.NewTranscriber(trBackend, cfg.Transcriber, transcription.NewKeywordSet(cfg.Keywords...), log),
		audio.NewTranscoder(runner, cfg.Transcoder.Binary, log),
		audio.NewDecoder(runner, cfg.Transcoder.Binary, log),
		log,
	)

	metrics, err := observability.NewPipelineMetrics(observability.Meter())
	if err != nil {
		return nil, err
	}
	return &service{
		runtime:  rt,
		scratch:  storage.NewComponent(store, log),
		pipeline: analysis.NewPipeline(rt, store, cfg.Pipeline, log, analysis.WithMetrics(metrics)),
	}, nil
}

// bulkhead bounds in-flight calls to one model server. Each model gets its
// own so a slow transcriber cannot starve classification.
func bulkhead(cfg resilience.BulkheadConfig, name string, log *logger.Logger) *resilience.Bulkhead {
	cfg.Name = name
	cfg.OnReject = func(name string) {
		log.Warn("inference bulkhead full", logger.Fields(logger.FieldModel, name))
	}
	return resilience.NewBulkhead(cfg)
}

// guard wraps an inference backend with logging, tracing and a bulkhead.
func guard[I, O any](p provider.RequestResponse[I, O], b *resilience.Bulkhead, log *logger.Logger) provider.RequestResponse[I, O] {
	return provider.Chain(
		provider.WithLogging[I, O](log),
		provider.WithTracing[I, O](observability.SpanInference),
		provider.WithBulkhead[I, O](b),
	)(p)
}
