package analysis

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kbukum/soundguard/audio"
	"github.com/kbukum/soundguard/classification"
	"github.com/kbukum/soundguard/component"
	"github.com/kbukum/soundguard/logger"
	"github.com/kbukum/soundguard/provider"
	"github.com/kbukum/soundguard/transcription"
)

// Runtime is the process-wide model state shared by every run. Init probes
// the backends exactly once; a failed probe leaves that stage answering
// MODEL_UNAVAILABLE until restart.
type Runtime struct {
	classifier  *classification.Classifier
	transcriber *transcription.Transcriber
	transcoder  *audio.Transcoder
	decoder     *audio.Decoder
	log         *logger.Logger

	once    sync.Once
	mu      sync.RWMutex
	done    bool
	initErr error
}

var _ component.Component = (*Runtime)(nil)

// NewRuntime assembles a Runtime. Nothing is probed until Init.
func NewRuntime(
	classifier *classification.Classifier,
	transcriber *transcription.Transcriber,
	transcoder *audio.Transcoder,
	decoder *audio.Decoder,
	log *logger.Logger,
) *Runtime {
	return &Runtime{
		classifier:  classifier,
		transcriber: transcriber,
		transcoder:  transcoder,
		decoder:     decoder,
		log:         log.WithComponent("runtime"),
	}
}

// Init loads the class map and probes both models. Safe to call from any
// number of goroutines; only the first call does work and every call
// returns its outcome.
func (r *Runtime) Init(ctx context.Context) error {
	r.once.Do(func() {
		var wg sync.WaitGroup
		var clsErr, trErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			clsErr = r.classifier.Init(ctx)
		}()
		go func() {
			defer wg.Done()
			trErr = r.transcriber.Init(ctx)
		}()
		wg.Wait()

		var errs []error
		if clsErr != nil {
			errs = append(errs, fmt.Errorf("classifier: %w", clsErr))
		}
		if trErr != nil {
			errs = append(errs, fmt.Errorf("transcriber: %w", trErr))
		}
		if !r.transcoder.Ready(ctx) {
			r.log.Warn("ffmpeg not found, only 16 kHz mono wav uploads can be decoded")
		}

		err := stderrors.Join(errs...)
		r.mu.Lock()
		r.done = true
		r.initErr = err
		r.mu.Unlock()

		if err != nil {
			r.log.Error("runtime degraded", logger.Fields(logger.FieldError, err.Error()))
			return
		}
		r.log.Info("runtime ready", logger.Fields("classifier", r.classifier.Name(), "transcriber", r.transcriber.Name()))
	})

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initErr
}

// Classifier returns the sound classifier.
func (r *Runtime) Classifier() *classification.Classifier { return r.classifier }

// Transcriber returns the speech transcriber.
func (r *Runtime) Transcriber() *transcription.Transcriber { return r.transcriber }

// Transcoder returns the container transcoder.
func (r *Runtime) Transcoder() *audio.Transcoder { return r.transcoder }

// Decoder returns the canonical audio decoder.
func (r *Runtime) Decoder() *audio.Decoder { return r.decoder }

func (r *Runtime) Name() string { return "runtime" }

// Start runs Init. Model failures degrade the runtime but never stop the
// service from starting.
func (r *Runtime) Start(ctx context.Context) error {
	_ = r.Init(ctx)
	return nil
}

// Stop releases both backends.
func (r *Runtime) Stop(ctx context.Context) error {
	return stderrors.Join(r.classifier.Close(ctx), r.transcriber.Close(ctx))
}

// Health is unhealthy before Init or when both models are down, and
// degraded when one model, the class map, or ffmpeg is missing.
func (r *Runtime) Health(ctx context.Context) component.Health {
	r.mu.RLock()
	done := r.done
	r.mu.RUnlock()
	if !done {
		return component.Health{Name: r.Name(), Status: component.StatusUnhealthy, Message: "not initialized"}
	}

	cls := r.classifier.Health(ctx)
	tr := r.transcriber.Health(ctx)

	var problems []string
	if cls.Status != provider.StatusHealthy {
		problems = append(problems, "classifier: "+cls.Message)
	}
	if tr.Status != provider.StatusHealthy {
		problems = append(problems, "transcriber: "+tr.Message)
	}
	if !r.transcoder.Ready(ctx) {
		problems = append(problems, "transcoder: ffmpeg not found")
	}

	h := component.Health{Name: r.Name(), Status: component.StatusHealthy, Message: strings.Join(problems, "; ")}
	switch {
	case cls.Status == provider.StatusUnavailable && tr.Status == provider.StatusUnavailable:
		h.Status = component.StatusUnhealthy
	case len(problems) > 0:
		h.Status = component.StatusDegraded
	}
	return h
}
