package classification

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/kbukum/soundguard/audio"
	"github.com/kbukum/soundguard/errors"
	"github.com/kbukum/soundguard/logger"
	"github.com/kbukum/soundguard/provider"
)

// Classifier runs a backend and turns its scores into a label.
type Classifier struct {
	backend      Provider
	classMapPath string
	timeout      time.Duration
	log          *logger.Logger

	ready    atomic.Bool
	taxonomy atomic.Pointer[Taxonomy]
}

// NewClassifier creates a Classifier. It rejects every call with
// MODEL_UNAVAILABLE until Init succeeds.
func NewClassifier(backend Provider, cfg Config, log *logger.Logger) *Classifier {
	return &Classifier{
		backend:      backend,
		classMapPath: cfg.ClassMapPath,
		timeout:      cfg.Timeout,
		log:          log.WithComponent("classifier"),
	}
}

// Name returns the backend name.
func (c *Classifier) Name() string { return c.backend.Name() }

// Init probes the backend and loads the class map. A missing class map is
// logged and leaves the classifier answering UNKNOWN_LABEL; only a failed
// probe is returned as an error.
func (c *Classifier) Init(ctx context.Context) error {
	if tax, err := LoadTaxonomy(c.classMapPath); err != nil {
		c.log.Error("class map unavailable", logger.Fields(logger.FieldPath, c.classMapPath, logger.FieldError, err.Error()))
	} else {
		c.taxonomy.Store(tax)
		c.log.Info("class map loaded", logger.Fields(logger.FieldPath, c.classMapPath, "classes", tax.Len()))
	}

	if err := provider.Init(ctx, c.backend); err != nil {
		c.log.Error("sound model unavailable", logger.Fields(logger.FieldModel, c.Name(), logger.FieldError, err.Error()))
		return err
	}
	c.ready.Store(true)
	return nil
}

// Close releases the backend. Later calls fail with MODEL_UNAVAILABLE.
func (c *Classifier) Close(ctx context.Context) error {
	c.ready.Store(false)
	return provider.Close(ctx, c.backend)
}

// SetTaxonomy replaces the class map.
func (c *Classifier) SetTaxonomy(t *Taxonomy) { c.taxonomy.Store(t) }

// Classify labels the dominant sound in a.
func (c *Classifier) Classify(ctx context.Context, a audio.CanonicalAudio) (*Result, error) {
	if !c.ready.Load() {
		return nil, errors.ModelUnavailable(c.Name())
	}
	if a.IsEmpty() {
		return nil, errors.EmptyAudio("classify")
	}
	tax := c.taxonomy.Load()
	if tax == nil {
		return nil, errors.UnknownLabel("class map not loaded")
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	scores, err := c.backend.Execute(callCtx, a)
	if err != nil {
		return nil, mapInferenceError(c.Name(), err)
	}
	return SelectLabel(scores, tax)
}

// Health reports unavailable before a successful Init and degraded without
// a class map.
func (c *Classifier) Health(_ context.Context) provider.HealthStatus {
	switch {
	case !c.ready.Load():
		return provider.HealthStatus{Status: provider.StatusUnavailable, Message: c.Name() + " not initialized"}
	case c.taxonomy.Load() == nil:
		return provider.HealthStatus{Status: provider.StatusDegraded, Message: "class map not loaded"}
	default:
		return provider.HealthStatus{Status: provider.StatusHealthy}
	}
}

// mapInferenceError turns a backend failure into the pipeline taxonomy:
// timeouts and concurrency rejections are MODEL_UNAVAILABLE, everything
// else INFERENCE_FAILED.
func mapInferenceError(model string, err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	if provider.IsUnavailable(err) {
		return errors.ModelUnavailable(model).WithCause(err)
	}
	return errors.InferenceFailed(model, err)
}
