package transcription

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kbukum/soundguard/audio"
	"github.com/kbukum/soundguard/errors"
	"github.com/kbukum/soundguard/logger"
	"github.com/kbukum/soundguard/provider"
)

// Transcriber runs a speech backend and scans its transcript for keywords.
type Transcriber struct {
	backend  Provider
	keywords KeywordSet
	language string
	timeout  time.Duration
	log      *logger.Logger

	ready atomic.Bool
}

// NewTranscriber creates a Transcriber. Every call fails with
// MODEL_UNAVAILABLE until Init succeeds.
func NewTranscriber(backend Provider, cfg Config, keywords KeywordSet, log *logger.Logger) *Transcriber {
	return &Transcriber{
		backend:  backend,
		keywords: keywords,
		language: cfg.Language,
		timeout:  cfg.Timeout,
		log:      log.WithComponent("transcriber"),
	}
}

// Name returns the backend name.
func (t *Transcriber) Name() string { return t.backend.Name() }

// Keywords returns the configured keyword set.
func (t *Transcriber) Keywords() KeywordSet { return t.keywords }

// Init probes the backend once.
func (t *Transcriber) Init(ctx context.Context) error {
	if err := provider.Init(ctx, t.backend); err != nil {
		t.log.Error("speech model unavailable", logger.Fields(logger.FieldModel, t.Name(), logger.FieldError, err.Error()))
		return err
	}
	t.ready.Store(true)
	t.log.Info("speech model ready", logger.Fields(logger.FieldModel, t.Name(), "keywords", t.keywords.Len()))
	return nil
}

// Close releases the backend. Later calls fail with MODEL_UNAVAILABLE.
func (t *Transcriber) Close(ctx context.Context) error {
	t.ready.Store(false)
	return provider.Close(ctx, t.backend)
}

// Transcribe returns the transcript of a and the keywords found in it.
// Silence yields an empty transcript, not an error.
func (t *Transcriber) Transcribe(ctx context.Context, a audio.CanonicalAudio) (*Result, error) {
	if !t.ready.Load() {
		return nil, errors.ModelUnavailable(t.Name())
	}
	if a.IsEmpty() {
		return nil, errors.EmptyAudio("transcribe")
	}

	callCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	resp, err := t.backend.Execute(callCtx, Request{Audio: a, Language: t.language})
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return nil, appErr
		}
		if provider.IsUnavailable(err) {
			return nil, errors.ModelUnavailable(t.Name()).WithCause(err)
		}
		return nil, errors.InferenceFailed(t.Name(), err)
	}

	text := strings.TrimSpace(resp.Text)
	return &Result{
		Text:     text,
		Keywords: t.keywords.Match(text),
		Language: resp.Language,
	}, nil
}

// Health reports unavailable before a successful Init.
func (t *Transcriber) Health(_ context.Context) provider.HealthStatus {
	if !t.ready.Load() {
		return provider.HealthStatus{Status: provider.StatusUnavailable, Message: t.Name() + " not initialized"}
	}
	return provider.HealthStatus{Status: provider.StatusHealthy}
}
