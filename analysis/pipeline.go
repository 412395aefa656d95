package analysis

import (
	"context"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/soundguard/audio"
	"github.com/kbukum/soundguard/classification"
	"github.com/kbukum/soundguard/errors"
	"github.com/kbukum/soundguard/logger"
	"github.com/kbukum/soundguard/observability"
	"github.com/kbukum/soundguard/storage"
	"github.com/kbukum/soundguard/transcription"
)

// State names a step of one run. Transitions are logged with the request id.
type State string

const (
	StateReceived     State = "received"
	StateValidated    State = "validated"
	StateTranscoding  State = "transcoding"
	StateDecoding     State = "decoding"
	StateClassifying  State = "classifying"
	StateTranscribing State = "transcribing"
	StateAggregated   State = "aggregated"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

// Stage names used in logs, spans and metrics.
const (
	stageValidate   = "validate"
	stageSave       = "save"
	stageTranscode  = "transcode"
	stageDecode     = "decode"
	stageClassify   = "classify"
	stageTranscribe = "transcribe"
)

// Clip is one upload. The pipeline reads Body once and never uses
// Filename for anything but its extension.
type Clip struct {
	Filename string
	Body     io.Reader
}

// Pipeline runs clips through the runtime's stages.
type Pipeline struct {
	rt      *Runtime
	store   storage.Storage
	policy  FailurePolicy
	metrics *observability.PipelineMetrics
	log     *logger.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics records run and stage metrics on m.
func WithMetrics(m *observability.PipelineMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// NewPipeline creates a Pipeline over rt using store as scratch space.
func NewPipeline(rt *Runtime, store storage.Storage, cfg Config, log *logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		rt:     rt,
		store:  store,
		policy: cfg.Policy(),
		log:    log.WithComponent("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Policy returns the configured failure policy.
func (p *Pipeline) Policy() FailurePolicy { return p.policy }

// Run processes clip and always returns a Result. Scratch files created
// for the run are removed before Run returns, whatever the outcome.
func (p *Pipeline) Run(ctx context.Context, clip Clip) *Result {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun,
		attribute.String(observability.AttrRequestID, logger.RequestIDFromContext(ctx)))
	defer span.End()

	p.metrics.RunStarted(ctx)
	log := p.log.WithContext(ctx)
	log.Debug("state", logger.Fields(logger.FieldState, StateReceived))

	res := p.run(ctx, log, clip)

	final := StateCompleted
	if res.Status == StatusFailed {
		final = StateFailed
	}
	fields := logger.Fields(
		logger.FieldState, final,
		logger.FieldStatus, res.Status,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	)
	if res.Err != nil {
		fields[logger.FieldCode] = res.Err.Code
		fields[logger.FieldError] = res.Err.Error()
		span.SetAttributes(attribute.String(observability.AttrErrorCode, string(res.Err.Code)))
	}
	if res.Status != StatusFailed {
		span.SetAttributes(attribute.String(observability.AttrLabel, res.SoundClass))
	}
	span.SetAttributes(attribute.String(observability.AttrStatus, string(res.Status)))

	switch res.Status {
	case StatusFailed:
		observability.SetSpanError(ctx, res.Err)
		log.Warn("pipeline failed", fields)
	case StatusPartial:
		log.Warn("pipeline partially completed", fields)
	default:
		log.Info("pipeline completed", fields)
	}
	p.metrics.RunFinished(ctx, string(res.Status))
	return res
}

func (p *Pipeline) run(ctx context.Context, log *logger.Logger, clip Clip) *Result {
	ext, err := audio.Validate(clip.Filename)
	if err != nil {
		return p.fail(ctx, stageValidate, err)
	}
	log.Debug("state", logger.Fields(logger.FieldState, StateValidated, logger.FieldExtension, ext))
	observability.SetSpanAttributes(ctx, attribute.String(observability.AttrExtension, ext))

	if err := ctx.Err(); err != nil {
		return p.fail(ctx, stageSave, errors.Canceled(stageSave, err))
	}
	ws := NewWorkspace(p.store)
	defer func() {
		// The run's own context may already be done; cleanup must still happen.
		if err := ws.Release(context.WithoutCancel(ctx)); err != nil {
			log.Error("scratch cleanup failed", logger.Fields("workspace", ws.ID(), logger.FieldError, err.Error()))
		}
	}()

	src, err := ws.Save(ctx, ext, clip.Body)
	if err != nil {
		return p.fail(ctx, stageSave, err)
	}

	canonical, decodeExt := src, ext
	if audio.NeedsTranscode(ext) {
		log.Debug("state", logger.Fields(logger.FieldState, StateTranscoding))
		err := p.stage(ctx, stageTranscode, observability.SpanTranscode, func(ctx context.Context) error {
			out, err := p.rt.Transcoder().Normalize(ctx, src, ext)
			canonical = out
			return err
		})
		if err != nil {
			return p.fail(ctx, stageTranscode, err)
		}
		decodeExt = "wav"
	}

	log.Debug("state", logger.Fields(logger.FieldState, StateDecoding))
	var samples audio.CanonicalAudio
	err = p.stage(ctx, stageDecode, observability.SpanDecode, func(ctx context.Context) error {
		a, err := p.rt.Decoder().Load(ctx, canonical, decodeExt)
		samples = a
		return err
	})
	if err != nil {
		return p.fail(ctx, stageDecode, err)
	}

	var (
		wg     sync.WaitGroup
		cls    *classification.Result
		clsErr error
		tr     *transcription.Result
		trErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		log.Debug("state", logger.Fields(logger.FieldState, StateClassifying))
		clsErr = p.stage(ctx, stageClassify, observability.SpanClassify, func(ctx context.Context) error {
			r, err := p.rt.Classifier().Classify(ctx, samples)
			cls = r
			return err
		})
	}()
	go func() {
		defer wg.Done()
		log.Debug("state", logger.Fields(logger.FieldState, StateTranscribing))
		trErr = p.stage(ctx, stageTranscribe, observability.SpanTranscribe, func(ctx context.Context) error {
			r, err := p.rt.Transcriber().Transcribe(ctx, samples)
			tr = r
			return err
		})
	}()
	wg.Wait()

	log.Debug("state", logger.Fields(logger.FieldState, StateAggregated))
	return Aggregate(cls, clsErr, tr, trErr, p.policy)
}

// stage runs fn in its own span unless ctx is already done, in which case
// fn never starts. Errors come back as *errors.AppError.
func (p *Pipeline) stage(ctx context.Context, name, spanName string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		appErr := errors.Canceled(name, err)
		p.metrics.RecordError(ctx, name, string(appErr.Code))
		return appErr
	}

	ctx, span := observability.StartSpan(ctx, spanName)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	p.metrics.RecordStage(ctx, name, elapsed)

	log := p.log.WithContext(ctx)
	if err != nil {
		appErr := errors.From(err)
		observability.SetSpanError(ctx, appErr)
		p.metrics.RecordError(ctx, name, string(appErr.Code))
		log.Warn("stage failed", logger.Fields(
			logger.FieldStage, name,
			logger.FieldCode, appErr.Code,
			logger.FieldDuration, elapsed.Milliseconds(),
			logger.FieldError, appErr.Error(),
		))
		return appErr
	}
	log.Debug("stage completed", logger.DurationFields(name, elapsed))
	return nil
}

func (p *Pipeline) fail(ctx context.Context, stage string, err error) *Result {
	appErr := errors.From(err)
	if stage == stageValidate || stage == stageSave {
		p.metrics.RecordError(ctx, stage, string(appErr.Code))
	}
	return Failed(appErr)
}
