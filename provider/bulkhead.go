package provider

import (
	"context"
	"fmt"

	"github.com/kbukum/soundguard/resilience"
)

// ErrRejected wraps bulkhead rejections so callers can map them with
// errors.Is without importing resilience.
var ErrRejected = fmt.Errorf("%w: concurrency limit reached", ErrUnavailable)

// WithBulkhead caps concurrent Execute calls with b. A call that cannot get
// a slot fails with an error wrapping ErrRejected.
func WithBulkhead[I, O any](b *resilience.Bulkhead) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if b == nil {
			return inner
		}
		return &bulkheadRR[I, O]{inner: inner, bulkhead: b}
	}
}

type bulkheadRR[I, O any] struct {
	inner    RequestResponse[I, O]
	bulkhead *resilience.Bulkhead
}

func (b *bulkheadRR[I, O]) Name() string                         { return b.inner.Name() }
func (b *bulkheadRR[I, O]) IsAvailable(ctx context.Context) bool { return b.inner.IsAvailable(ctx) }
func (b *bulkheadRR[I, O]) Unwrap() Provider                     { return b.inner }

func (b *bulkheadRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	var output O
	err := b.bulkhead.Execute(ctx, func() error {
		var execErr error
		output, execErr = b.inner.Execute(ctx, input)
		return execErr
	})
	if resilience.IsRejection(err) {
		return output, fmt.Errorf("%s: %w (%w)", b.inner.Name(), ErrRejected, err)
	}
	return output, err
}
