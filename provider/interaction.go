package provider

import "context"

// RequestResponse is a backend that maps one input to one output: an HTTP
// sidecar call or a subprocess run.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Func adapts a plain function to RequestResponse. Useful for fakes.
type Func[I, O any] struct {
	ProviderName string
	Available    bool
	Fn           func(ctx context.Context, input I) (O, error)
}

func (f *Func[I, O]) Name() string                       { return f.ProviderName }
func (f *Func[I, O]) IsAvailable(_ context.Context) bool { return f.Available }

func (f *Func[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.Fn(ctx, input)
}
