package provider

import "context"

// Initializable is implemented by backends that need a startup step, such
// as probing a sidecar or resolving a binary.
type Initializable interface {
	Init(ctx context.Context) error
}

// Closeable is implemented by backends holding resources to release.
type Closeable interface {
	Close(ctx context.Context) error
}

// Wrapper is implemented by middleware so lifecycle calls reach the backend
// underneath.
type Wrapper interface {
	Unwrap() Provider
}

// Init calls Init on the first Initializable found while unwrapping p,
// otherwise falls back to an IsAvailable probe. A false probe is reported
// as ErrUnavailable.
func Init(ctx context.Context, p Provider) error {
	if in, ok := find[Initializable](p); ok {
		return in.Init(ctx)
	}
	if !p.IsAvailable(ctx) {
		return ErrUnavailable
	}
	return nil
}

// Close calls Close on the first Closeable found while unwrapping p.
func Close(ctx context.Context, p Provider) error {
	if c, ok := find[Closeable](p); ok {
		return c.Close(ctx)
	}
	return nil
}

func find[T any](p Provider) (T, bool) {
	for p != nil {
		if t, isT := p.(T); isT {
			return t, true
		}
		w, isW := p.(Wrapper)
		if !isW {
			break
		}
		p = w.Unwrap()
	}
	var zero T
	return zero, false
}
