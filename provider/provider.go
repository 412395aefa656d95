package provider

import "context"

// Provider is the base interface every backend implements.
type Provider interface {
	Name() string
	// IsAvailable reports whether the backend can take requests right now.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a backend from a loosely typed config map.
type Factory[T Provider] func(cfg map[string]any) (T, error)
