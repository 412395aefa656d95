// Package provider defines the small contract shared by every model and
// subprocess backend in soundguard.
//
// A backend is a RequestResponse[I, O]: a named, probe-able component that
// turns one input into one output. Cross-cutting behavior is layered on with
// Middleware and composed with Chain:
//
//	backend := provider.Chain(
//	    provider.WithLogging[audio.CanonicalAudio, classification.ScoreMatrix](log),
//	    provider.WithTracing[audio.CanonicalAudio, classification.ScoreMatrix](observability.SpanClassify),
//	    provider.WithBulkhead[audio.CanonicalAudio, classification.ScoreMatrix](bulkhead),
//	)(yamnet.NewProvider(cfg))
//
// Backends may also implement Initializable, Closeable and HealthChecker.
// Registry maps a configured backend name to its Factory.
package provider
