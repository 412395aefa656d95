// Package observability wires OpenTelemetry tracing and metrics for the
// analysis pipeline.
//
// When disabled, the global no-op providers stay in place and every helper
// here is safe to call.
//
//	shutdown, err := observability.Setup(ctx, cfg, "soundguard", version.GetVersion())
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanClassify)
//	defer span.End()
package observability
