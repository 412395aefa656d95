// Package resilience holds the bulkhead used to cap concurrent model
// inference. Nothing in soundguard retries a failed stage, so this package
// deliberately offers no retry or circuit-breaker primitives.
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "inference", MaxConcurrent: 4})
//	err := bh.Execute(ctx, func() error { return callModel(ctx) })
package resilience
