package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/soundguard/errors"
)

// RateLimitConfig bounds requests per client per minute.
type RateLimitConfig struct {
	RequestsPerMinute int
	// KeyFunc picks the bucket. Defaults to the client IP.
	KeyFunc func(*gin.Context) string
}

// RateLimit rejects a client's requests beyond the per-minute budget with
// 429. Inference is expensive, so it guards the upload route.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	rl := &rateLimiter{requests: make(map[string][]time.Time), limit: cfg.RequestsPerMinute, now: time.Now}

	return func(c *gin.Context) {
		if !rl.allow(cfg.KeyFunc(c)) {
			c.Header("Retry-After", "60")
			abortWithError(c, errors.RateLimited())
			return
		}
		c.Next()
	}
}

type rateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	now      func() time.Time
}

// allow records a request for key if it fits the sliding one-minute window.
// Stale keys are pruned on the way.
func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-time.Minute)
	for k, times := range rl.requests {
		if k != key && (len(times) == 0 || !times[len(times)-1].After(cutoff)) {
			delete(rl.requests, k)
		}
	}

	valid := rl.requests[key][:0]
	for _, t := range rl.requests[key] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}
	rl.requests[key] = append(valid, now)
	return true
}
