// Package ratelimit provides the keyed fixed-window admission control used
// by the recipe generation pipeline. Counters live either in process memory
// or in Redis; both implementations use atomic increment-and-check so
// concurrent requests cannot slip past the limit.
package ratelimit

import (
	"context"
	"time"
)

// Config defines a window and the number of requests allowed inside it.
type Config struct {
	Window time.Duration
	Limit  int
	// KeyPrefix namespaces Redis keys; ignored by the in-memory limiter.
	KeyPrefix string
}

// Result describes the outcome of one admission check.
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Limiter admits at most Limit operations per Window per key.
type Limiter interface {
	// Allow consumes one slot for key and reports whether the operation
	// may proceed. The increment happens even when the answer is no, so a
	// burst of rejected requests keeps the window closed.
	Allow(ctx context.Context, key string) (Result, error)
}

// GenerationConfig is the admission policy for /api/recipes/generate:
// five requests per rolling fifteen minutes per caller.
func GenerationConfig() Config {
	return Config{
		Window:    15 * time.Minute,
		Limit:     5,
		KeyPrefix: "rate_limit:recipe_generation",
	}
}
