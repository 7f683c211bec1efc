package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryWindow struct {
	start time.Time
	count int
}

// MemoryLimiter keeps per-key counters in a mutex-guarded map. Suitable for
// single-node deployments and tests; use RedisLimiter when more than one
// instance serves traffic.
type MemoryLimiter struct {
	config Config
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*memoryWindow
}

// NewMemoryLimiter creates an in-memory limiter for the given config.
func NewMemoryLimiter(config Config) *MemoryLimiter {
	return &MemoryLimiter{
		config:  config,
		now:     time.Now,
		windows: make(map[string]*memoryWindow),
	}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now()
	windowStart := now.Truncate(l.config.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || w.start.Before(windowStart) {
		w = &memoryWindow{start: windowStart}
		l.windows[key] = w
	}
	w.count++

	// Expired windows for other keys are reaped opportunistically so the
	// map does not grow without bound.
	for k, other := range l.windows {
		if other.start.Before(windowStart) {
			delete(l.windows, k)
		}
	}

	remaining := l.config.Limit - w.count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   w.count <= l.config.Limit,
		Remaining: remaining,
		Reset:     windowStart.Add(l.config.Window),
	}, nil
}
