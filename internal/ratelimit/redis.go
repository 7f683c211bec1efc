package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter keeps per-key counters in Redis, one counter per truncated
// window. INCR and EXPIRE run in a single pipeline so the check is atomic
// across instances.
type RedisLimiter struct {
	redis  *redis.Client
	config Config
}

// NewRedisLimiter creates a Redis-backed limiter for the given config.
func NewRedisLimiter(redisClient *redis.Client, config Config) *RedisLimiter {
	return &RedisLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now()
	windowStart := now.Truncate(l.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.config.KeyPrefix, key, windowStart.Unix())

	pipe := l.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := int(incrCmd.Val())
	remaining := l.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= l.config.Limit,
		Remaining: remaining,
		Reset:     windowStart.Add(l.config.Window),
	}, nil
}
