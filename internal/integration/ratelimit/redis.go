// Package ratelimit implements adapter.RateLimiter with fixed windows.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kakeibo/backend/internal/application/adapter"
)

const keyPrefix = "ratelimit:"

// RedisLimiter keeps one counter per identifier in Redis. The first hit of a
// window creates the key and sets its expiry. The key's TTL is the retry-after.
type RedisLimiter struct {
	client redis.Cmdable
}

// NewRedisLimiter creates a new RedisLimiter.
func NewRedisLimiter(client redis.Cmdable) *RedisLimiter {
	return &RedisLimiter{client: client}
}

// Check increments the identifier's counter and reports whether it is within the limit.
func (l *RedisLimiter) Check(ctx context.Context, identifier string, cfg adapter.RateLimitConfig) (*adapter.RateLimitResult, error) {
	key := keyPrefix + identifier

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit pipeline failed: %w", err)
	}

	count := int(incr.Val())
	retryAfter := ttl.Val()
	if retryAfter < 0 {
		// New window: the key has no expiry yet.
		if err := l.client.PExpire(ctx, key, cfg.Window).Err(); err != nil {
			return nil, fmt.Errorf("rate limit expiry failed: %w", err)
		}
		retryAfter = cfg.Window
	}

	return result(count, cfg.Limit, retryAfter), nil
}

func result(count, limit int, retryAfter time.Duration) *adapter.RateLimitResult {
	if count > limit {
		return &adapter.RateLimitResult{Allowed: false, Remaining: 0, RetryAfter: retryAfter}
	}
	return &adapter.RateLimitResult{Allowed: true, Remaining: limit - count}
}
