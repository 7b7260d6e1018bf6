package adapter

import (
	"context"
	"time"
)

// RateLimitConfig describes a fixed window policy.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// RateLimitResult is the outcome of a single Check.
// RetryAfter is only meaningful when Allowed is false.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter counts requests per identifier inside a window.
type RateLimiter interface {
	// Check records one attempt for identifier and reports whether it is allowed.
	Check(ctx context.Context, identifier string, cfg RateLimitConfig) (*RateLimitResult, error)
}
