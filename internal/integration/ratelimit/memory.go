package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kakeibo/backend/internal/application/adapter"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a single-process fixed window limiter. Expired windows are
// removed by Run; without it they are only reset lazily on the next hit.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryLimiter creates a new MemoryLimiter using the wall clock.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Check records one attempt for identifier.
func (l *MemoryLimiter) Check(_ context.Context, identifier string, cfg adapter.RateLimitConfig) (*adapter.RateLimitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[identifier]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(cfg.Window)}
		l.windows[identifier] = w
	}
	w.count++

	return result(w.count, cfg.Limit, w.resetAt.Sub(now)), nil
}

// Sweep drops every expired window and returns how many were removed.
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// Run sweeps on every tick until ctx is cancelled.
func (l *MemoryLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Sweep(); n > 0 {
				slog.Debug("Rate limit windows swept", "removed", n)
			}
		}
	}
}
