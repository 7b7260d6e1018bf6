package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo/backend/internal/application/adapter"
)

var policy = adapter.RateLimitConfig{Limit: 3, Window: time.Minute}

func TestRedisLimiter(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter := NewRedisLimiter(client)

	for i := 1; i <= 3; i++ {
		res, err := limiter.Check(ctx, "1.2.3.4:/login", policy)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 3-i, res.Remaining)
	}

	res, err := limiter.Check(ctx, "1.2.3.4:/login", policy)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Greater(t, res.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, res.RetryAfter, time.Minute)

	t.Run("identifiers are independent", func(t *testing.T) {
		res, err := limiter.Check(ctx, "5.6.7.8:/login", policy)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("window expiry resets the counter", func(t *testing.T) {
		mr.FastForward(time.Minute + time.Second)
		res, err := limiter.Check(ctx, "1.2.3.4:/login", policy)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2, res.Remaining)
	})

	t.Run("redis unavailable", func(t *testing.T) {
		mr.Close()
		_, err := limiter.Check(ctx, "1.2.3.4:/login", policy)
		assert.Error(t, err)
	})
}

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter()
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		res, err := limiter.Check(ctx, "ip", policy)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}

	now = now.Add(20 * time.Second)
	res, err := limiter.Check(ctx, "ip", policy)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 40*time.Second, res.RetryAfter)

	t.Run("sweep keeps live windows", func(t *testing.T) {
		assert.Equal(t, 0, limiter.Sweep())
	})

	t.Run("expired windows are swept and reset", func(t *testing.T) {
		now = now.Add(time.Minute)
		assert.Equal(t, 1, limiter.Sweep())

		res, err := limiter.Check(ctx, "ip", policy)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2, res.Remaining)
	})
}

func TestMemoryLimiter_RunStopsOnCancel(t *testing.T) {
	limiter := NewMemoryLimiter()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		limiter.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
