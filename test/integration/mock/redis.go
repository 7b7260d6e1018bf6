//go:build integration

package mock

import (
	"context"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisOnce sync.Once
var redisMock *Redis

// Redis pairs a miniredis server with a go-redis client pointed at it.
type Redis struct {
	server *miniredis.Miniredis
	Client *redis.Client
}

// NewRedis starts the shared miniredis instance on first use.
func NewRedis() *Redis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisMock = &Redis{
			server: server,
			Client: redis.NewClient(&redis.Options{Addr: server.Addr()}),
		}
	})
	return redisMock
}

// Clear drops every key.
func (r *Redis) Clear() error {
	return r.Client.FlushAll(context.Background()).Err()
}

// FastForward advances miniredis' TTL clock so rate limit windows expire.
func (r *Redis) FastForward(d time.Duration) {
	r.server.FastForward(d)
}
