package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// ErrLockTimeout is returned when a lock could not be acquired in time.
var ErrLockTimeout = errors.New("redis: lock wait timed out")

const (
	lockPrefix   = "lock:"
	lockTTL      = 10 * time.Second
	lockWait     = 5 * time.Second
	lockInterval = 50 * time.Millisecond
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lease re-acquired by someone else is never released by us.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Client wraps the Redis connection.
type Client struct {
	rdb    goredis.UniversalClient
	logger *slog.Logger
}

// NewClient connects to Redis with retry.
func NewClient(ctx context.Context, addr string, logger *slog.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	for i := 0; i < 20; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			logger.Info("connected to redis", "addr", addr)
			return &Client{rdb: rdb, logger: logger}, nil
		}
		logger.Warn("waiting for redis", "attempt", i+1, "error", err)
		select {
		case <-ctx.Done():
			rdb.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	rdb.Close()
	return nil, fmt.Errorf("redis: failed to connect after 20 attempts")
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(rdb goredis.UniversalClient, logger *slog.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// Lock takes the named lease, polling until it is free or the wait budget
// runs out. The returned func releases it and is safe to call once.
func (c *Client) Lock(ctx context.Context, name string) (func(), error) {
	key := lockPrefix + name
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	ticker := time.NewTicker(lockInterval)
	defer ticker.Stop()
	for {
		ok, err := c.rdb.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return func() { c.release(key, token) }, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		case <-ticker.C:
		}
	}
}

func (c *Client) release(key, token string) {
	// The request context may already be gone; release on a fresh one.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, c.rdb, []string{key}, token).Err(); err != nil {
		c.logger.Warn("failed to release lock", "key", key, "error", err)
	}
}

// Close tears down the Redis connection.
func (c *Client) Close() error { return c.rdb.Close() }
