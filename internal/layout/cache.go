package layout

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"galaxy-explorer/internal/shared/redis"
)

const cacheKeyPrefix = "layout:"

// Cache keeps encoded layout documents in Redis. A nil client disables it and
// every call becomes a miss. Redis failures are logged and treated as misses.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "layout_cache"),
	}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil && c.client.Client != nil
}

func (c *Cache) Get(ctx context.Context, name string) ([]byte, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, cacheKeyPrefix+name).Bytes()
	if stderrors.Is(err, goredis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Layout cache read failed", "operation", "get", "name", name, "error", err)
		return nil, false
	}
	return data, true
}

func (c *Cache) Set(ctx context.Context, name string, doc []byte) {
	if !c.enabled() {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+name, doc, c.ttl).Err(); err != nil {
		c.logger.Warn("Layout cache write failed", "operation", "set", "name", name, "error", err)
	}
}

func (c *Cache) Invalidate(ctx context.Context, name string) {
	if !c.enabled() {
		return
	}
	if err := c.client.Del(ctx, cacheKeyPrefix+name).Err(); err != nil {
		c.logger.Warn("Layout cache delete failed", "operation", "invalidate", "name", name, "error", err)
	}
}
