package prtg

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys for the two PRTG tables.
const (
	cacheKeyDevices = "prtg:devices"
	cacheKeyGroups  = "prtg:groups"
)

// TableCache keeps recent PRTG table responses in redis so the dashboard's
// polling does not hammer the monitoring server. A cache problem is never a
// request problem: failures degrade to a miss.
type TableCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewTableCache constructs a TableCache.
func NewTableCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *TableCache {
	return &TableCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached payload for key, if present.
func (c *TableCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("prtg cache get", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}
	return payload, true
}

// Set stores a payload under key for the configured TTL.
func (c *TableCache) Set(ctx context.Context, key string, payload []byte) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("prtg cache set", slog.String("key", key), slog.Any("error", err))
	}
}

// InvalidateDevices drops the cached device table after a mutation.
func (c *TableCache) InvalidateDevices(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKeyDevices).Err(); err != nil {
		c.logger.Warn("prtg cache invalidate", slog.Any("error", err))
	}
}
