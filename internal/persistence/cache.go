package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResourceCache stores serialized resource listings in Redis. It never
// caches principals or credentials, only the tiered catalog payloads.
type ResourceCache struct {
	redis *Redis
}

// NewResourceCache wraps the shared Redis client.
func NewResourceCache(r *Redis) *ResourceCache {
	return &ResourceCache{redis: r}
}

// Get returns the cached payload for key, reporting a miss when the key
// is absent or Redis is not configured.
func (c *ResourceCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil, false, nil
	}
	val, err := c.redis.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

// Set stores the payload under key with the given TTL.
func (c *ResourceCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil
	}
	return c.redis.Client.Set(ctx, key, value, ttl).Err()
}
