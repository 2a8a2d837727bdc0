// Package redis caches the mapping from short codes to original URLs in Redis.
//
// The mapping never changes once a URL is created, so entries only expire to bound
// memory. Counters are never cached.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL = time.Hour
	keyPrefix  = "url:"
)

type URLCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewURLCache returns a cache storing entries for ttl, or for an hour when ttl is not positive.
func NewURLCache(client *redis.Client, ttl time.Duration) *URLCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &URLCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *URLCache) GetOriginalURL(ctx context.Context, shortCode string) (string, bool, error) {
	const op = "adapter.cache.redis.URLCache.GetOriginalURL"

	originalURL, err := c.client.Get(ctx, keyPrefix+shortCode).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("%s: failed to get key: %w", op, err)
	}

	return originalURL, true, nil
}

func (c *URLCache) SetOriginalURL(ctx context.Context, shortCode, originalURL string) error {
	const op = "adapter.cache.redis.URLCache.SetOriginalURL"

	if err := c.client.Set(ctx, keyPrefix+shortCode, originalURL, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: failed to set key: %w", op, err)
	}

	return nil
}
