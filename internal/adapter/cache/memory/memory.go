package memory

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"taskmanager/internal/core/port"
)

type cacheRepository struct {
	cache *cache.Cache
}

// NewCacheRepository is the in-process cache backend, used when no
// REDIS_URL is configured.
func NewCacheRepository() port.CacheRepository {
	return &cacheRepository{
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (c *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, value, ttl)
	return nil
}

func (c *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := c.cache.Get(key)

	if !found {
		return nil, nil
	}

	data, ok := value.([]byte)

	if !ok {
		return nil, nil
	}

	return data, nil
}

func (c *cacheRepository) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

func (c *cacheRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}

	return nil
}

func (c *cacheRepository) Close() error {
	c.cache.Flush()
	return nil
}
