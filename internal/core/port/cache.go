package port

import (
	"context"
	"time"
)

// CacheRepository abstracts the response-cache backing store so the memory
// and redis adapters are interchangeable.
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Close() error
}
