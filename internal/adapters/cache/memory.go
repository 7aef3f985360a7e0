package cache

import (
	"ReferralHub/internal/core/ports"
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryCache is a process-local cache backed by go-cache.
type memoryCache struct {
	store *gocache.Cache
}

var _ ports.Cache = (*memoryCache)(nil)

// NewMemoryCache creates an in-process cache. Expired entries are purged
// every cleanupInterval.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) ports.Cache {
	return &memoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v.([]byte), nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.store.Set(key, value, ttl)
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.store.Delete(key)
	return nil
}
