package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"roottrack-api/internal/domain/dashboard"
)

// MemoryCache is an in-process LRU used when redis is not configured.
// Entries are private to the process, so other replicas may serve stale
// summaries until the TTL runs out.
type MemoryCache struct {
	cache *lru.Cache
	mu    sync.RWMutex
	now   func() time.Time
}

var _ dashboard.Cache = (*MemoryCache)(nil)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func NewMemoryCache(maxSize int) (*MemoryCache, error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &MemoryCache{cache: cache, now: time.Now}, nil
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, found := c.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	entry := val.(cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.cache.Remove(key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Add(key, cacheEntry{value: value, expiresAt: c.now().Add(ttl)})
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		c.cache.Remove(key)
	}
	return nil
}
