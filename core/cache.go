package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// Cache is a key/value store with per-entry expiry.
type Cache[V any] interface {
	Get(key string) (V, error)
	Set(key string, value V, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

type CacheWithStats[V any] interface {
	Cache[V]
	Stats() CacheStats
}

type CacheConfig struct {
	// DefaultTTL applies when Set is called with ttl <= 0.
	DefaultTTL time.Duration
	Clock      Clock
}

// CacheStats are simple counters for cache behavior.
// These are intended for diagnostics and monitoring.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Sets    int64 `json:"sets"`
	Deletes int64 `json:"deletes"`
	Size    int   `json:"size"`
}

// InMemoryCache is a process-local cache. Entries are never swept: an
// expired entry reads as absent and is replaced by the next Set for its key.
// There is no size bound.
type InMemoryCache[V any] struct {
	cache      map[string]cachedRecord[V]
	mu         sync.RWMutex
	defaultTTL time.Duration
	clock      Clock

	// counters
	hits    int64
	misses  int64
	sets    int64
	deletes int64
}

type cachedRecord[V any] struct {
	value     V
	expiresAt time.Time
}

var _ CacheWithStats[ClientID] = (*InMemoryCache[ClientID])(nil)

func NewInMemoryCache[V any](c CacheConfig) *InMemoryCache[V] {
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = 5 * time.Minute
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}

	return &InMemoryCache[V]{
		cache:      make(map[string]cachedRecord[V]),
		defaultTTL: c.DefaultTTL,
		clock:      c.Clock,
	}
}

func (c *InMemoryCache[V]) Get(key string) (V, error) {
	c.mu.RLock()
	record, exists := c.cache[key]
	c.mu.RUnlock()

	if !exists || !c.clock.Now().Before(record.expiresAt) {
		atomic.AddInt64(&c.misses, 1)
		var zero V
		return zero, ErrCacheNotFound
	}

	atomic.AddInt64(&c.hits, 1)
	return record.value, nil
}

func (c *InMemoryCache[V]) Set(key string, value V, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = cachedRecord[V]{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}

	atomic.AddInt64(&c.sets, 1)
	return nil
}

func (c *InMemoryCache[V]) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, existed := c.cache[key]; existed {
		delete(c.cache, key)
		atomic.AddInt64(&c.deletes, 1)
	}
	return nil
}

func (c *InMemoryCache[V]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cachedRecord[V])
	return nil
}

// Len counts stored entries, expired ones included.
func (c *InMemoryCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *InMemoryCache[V]) Stats() CacheStats {
	return CacheStats{
		Hits:    atomic.LoadInt64(&c.hits),
		Misses:  atomic.LoadInt64(&c.misses),
		Sets:    atomic.LoadInt64(&c.sets),
		Deletes: atomic.LoadInt64(&c.deletes),
		Size:    c.Len(),
	}
}
