package core

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestCache(clock Clock) *InMemoryCache[ClientID] {
	return NewInMemoryCache[ClientID](CacheConfig{
		DefaultTTL: 2 * time.Minute,
		Clock:      clock,
	})
}

func TestInMemoryCacheGetSetShouldStoreAndRetrieve(t *testing.T) {
	cache := newTestCache(newFakeClock())

	// Test Set
	if err := cache.Set("hash789", ClientID(42), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Test Get
	retrieved, err := cache.Get("hash789")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if retrieved != 42 {
		t.Errorf("Expected client 42, got %d", retrieved)
	}
}

func TestInMemoryCacheGetNonExistentShouldReturnErrCacheNotFound(t *testing.T) {
	cache := newTestCache(newFakeClock())

	_, err := cache.Get("nonexistent")
	if err != ErrCacheNotFound {
		t.Errorf("Expected ErrCacheNotFound, got %v", err)
	}
}

func TestInMemoryCacheExpiryShouldExpireEntriesAfterTTL(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		wantHit bool
	}{
		{name: "just before expiry", advance: 2*time.Minute - time.Second, wantHit: true},
		{name: "exactly at expiry", advance: 2 * time.Minute, wantHit: false},
		{name: "after expiry", advance: 3 * time.Minute, wantHit: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			clock := newFakeClock()
			cache := newTestCache(clock)
			cache.Set("hash789", ClientID(7), 2*time.Minute)

			// Act
			clock.Advance(test.advance)
			_, err := cache.Get("hash789")

			// Assert
			if test.wantHit && err != nil {
				t.Errorf("expected hit, got %v", err)
			}
			if !test.wantHit && err != ErrCacheNotFound {
				t.Errorf("expected ErrCacheNotFound, got %v", err)
			}
		})
	}
}

func TestInMemoryCacheExpiredEntryShouldNotBeSwept(t *testing.T) {
	clock := newFakeClock()
	cache := newTestCache(clock)
	cache.Set("hash789", ClientID(7), time.Minute)

	clock.Advance(5 * time.Minute)
	cache.Get("hash789")

	// Expired entries stay until overwritten
	if cache.Len() != 1 {
		t.Errorf("Expected expired entry to remain stored, got size %d", cache.Len())
	}

	cache.Set("hash789", ClientID(8), time.Minute)
	got, err := cache.Get("hash789")
	if err != nil || got != 8 {
		t.Errorf("Expected overwrite to revive key with 8, got %d (%v)", got, err)
	}
	if cache.Len() != 1 {
		t.Errorf("Expected size 1 after overwrite, got %d", cache.Len())
	}
}

func TestInMemoryCacheSetWithZeroTTLShouldUseDefault(t *testing.T) {
	clock := newFakeClock()
	cache := newTestCache(clock)

	cache.Set("hash", ClientID(1), 0)

	clock.Advance(time.Minute)
	if _, err := cache.Get("hash"); err != nil {
		t.Errorf("Expected hit within default TTL, got %v", err)
	}
	clock.Advance(time.Minute)
	if _, err := cache.Get("hash"); err != ErrCacheNotFound {
		t.Errorf("Expected miss after default TTL, got %v", err)
	}
}

func TestInMemoryCacheDeleteShouldRemoveEntry(t *testing.T) {
	cache := newTestCache(newFakeClock())
	cache.Set("hash789", ClientID(1), time.Minute)

	// Verify it exists
	if _, err := cache.Get("hash789"); err != nil {
		t.Error("Entry should exist before Delete")
	}

	// Delete
	if err := cache.Delete("hash789"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Should not exist anymore
	if _, err := cache.Get("hash789"); err != ErrCacheNotFound {
		t.Error("Entry should be deleted")
	}
}

func TestInMemoryCacheDeleteNonExistentShouldNotError(t *testing.T) {
	cache := newTestCache(newFakeClock())

	// Deleting non-existent key should not error
	if err := cache.Delete("nonexistent"); err != nil {
		t.Errorf("Delete of non-existent key should not error, got %v", err)
	}
}

func TestInMemoryCacheClearShouldRemoveAllEntries(t *testing.T) {
	cache := newTestCache(newFakeClock())

	cache.Set("hash1", ClientID(1), time.Minute)
	cache.Set("hash2", ClientID(2), time.Minute)
	cache.Set("hash3", ClientID(3), time.Minute)

	if cache.Len() != 3 {
		t.Errorf("Expected 3 entries in cache, got %d", cache.Len())
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if cache.Len() != 0 {
		t.Errorf("Cache should be empty after Clear, got size %d", cache.Len())
	}
	for _, key := range []string{"hash1", "hash2", "hash3"} {
		if _, err := cache.Get(key); err != ErrCacheNotFound {
			t.Errorf("%s should be cleared", key)
		}
	}
}

func TestInMemoryCacheShouldNotBoundSize(t *testing.T) {
	cache := newTestCache(newFakeClock())

	for i := 0; i < 2000; i++ {
		cache.Set("hash"+strconv.Itoa(i), ClientID(i), time.Minute)
	}

	if cache.Len() != 2000 {
		t.Errorf("Expected 2000 entries, got %d", cache.Len())
	}
}

func TestInMemoryCacheStatsShouldCountOperations(t *testing.T) {
	cache := newTestCache(newFakeClock())

	cache.Set("a", ClientID(1), time.Minute)
	cache.Get("a")
	cache.Get("a")
	cache.Get("missing")
	cache.Delete("a")
	cache.Delete("a")

	stats := cache.Stats()
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("Sets = %d, want 1", stats.Sets)
	}
	if stats.Deletes != 1 {
		t.Errorf("Deletes = %d, want 1", stats.Deletes)
	}
	if stats.Size != 0 {
		t.Errorf("Size = %d, want 0", stats.Size)
	}
}

func TestInMemoryCacheConcurrentReadWriteShouldNotRaceOrPanic(t *testing.T) {
	cache := newTestCache(newFakeClock())

	var wg sync.WaitGroup

	// 100 writers, half of them on the same key
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "shared"
			if id%2 == 0 {
				key = "hash" + strconv.Itoa(id)
			}
			cache.Set(key, ClientID(id), time.Minute)
		}(i)
	}

	// 100 readers
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Get("shared")
		}()
	}

	wg.Wait()

	// last writer wins: whatever is stored must be one of the odd writers
	got, err := cache.Get("shared")
	if err != nil {
		t.Fatalf("Expected shared key to be present, got %v", err)
	}
	if got%2 != 1 {
		t.Errorf("Expected an odd writer id, got %d", got)
	}
}

func TestInMemoryCacheConcurrentDeleteShouldResultInEmptyCache(t *testing.T) {
	cache := newTestCache(newFakeClock())

	// Pre-populate
	for i := 0; i < 100; i++ {
		cache.Set("hash"+strconv.Itoa(i), ClientID(i), time.Minute)
	}

	var wg sync.WaitGroup

	// Delete concurrently
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			cache.Delete("hash" + strconv.Itoa(id))
		}(i)
	}

	wg.Wait()

	if cache.Len() != 0 {
		t.Errorf("Expected empty cache, got size %d", cache.Len())
	}
}
