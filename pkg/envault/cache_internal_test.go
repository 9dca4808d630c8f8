package envault

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExportCacheDisabled(t *testing.T) {
	t.Parallel()

	cache := newExportCache(0)
	cache.set("p", "e", []SecretWithValue{{Value: "v"}})

	_, ok := cache.get("p", "e")
	assert.False(t, ok, "a zero TTL disables the cache entirely")
}

func TestExportCacheExactKeyMatch(t *testing.T) {
	t.Parallel()

	cache := newExportCache(time.Minute)
	cache.set("proj", "staging", []SecretWithValue{{Value: "v"}})

	// No normalization: different case is a different key.
	_, ok := cache.get("proj", "Staging")
	assert.False(t, ok)

	_, ok = cache.get("proj", "staging")
	assert.True(t, ok)
}

func TestExportCacheExpiredEntryEvicted(t *testing.T) {
	t.Parallel()

	cache := newExportCache(10 * time.Millisecond)
	cache.set("p", "e", nil)

	time.Sleep(20 * time.Millisecond)

	_, ok := cache.get("p", "e")
	assert.False(t, ok)

	cache.mu.Lock()
	_, present := cache.entries[cacheKey{"p", "e"}]
	cache.mu.Unlock()
	assert.False(t, present, "expired entries are removed on read")
}

func TestExportCacheInvalidateProject(t *testing.T) {
	t.Parallel()

	cache := newExportCache(time.Minute)
	cache.set("p1", "staging", nil)
	cache.set("p1", "production", nil)
	cache.set("p2", "staging", nil)

	cache.invalidateProject("p1")

	_, ok := cache.get("p1", "staging")
	assert.False(t, ok)
	_, ok = cache.get("p1", "production")
	assert.False(t, ok)
	_, ok = cache.get("p2", "staging")
	assert.True(t, ok)
}

func TestExportCacheInvalidateIgnoresTTLSetting(t *testing.T) {
	t.Parallel()

	// invalidate must work even when caching is disabled, so stale entries
	// can never resurface.
	cache := newExportCache(0)
	cache.entries[cacheKey{"p", "e"}] = cacheEntry{expiresAt: time.Now().Add(time.Hour)}

	cache.invalidate("p", "e")

	assert.Empty(t, cache.entries)
}

func TestExportCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	cache := newExportCache(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				cache.set("p", "e", nil)
			case 1:
				cache.get("p", "e")
			case 2:
				cache.invalidate("p", "e")
			case 3:
				cache.invalidateProject("p")
			}
		}(i)
	}
	wg.Wait()
}
