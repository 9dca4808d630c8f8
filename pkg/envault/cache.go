package envault

import (
	"sync"
	"time"
)

type cacheKey struct {
	project     string
	environment string
}

type cacheEntry struct {
	secrets   []SecretWithValue
	expiresAt time.Time
}

// exportCache memoizes secret exports per (project, environment) pair for a
// fixed TTL. A zero TTL disables it entirely. Entries are evicted lazily on
// read and eagerly on invalidation; no background sweep runs.
type exportCache struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
}

func newExportCache(ttl time.Duration) *exportCache {
	if ttl < 0 {
		ttl = 0
	}
	return &exportCache{
		ttl:     ttl,
		entries: make(map[cacheKey]cacheEntry),
	}
}

func (c *exportCache) enabled() bool {
	return c.ttl > 0
}

// get returns the cached export for the pair if present and not expired.
// Expired entries are removed on the way out.
func (c *exportCache) get(project, environment string) ([]SecretWithValue, bool) {
	if !c.enabled() {
		return nil, false
	}

	key := cacheKey{project, environment}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !time.Now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.secrets, true
}

func (c *exportCache) set(project, environment string, secrets []SecretWithValue) {
	if !c.enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey{project, environment}] = cacheEntry{
		secrets:   secrets,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// invalidate drops one (project, environment) entry. It runs even when the
// TTL is zero so that toggling the TTL never resurrects stale data.
func (c *exportCache) invalidate(project, environment string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, cacheKey{project, environment})
}

func (c *exportCache) invalidateProject(project string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if key.project == project {
			delete(c.entries, key)
		}
	}
}

func (c *exportCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[cacheKey]cacheEntry)
}

// InvalidateCache drops the cached export for one (project, environment)
// pair.
func (c *Client) InvalidateCache(projectID, environment string) {
	c.cache.invalidate(projectID, environment)
}

// InvalidateProjectCache drops every cached export belonging to a project.
func (c *Client) InvalidateProjectCache(projectID string) {
	c.cache.invalidateProject(projectID)
}

// ClearCache drops every cached export held by this client.
func (c *Client) ClearCache() {
	c.cache.clear()
}
