package calendar

import (
	"sync"
	"time"
)

// FeedCache stores raw feed bodies per URL so availability and conflict
// checks don't hammer the external calendar host. Implementations decide
// expiry; the fetcher only consumes whatever text it is given.
type FeedCache interface {
	Get(url string) (body string, ok bool)
	Set(url, body string)
}

// DefaultFeedTTL bounds how stale a cached feed may be before it is
// re-fetched.
const DefaultFeedTTL = 30 * time.Minute

type cacheEntry struct {
	body      string
	fetchedAt time.Time
}

// MemoryFeedCache is an in-process FeedCache with a fixed TTL.
type MemoryFeedCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry

	// now is swappable for tests.
	now func() time.Time
}

// NewMemoryFeedCache creates a cache with the given TTL. Non-positive TTL
// means DefaultFeedTTL.
func NewMemoryFeedCache(ttl time.Duration) *MemoryFeedCache {
	if ttl <= 0 {
		ttl = DefaultFeedTTL
	}
	return &MemoryFeedCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached body for a URL if it hasn't expired.
func (c *MemoryFeedCache) Get(url string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[url]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.fetchedAt) > c.ttl {
		return "", false
	}
	return entry.body, true
}

// Set stores a feed body for a URL, resetting its age.
func (c *MemoryFeedCache) Set(url, body string) {
	c.mu.Lock()
	c.entries[url] = cacheEntry{body: body, fetchedAt: c.now()}
	c.mu.Unlock()
}
