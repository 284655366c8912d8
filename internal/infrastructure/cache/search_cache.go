// Package cache provides the in-process result cache for remote ingredient
// searches. Entries expire after 30 days and the total cached size is
// capped; every failure mode degrades to a miss, never to an error.
package cache

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/plateful/v1/internal/domain/ingredient"
)

const (
	// DefaultTTL is how long a cached provider result stays valid.
	DefaultTTL = 30 * 24 * time.Hour
	// DefaultMaxBytes caps the total cached payload size.
	DefaultMaxBytes = 100 << 20
	// evictTargetRatio is the fill level eviction drains down to.
	evictTargetRatio = 0.8
)

// SearchCache is a thread-safe, size-capped cache of formatted provider
// results keyed by (source, normalized query, page size).
type SearchCache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	order      []string // insertion order, oldest first
	totalBytes int
	maxBytes   int
	ttl        time.Duration
	now        func() time.Time
}

type cacheEntry struct {
	data      []ingredient.Ingredient
	storedAt  time.Time
	sizeBytes int
}

// Option configures a SearchCache.
type Option func(*SearchCache)

// WithTTL overrides the entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *SearchCache) { c.ttl = ttl }
}

// WithMaxBytes overrides the total size cap.
func WithMaxBytes(max int) Option {
	return func(c *SearchCache) { c.maxBytes = max }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *SearchCache) { c.now = now }
}

// NewSearchCache creates a search cache with the default TTL and size cap.
func NewSearchCache(opts ...Option) *SearchCache {
	c := &SearchCache{
		entries:  make(map[string]*cacheEntry),
		maxBytes: DefaultMaxBytes,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached results for the key, treating expired entries as
// absent and evicting them on access.
func (c *SearchCache) Get(source ingredient.Source, query string, pageSize int) ([]ingredient.Ingredient, bool) {
	key := cacheKey(source, query, pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		c.remove(key)
		return nil, false
	}
	return entry.data, true
}

// Set stores a non-empty result set. An empty result is not a useful cache
// hit and is never stored. When the write would exceed the size cap,
// expired entries are purged first, then the oldest entries are evicted
// until total size falls to the eviction target.
func (c *SearchCache) Set(source ingredient.Source, query string, pageSize int, results []ingredient.Ingredient) {
	if len(results) == 0 {
		return
	}
	payload, err := json.Marshal(results)
	if err != nil {
		// Unserializable results degrade to a no-op write.
		return
	}

	key := cacheKey(source, query, pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}

	size := len(payload)
	if c.totalBytes+size > c.maxBytes {
		c.purgeExpired()
		target := int(float64(c.maxBytes) * evictTargetRatio)
		for c.totalBytes+size > target && len(c.order) > 0 {
			c.remove(c.order[0])
		}
	}

	c.entries[key] = &cacheEntry{
		data:      results,
		storedAt:  c.now(),
		sizeBytes: size,
	}
	c.order = append(c.order, key)
	c.totalBytes += size
}

// Len returns the number of live entries.
func (c *SearchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// TotalBytes returns the current cached payload size.
func (c *SearchCache) TotalBytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalBytes
}

func (c *SearchCache) purgeExpired() {
	now := c.now()
	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) > c.ttl {
			c.remove(key)
		}
	}
}

func (c *SearchCache) remove(key string) {
	entry, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	c.totalBytes -= entry.sizeBytes
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// cacheKey normalizes the query (lowercase, trimmed) and composes it with
// the source and page size into one string key.
func cacheKey(source ingredient.Source, query string, pageSize int) string {
	return string(source) + "|" + strings.ToLower(strings.TrimSpace(query)) + "|" + strconv.Itoa(pageSize)
}
