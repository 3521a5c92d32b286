package security

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/fenilsonani/tidytree/internal/pathutil"
)

// attrEntry is a cached system-attribute lookup
type attrEntry struct {
	system  bool
	expires time.Time
}

// AttributeCache memoizes system-attribute lookups for ancestor walks.
// Entries are keyed by the xxhash of the normalized path and expire after ttl.
type AttributeCache struct {
	mu      sync.RWMutex
	entries map[uint64]attrEntry
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

// NewAttributeCache creates a cache holding at most maxSize entries
func NewAttributeCache(maxSize int, ttl time.Duration) *AttributeCache {
	return &AttributeCache{
		entries: make(map[uint64]attrEntry, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// hashPath creates a fast hash of a path for cache lookup
func hashPath(path string) uint64 {
	return xxhash.Sum64String(pathutil.Key(path))
}

// Get returns the cached attribute for path
func (c *AttributeCache) Get(path string) (system bool, ok bool) {
	hash := hashPath(path)

	c.mu.RLock()
	entry, exists := c.entries[hash]
	c.mu.RUnlock()

	if !exists || c.now().After(entry.expires) {
		return false, false
	}
	return entry.system, true
}

// Set stores the attribute for path
func (c *AttributeCache) Set(path string, system bool) {
	hash := hashPath(path)
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[hash]; !exists && len(c.entries) >= c.maxSize {
		c.evict(now)
	}

	c.entries[hash] = attrEntry{
		system:  system,
		expires: now.Add(c.ttl),
	}
}

// evict drops expired entries, or an arbitrary one when none has expired
func (c *AttributeCache) evict(now time.Time) {
	for hash, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, hash)
		}
	}
	if len(c.entries) < c.maxSize {
		return
	}
	for hash := range c.entries {
		delete(c.entries, hash)
		break
	}
}

// Len returns the number of cached entries, expired ones included
func (c *AttributeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry
func (c *AttributeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]attrEntry, c.maxSize)
}
