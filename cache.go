package pubstatic

import (
	"sync"
	"time"
)

// PostCache is an in-memory cache of parsed posts keyed by slug. An entry is
// only served while the source file's modification time and size match the
// ones recorded when it was parsed.
type PostCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	post    Post
	modTime time.Time
	size    int64
}

// NewPostCache creates an empty PostCache.
func NewPostCache() *PostCache {
	return &PostCache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached post for slug if it was parsed from a file with the
// given modification time and size.
func (c *PostCache) Get(slug string, modTime time.Time, size int64) (Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[slug]
	if !ok || !e.modTime.Equal(modTime) || e.size != size {
		return Post{}, false
	}
	return e.post, true
}

// Put stores post under its slug.
func (c *PostCache) Put(post Post, modTime time.Time, size int64) {
	c.mu.Lock()
	c.entries[post.Slug] = cacheEntry{post: post, modTime: modTime, size: size}
	c.mu.Unlock()
}

// Invalidate drops the entry for slug.
func (c *PostCache) Invalidate(slug string) {
	c.mu.Lock()
	delete(c.entries, slug)
	c.mu.Unlock()
}

// InvalidateAll clears the cache so the next read triggers a fresh load.
func (c *PostCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of cached posts.
func (c *PostCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
