package utils

import (
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem wraps cached data with its expiry time.
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// PageCache is a TTL'd LRU cache for assembled page payloads. It is
// created once in main and handed to the handlers that need it; readers
// may race with Clear, stale reads within the TTL window are accepted.
type PageCache struct {
	lruCache *lru.Cache[string, CacheItem]
}

// NewPageCache creates a cache holding up to size entries.
func NewPageCache(size int) *PageCache {
	l, err := lru.New[string, CacheItem](size)
	if err != nil {
		log.Fatalf("Failed to create LRU cache: %v", err)
	}
	return &PageCache{lruCache: l}
}

// Set stores data under key for the given TTL.
func (c *PageCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get returns the cached data, or nil when absent or expired.
func (c *PageCache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if time.Now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

// Delete removes a single entry.
func (c *PageCache) Delete(key string) {
	c.lruCache.Remove(key)
}

// Clear drops every entry; the next read recomputes.
func (c *PageCache) Clear() {
	c.lruCache.Purge()
}
