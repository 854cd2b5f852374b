package emoji

import "sync"

// Cache stores resolved emoji URLs by shortcode.
type Cache interface {
	Get(shortcode string) (url string, ok bool)
	Set(shortcode, url string)
}

// MemoryCache is an in-process Cache that never evicts. The zero value is
// ready to use.
type MemoryCache struct {
	mu   sync.RWMutex
	urls map[string]string
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Get returns the cached URL for shortcode.
func (c *MemoryCache) Get(shortcode string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	url, ok := c.urls[shortcode]
	return url, ok
}

// Set stores url under shortcode.
func (c *MemoryCache) Set(shortcode, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.urls == nil {
		c.urls = make(map[string]string)
	}
	c.urls[shortcode] = url
}

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.urls)
}
