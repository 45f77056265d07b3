package counter

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cache maps exact text to its token count
type cache interface {
	Get(text string) (int, bool)
	Add(text string, tokens int)
	Len() int
	Purge()
}

// lruCache is a capacity-bounded cache with least-recently-used eviction
type lruCache struct {
	cache *lru.Cache[string, int]
}

func newLRUCache(maxLen int) *lruCache {
	c, err := lru.New[string, int](maxLen)
	if err != nil {
		// Only a non-positive size fails, which callers rule out
		c, _ = lru.New[string, int](DefaultCacheSize)
	}
	return &lruCache{cache: c}
}

func (c *lruCache) Get(text string) (int, bool) {
	return c.cache.Get(text)
}

func (c *lruCache) Add(text string, tokens int) {
	c.cache.Add(text, tokens)
}

func (c *lruCache) Len() int {
	return c.cache.Len()
}

func (c *lruCache) Purge() {
	c.cache.Purge()
}

// mapCache never evicts
type mapCache struct {
	mu      sync.Mutex
	entries map[string]int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]int)}
}

func (c *mapCache) Get(text string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tokens, ok := c.entries[text]
	return tokens, ok
}

func (c *mapCache) Add(text string, tokens int) {
	c.mu.Lock()
	c.entries[text] = tokens
	c.mu.Unlock()
}

func (c *mapCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *mapCache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]int)
	c.mu.Unlock()
}
