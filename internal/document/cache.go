package document

import (
	"strings"
	"sync"
)

// DefaultPreviewCacheCapacity bounds the number of cached preview renders.
const DefaultPreviewCacheCapacity = 20

// PreviewCache is a bounded, synchronized cache of rendered slide previews
// keyed by filename+slide+modification-time. Eviction is FIFO by insertion:
// when full, the oldest entry is dropped regardless of access pattern.
type PreviewCache struct {
	mu       sync.Mutex
	capacity int
	keys     []string
	entries  map[string][]byte
}

// NewPreviewCache creates a preview cache. capacity <= 0 uses the default.
func NewPreviewCache(capacity int) *PreviewCache {
	if capacity <= 0 {
		capacity = DefaultPreviewCacheCapacity
	}
	return &PreviewCache{
		capacity: capacity,
		entries:  make(map[string][]byte),
	}
}

// Get returns the cached bytes for key, if present.
func (c *PreviewCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok
}

// Put stores bytes under key, evicting the oldest entry when full.
func (c *PreviewCache) Put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.keys) >= c.capacity {
			oldest := c.keys[0]
			c.keys = c.keys[1:]
			delete(c.entries, oldest)
		}
		c.keys = append(c.keys, key)
	}
	c.entries[key] = data
}

// InvalidatePrefix drops every entry whose key starts with prefix, used when
// a document changes and its derived previews go stale.
func (c *PreviewCache) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.keys[:0]
	removed := 0
	for _, key := range c.keys {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	c.keys = kept
	return removed
}

// Len returns the number of cached entries.
func (c *PreviewCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys)
}
