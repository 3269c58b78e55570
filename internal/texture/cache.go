package texture

import (
	"image"
	"sync"
)

// Resolver resolves a texture key to a decoded image.
type Resolver interface {
	Resolve(key string) *image.NRGBA
}

// Cache is a concurrency-safe, reference-counted texture cache shared by the
// asset loader (which acquires) and the renderer (which resolves).
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
}

type cacheEntry struct {
	img  *image.NRGBA
	refs int
}

// NewCache creates an empty texture cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]*cacheEntry)}
}

// Acquire returns the image for key, decoding it with load on first use, and
// adds a reference. Failed decodes are not cached and add no reference.
func (c *Cache) Acquire(key string, load func() (*image.NRGBA, error)) (*image.NRGBA, error) {
	c.mu.Lock()
	if entry, ok := c.items[key]; ok {
		entry.refs++
		c.mu.Unlock()
		return entry.img, nil
	}
	c.mu.Unlock()

	// Decode outside the lock; loads for different assets run concurrently.
	img, err := load()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.items[key]; ok {
		entry.refs++
		return entry.img, nil
	}
	c.items[key] = &cacheEntry{img: img, refs: 1}
	return img, nil
}

// Release drops one reference and evicts the image at zero.
func (c *Cache) Release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.items[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(c.items, key)
	}
}

// Resolve returns a cached image without taking a reference. Nil if absent.
func (c *Cache) Resolve(key string) *image.NRGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.items[key]; ok {
		return entry.img
	}
	return nil
}

// Refs returns the reference count for key.
func (c *Cache) Refs(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.items[key]; ok {
		return entry.refs
	}
	return 0
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
