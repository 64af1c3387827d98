package server

import (
	"fmt"
	"image"
	"sync"

	"github.com/anthonynsimon/bild/imgio"
)

// Cache is a path-keyed store of decoded source images. A session that
// corrects, compares, and heat-maps the same frame decodes it once.
//
// Cache is safe for concurrent use. Entries stay resident until Evict
// or Clear; the cache lives as long as the server process.
type Cache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewCache returns an empty cache ready for use.
func NewCache() *Cache {
	return &Cache{images: make(map[string]image.Image)}
}

// Load returns the decoded image for path, reading from disk on first
// use. The exact path string is the cache key, so relative and
// absolute spellings of the same file are separate entries.
func (c *Cache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Evict removes one cached image. Unknown paths are a no-op.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Clear removes every cached image, freeing the associated memory.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}
