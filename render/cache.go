package render

import (
	"image"
	"sync"
)

// Cache memoizes decoded images by path. The first Get for a path loads it
// through the Loader; later calls return the same image.
type Cache struct {
	loader Loader

	mu     sync.Mutex
	images map[string]image.Image
}

// NewCache returns an empty cache backed by loader.
func NewCache(loader Loader) *Cache {
	return &Cache{
		loader: loader,
		images: make(map[string]image.Image),
	}
}

// Get returns the image at path, loading it on first use. Failed loads are
// not cached.
func (c *Cache) Get(path string) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if img, ok := c.images[path]; ok {
		return img, nil
	}
	img, err := c.loader.Load(path)
	if err != nil {
		return nil, err
	}
	c.images[path] = img
	return img, nil
}

// Forget drops path so the next Get reloads it.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Reset drops every cached image.
func (c *Cache) Reset() {
	c.mu.Lock()
	clear(c.images)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}
