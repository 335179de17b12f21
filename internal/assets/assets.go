// Package assets resolves and loads source images for a level project.
package assets

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/texcomp/internal/texture"
)

// Library loads images relative to a project directory and caches the
// decoded pixels. It is safe for concurrent use; concurrent loads of the
// same file decode it once.
type Library struct {
	baseDir  string
	colorKey bool
	log      *zap.Logger
	cache    *Cache
	loads    singleflight.Group
}

// NewLibrary creates a library rooted at baseDir. colorKey clears magenta
// pixels in every decoded image.
func NewLibrary(baseDir string, colorKey bool, log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{
		baseDir:  baseDir,
		colorKey: colorKey,
		log:      log,
		cache:    NewCache(),
	}
}

// Resolve returns path joined to the base directory unless it is absolute.
func (l *Library) Resolve(path string) string {
	if filepath.IsAbs(path) || l.baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(l.baseDir, path)
}

// Load returns the decoded image at path. The result is shared between
// callers and must not be modified.
func (l *Library) Load(path string) (*image.RGBA, error) {
	resolved := l.Resolve(path)
	if img, ok := l.cache.Get(resolved); ok {
		return img, nil
	}

	v, err, _ := l.loads.Do(resolved, func() (any, error) {
		img, err := texture.DecodeFile(resolved, l.colorKey)
		if err != nil {
			return nil, err
		}
		l.cache.Set(resolved, img)
		l.log.Debug("image loaded",
			zap.String("path", resolved),
			zap.Int("width", img.Bounds().Dx()),
			zap.Int("height", img.Bounds().Dy()))
		return img, nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading image %s: %w", path, err)
	}
	return v.(*image.RGBA), nil
}

// Stats returns cache statistics.
func (l *Library) Stats() (hits, misses int) {
	return l.cache.Stats()
}

// Cached returns the number of decoded images held.
func (l *Library) Cached() int {
	return l.cache.Len()
}

// Cache is an in-memory image cache keyed by resolved path.
type Cache struct {
	mu   sync.Mutex
	data map[string]*image.RGBA

	hits   int
	misses int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*image.RGBA),
	}
}

// Get retrieves an image.
func (c *Cache) Get(key string) (*image.RGBA, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	img, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return img, ok
}

// Set stores an image.
func (c *Cache) Set(key string, img *image.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = img
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
