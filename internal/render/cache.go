package render

import (
	"strings"
	"sync"

	"github.com/couchcryptid/homicide-observatory/internal/domain"
	"github.com/couchcryptid/homicide-observatory/internal/observability"
)

// DefaultCacheBytes bounds the total size of cached images.
const DefaultCacheBytes = 64 << 20

// CachedRenderer wraps a ChartRenderer with an in-memory LRU cache of
// rendered images. Both relations are immutable, so an image only depends on
// the chart and, for selection-dependent charts, the selection.
type CachedRenderer struct {
	inner   ChartRenderer
	cache   *imageCache
	metrics *observability.Metrics
}

// NewCachedRenderer creates a cache decorator around a renderer holding at
// most maxEntries images and DefaultCacheBytes bytes.
func NewCachedRenderer(inner ChartRenderer, maxEntries int, metrics *observability.Metrics) *CachedRenderer {
	return &CachedRenderer{
		inner:   inner,
		cache:   newImageCache(maxEntries, DefaultCacheBytes),
		metrics: metrics,
	}
}

// Render returns the cached image for the key or renders and stores it.
// The returned slice is shared and must not be modified.
func (c *CachedRenderer) Render(chart Chart, snap domain.Snapshot) ([]byte, error) {
	key := cacheKey(chart, snap.Selection)
	if img, ok := c.cache.get(key); ok {
		c.metrics.RenderCache.WithLabelValues(string(chart), "hit").Inc()
		return img, nil
	}
	c.metrics.RenderCache.WithLabelValues(string(chart), "miss").Inc()

	img, err := c.inner.Render(chart, snap)
	if err != nil {
		return nil, err
	}
	for _, evicted := range c.cache.put(key, img) {
		c.metrics.RenderCache.WithLabelValues(chartOf(evicted), "evict").Inc()
	}
	return img, nil
}

func cacheKey(chart Chart, sel domain.Selection) string {
	if !chart.DependsOnSelection() {
		return string(chart)
	}
	return string(chart) + "|" + sel.Department + "|" + sel.Municipality
}

func chartOf(key string) string {
	chart, _, _ := strings.Cut(key, "|")
	return chart
}

// imageCache is a thread-safe LRU of PNG bytes bounded by entry count and by
// total size. An image larger than the byte budget is not stored.
type imageCache struct {
	maxEntries int
	maxBytes   int
	bytes      int

	mu     sync.Mutex
	images map[string]*cachedImage
	newest *cachedImage
	oldest *cachedImage
}

type cachedImage struct {
	key          string
	png          []byte
	newer, older *cachedImage
}

func newImageCache(maxEntries, maxBytes int) *imageCache {
	return &imageCache{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		images:     make(map[string]*cachedImage),
	}
}

func (c *imageCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	img, ok := c.images[key]
	if !ok {
		return nil, false
	}
	c.unlink(img)
	c.pushNewest(img)
	return img.png, true
}

// put stores png under key and returns the keys evicted to make room.
func (c *imageCache) put(key string, png []byte) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(png) > c.maxBytes {
		return nil
	}
	if img, ok := c.images[key]; ok {
		c.bytes += len(png) - len(img.png)
		img.png = png
		c.unlink(img)
		c.pushNewest(img)
	} else {
		img := &cachedImage{key: key, png: png}
		c.images[key] = img
		c.bytes += len(png)
		c.pushNewest(img)
	}

	var evicted []string
	for len(c.images) > c.maxEntries || c.bytes > c.maxBytes {
		victim := c.oldest
		c.unlink(victim)
		delete(c.images, victim.key)
		c.bytes -= len(victim.png)
		evicted = append(evicted, victim.key)
	}
	return evicted
}

func (c *imageCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}

func (c *imageCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytes
}

func (c *imageCache) pushNewest(img *cachedImage) {
	img.older = c.newest
	img.newer = nil
	if c.newest != nil {
		c.newest.newer = img
	}
	c.newest = img
	if c.oldest == nil {
		c.oldest = img
	}
}

func (c *imageCache) unlink(img *cachedImage) {
	if img.newer != nil {
		img.newer.older = img.older
	} else if c.newest == img {
		c.newest = img.older
	}
	if img.older != nil {
		img.older.newer = img.newer
	} else if c.oldest == img {
		c.oldest = img.newer
	}
	img.newer, img.older = nil, nil
}
