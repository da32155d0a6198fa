// internal/browser/layout/cache.go
package layout

import (
	"math"
	"sync"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

type cacheKind uint8

const (
	kindMeasure cacheKind = iota
	kindWidth
	kindText
)

type cacheKey struct {
	id       BoxID
	kind     cacheKind
	mode     SizingMode
	definite bool
	avail    uint64
	size     uint64
}

func (k *cacheKey) setAvailable(a style.AvailableSpace) {
	k.definite = a.IsDefinite()
	if k.definite {
		k.avail = math.Float64bits(a.Px())
	}
}

// MeasureCache memoizes oracle results for one layout pass. It is safe for
// concurrent use by the goroutines of that pass.
type MeasureCache struct {
	mu      sync.Mutex
	entries map[cacheKey]Measurement
	hits    int
	misses  int
}

// NewMeasureCache returns an empty cache.
func NewMeasureCache() *MeasureCache {
	return &MeasureCache{entries: make(map[cacheKey]Measurement)}
}

func (c *MeasureCache) get(k cacheKey) (Measurement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[k]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return m, ok
}

func (c *MeasureCache) put(k cacheKey, m Measurement) {
	c.mu.Lock()
	c.entries[k] = m
	c.mu.Unlock()
}

// Len returns the number of cached results.
func (c *MeasureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns lookup hits and misses so far.
func (c *MeasureCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
