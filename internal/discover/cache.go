package discover

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cached is one cache entry: the result of a full scan plus the version
// marker mtime it was computed against. Entries are replaced wholesale,
// never partially mutated, so a concurrent reader can at worst trigger a
// redundant rescan — it can never observe a torn result.
type cached struct {
	markerMTime time.Time
	result      Result
	warnings    []Warning
}

// Cache stores the last discovery result per base path. It is injectable
// so tests construct fresh instances instead of sharing module state.
type Cache struct {
	entries *lru.Cache[string, cached]
}

// defaultCacheSize bounds the number of base paths tracked at once. In
// practice a process looks at two installations (global and local).
const defaultCacheSize = 8

// NewCache creates an empty discovery cache.
func NewCache() *Cache {
	entries, err := lru.New[string, cached](defaultCacheSize)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &Cache{entries: entries}
}

// get returns the cached scan for basePath when the version marker mtime
// is unchanged.
func (c *Cache) get(basePath string, markerMTime time.Time) (cached, bool) {
	if c == nil {
		return cached{}, false
	}
	entry, ok := c.entries.Get(basePath)
	if !ok || !entry.markerMTime.Equal(markerMTime) {
		return cached{}, false
	}
	return entry, true
}

// put replaces the cached scan for basePath.
func (c *Cache) put(basePath string, entry cached) {
	if c == nil {
		return
	}
	c.entries.Add(basePath, entry)
}
