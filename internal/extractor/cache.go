package extractor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/maypok86/otter"
)

// Cache holds extracted trees keyed by source content and module name.
// Cached trees are shared between callers and must be treated as read-only.
type Cache struct {
	entries otter.Cache[string, *Node]
}

// NewCache creates a cache holding at most maxEntries trees.
func NewCache(maxEntries int) (*Cache, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", maxEntries)
	}

	entries, err := otter.MustBuilder[string, *Node](maxEntries).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

func (c *Cache) get(source []byte, moduleName string) (*Node, bool) {
	return c.entries.Get(cacheKey(source, moduleName))
}

func (c *Cache) set(source []byte, moduleName string, tree *Node) {
	c.entries.Set(cacheKey(source, moduleName), tree)
}

// Len returns the number of cached trees.
func (c *Cache) Len() int {
	return c.entries.Size()
}

// Hits returns how many lookups were served from the cache.
func (c *Cache) Hits() int64 {
	return c.entries.Stats().Hits()
}

// Close releases the cache's background resources.
func (c *Cache) Close() {
	c.entries.Close()
}

func cacheKey(source []byte, moduleName string) string {
	h := sha256.New()
	h.Write([]byte(moduleName))
	h.Write([]byte{0})
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}
