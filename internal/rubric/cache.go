package rubric

import (
	"fmt"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/huangsam/maturity/schema"
)

// DefaultCacheSize bounds the number of rubrics kept by long-lived processes.
const DefaultCacheSize = 32

type cacheEntry struct {
	modTime time.Time
	size    int64
	config  schema.ScoringConfig
}

// Cache keeps parsed rubrics keyed by path. Entries are reloaded when the
// file's modification time or size changes.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
	load    func(string) (schema.ScoringConfig, error)
}

// NewCache creates a rubric cache holding at most size entries.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create rubric cache: %w", err)
	}
	return &Cache{entries: entries, load: Load}, nil
}

// Get returns the rubric at path, loading it on a miss or when the file changed.
func (c *Cache) Get(path string) (schema.ScoringConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		return schema.ScoringConfig{}, fmt.Errorf("read rubric: %w", err)
	}
	if entry, ok := c.entries.Get(path); ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.config, nil
	}

	cfg, err := c.load(path)
	if err != nil {
		c.entries.Remove(path)
		return schema.ScoringConfig{}, err
	}
	c.entries.Add(path, cacheEntry{modTime: info.ModTime(), size: info.Size(), config: cfg})
	return cfg, nil
}

// Len returns the number of cached rubrics.
func (c *Cache) Len() int {
	return c.entries.Len()
}
