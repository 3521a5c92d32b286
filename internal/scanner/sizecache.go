package scanner

import (
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/fenilsonani/tidytree/internal/logging"
	"github.com/fenilsonani/tidytree/internal/pathutil"
)

// SizeCache memoizes recursive directory sizes keyed by normalized path.
// It is safe for concurrent use; concurrent requests for the same directory
// share a single walk.
type SizeCache struct {
	entries sync.Map // pathutil.Key -> int64
	group   singleflight.Group
	logger  *logging.Logger
}

// NewSizeCache creates an empty cache. logger may be nil.
func NewSizeCache(logger *logging.Logger) *SizeCache {
	return &SizeCache{logger: logger}
}

// CalculateDirectorySize returns the total size of regular files below path.
// Every subdirectory visited is cached as a side effect. Unreadable
// directories count as 0.
func (c *SizeCache) CalculateDirectorySize(path string) int64 {
	key := pathutil.Key(path)
	if size, ok := c.load(key); ok {
		return size
	}

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		if size, ok := c.load(key); ok {
			return size, nil
		}
		size := c.walk(path)
		c.entries.Store(key, size)
		return size, nil
	})
	return v.(int64)
}

func (c *SizeCache) walk(dir string) int64 {
	entries, err := os.ReadDir(dir)
	if err != nil {
		c.logger.Debug("size of %s counted as 0: %v", dir, err)
		return 0
	}

	var total int64
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			total += c.CalculateDirectorySize(path)
			continue
		}
		// Symlinks and special files carry no content of their own
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			c.logger.Debug("skipping %s: %v", path, err)
			continue
		}
		total += info.Size()
	}
	return total
}

func (c *SizeCache) load(key string) (int64, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

// Lookup returns the cached size of path without computing it
func (c *SizeCache) Lookup(path string) (int64, bool) {
	return c.load(pathutil.Key(path))
}

// Store records size for path
func (c *SizeCache) Store(path string, size int64) {
	c.entries.Store(pathutil.Key(path), size)
}

// Len returns the number of cached directories
func (c *SizeCache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Clear drops every cached size
func (c *SizeCache) Clear() {
	c.entries.Clear()
}
