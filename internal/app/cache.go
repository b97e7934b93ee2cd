package app

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/glabrego/epgi/internal/xmltv"
)

type SnapshotLoader interface {
	Load(ctx context.Context, url string) xmltv.Snapshot
}

// Cache memoizes one snapshot per provider for the life of the process. Entries are
// never refreshed; a failed load is cached as an empty snapshot. Concurrent
// requests for the same provider share a single load.
type Cache struct {
	loader SnapshotLoader

	mu      sync.Mutex
	entries map[int]xmltv.Snapshot
	group   singleflight.Group
}

func NewCache(loader SnapshotLoader) *Cache {
	return &Cache{
		loader:  loader,
		entries: make(map[int]xmltv.Snapshot),
	}
}

// Get returns the cached snapshot for provider index, loading url on first use.
func (c *Cache) Get(ctx context.Context, index int, url string) xmltv.Snapshot {
	if snap, ok := c.Peek(index); ok {
		return snap
	}

	v, _, _ := c.group.Do(strconv.Itoa(index), func() (any, error) {
		if snap, ok := c.Peek(index); ok {
			return snap, nil
		}
		snap := c.loader.Load(ctx, url)
		c.mu.Lock()
		c.entries[index] = snap
		c.mu.Unlock()
		return snap, nil
	})
	return v.(xmltv.Snapshot)
}

// Peek returns the snapshot for index without loading.
func (c *Cache) Peek(index int) (xmltv.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.entries[index]
	return snap, ok
}
