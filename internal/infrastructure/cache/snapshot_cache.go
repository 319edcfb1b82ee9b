package cache

import (
	"context"
	"sync"
	"time"
)

// Loader produces a fresh catalog snapshot
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// SnapshotCache serves catalog snapshots for read paths. Write paths
// must call Invalidate after mutating catalog rows; pricing paths that
// feed a persisted document should bypass the cache and load fresh.
type SnapshotCache interface {
	Get(ctx context.Context) (*Snapshot, error)
	Invalidate(ctx context.Context) error
	Close() error
}

// InMemorySnapshotCache caches one snapshot per process with a TTL.
// Suitable for single-instance deployments and testing.
type InMemorySnapshotCache struct {
	loader Loader
	ttl    time.Duration

	mu       sync.Mutex
	snapshot *Snapshot
	loadedAt time.Time
}

// NewInMemorySnapshotCache creates a new in-memory snapshot cache
func NewInMemorySnapshotCache(loader Loader, ttl time.Duration) *InMemorySnapshotCache {
	return &InMemorySnapshotCache{loader: loader, ttl: ttl}
}

// Get returns the cached snapshot, reloading it when stale or absent
func (c *InMemorySnapshotCache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil && time.Since(c.loadedAt) < c.ttl {
		return c.snapshot, nil
	}

	snap, err := c.loader.Load(ctx)
	if err != nil {
		// Serve the stale snapshot rather than failing the read
		if c.snapshot != nil {
			return c.snapshot, nil
		}
		return nil, err
	}

	c.snapshot = snap
	c.loadedAt = time.Now()
	return snap, nil
}

// Invalidate drops the cached snapshot so the next Get reloads
func (c *InMemorySnapshotCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.loadedAt = time.Time{}
	return nil
}

// Close implements SnapshotCache
func (c *InMemorySnapshotCache) Close() error {
	return nil
}

var _ SnapshotCache = (*InMemorySnapshotCache)(nil)
