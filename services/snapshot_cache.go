package services

import (
	"time"

	"github.com/viccon/sturdyc"

	"github.com/zeeshanfreelancer/memegenerator/models"
)

// SnapshotKeyAll is the cache key for the unfiltered active-template
// snapshot. The cache itself is keyed, but listing only ever caches this one
// entry: filtered reads always go to the store and refresh this snapshot as
// a side effect.
const SnapshotKeyAll = "templates:all"

const (
	snapshotCacheCapacity = 64
	snapshotCacheShards   = 1
	snapshotEvictionPct   = 10
)

// SnapshotCache is a TTL-bounded cache of template result sets. There is no
// invalidation on write; staleness up to the TTL is accepted. The clock is
// injected so tests control freshness without sleeping.
type SnapshotCache struct {
	client *sturdyc.Client[[]models.Template]
}

// NewSnapshotCache builds a cache with the given TTL. A nil clock uses wall
// time.
func NewSnapshotCache(ttl time.Duration, clock sturdyc.Clock) *SnapshotCache {
	var opts []sturdyc.Option
	if clock != nil {
		opts = append(opts, sturdyc.WithClock(clock))
	}
	return &SnapshotCache{
		client: sturdyc.New[[]models.Template](
			snapshotCacheCapacity,
			snapshotCacheShards,
			ttl,
			snapshotEvictionPct,
			opts...,
		),
	}
}

// Get returns the cached snapshot for key, or a miss once the TTL elapsed.
func (c *SnapshotCache) Get(key string) ([]models.Template, bool) {
	return c.client.Get(key)
}

// Refresh unconditionally replaces the snapshot and restarts its TTL.
func (c *SnapshotCache) Refresh(key string, snapshot []models.Template) {
	c.client.Set(key, snapshot)
}
