// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import "github.com/gogpu/g3d/cache"

// DefaultSourceCapacity is the per-shard soft limit of a SourceCache.
const DefaultSourceCapacity = 32

// SourceCache memoizes Generate. Entries outlive program cache
// invalidation.
//
// SourceCache is safe for concurrent use.
type SourceCache struct {
	c *cache.ShardedCache[Features, Source]
}

// NewSourceCache creates a source cache. capacity <= 0 selects
// DefaultSourceCapacity per shard.
func NewSourceCache(capacity int) *SourceCache {
	if capacity <= 0 {
		capacity = DefaultSourceCapacity
	}
	return &SourceCache{c: cache.NewSharded[Features, Source](capacity, Features.Hash)}
}

// Get returns the generated source for f.
func (s *SourceCache) Get(f Features) Source {
	return s.c.GetOrCreate(f, func() Source { return Generate(f) })
}

// Len returns the number of cached sources.
func (s *SourceCache) Len() int { return s.c.Len() }

// Stats returns hit and miss counters.
func (s *SourceCache) Stats() cache.Stats { return s.c.Stats() }

// Clear drops all cached sources.
func (s *SourceCache) Clear() { s.c.Clear() }
