// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import (
	"encoding/binary"
	"hash/fnv"

	icache "github.com/gogpu/g3d/internal/cache"
)

// Default configuration constants.
const (
	// DefaultShardCount is the number of shards for reduced lock contention.
	// Must be a power of 2 for fast modulo via bitwise AND.
	DefaultShardCount = 16

	// DefaultCapacity is the default soft limit per shard.
	DefaultCapacity = 256

	shardMask = DefaultShardCount - 1
)

// Hasher computes a hash for a key. Used for shard selection only, so
// collisions cost contention, never correctness.
type Hasher[K any] func(K) uint64

// StringHasher computes FNV-1a hash of a string key.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// Uint64Hasher mixes the bits of u (splitmix64 finalizer) so that
// sequential keys spread across shards.
func Uint64Hasher(u uint64) uint64 {
	u ^= u >> 30
	u *= 0xbf58476d1ce4e5b9
	u ^= u >> 27
	u *= 0x94d049bb133111eb
	u ^= u >> 31
	return u
}

// BytesHasher computes FNV-1a hash of a byte key encoding.
func BytesHasher(b []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}

// IntHasher hashes an int through its little-endian encoding.
func IntHasher(i int) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(i))
	return BytesHasher(buf[:])
}

// ShardedCache is a thread-safe LRU cache split into 16 independently locked
// shards. Keys are routed to a shard by the hasher.
type ShardedCache[K comparable, V any] struct {
	shards   [DefaultShardCount]*icache.Cache[K, V]
	hasher   Hasher[K]
	capacity int
}

// NewSharded creates a sharded cache with the given soft limit per shard.
// Total capacity is approximately capacity * DefaultShardCount.
// If capacity <= 0, DefaultCapacity is used.
func NewSharded[K comparable, V any](capacity int, hasher Hasher[K]) *ShardedCache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &ShardedCache[K, V]{
		hasher:   hasher,
		capacity: capacity,
	}
	for i := range c.shards {
		c.shards[i] = icache.New[K, V](capacity)
	}
	return c
}

func (c *ShardedCache[K, V]) shard(key K) *icache.Cache[K, V] {
	return c.shards[c.hasher(key)&shardMask]
}

// Get retrieves a cached value by key.
func (c *ShardedCache[K, V]) Get(key K) (V, bool) {
	return c.shard(key).Get(key)
}

// Set stores a value in the cache.
func (c *ShardedCache[K, V]) Set(key K, value V) {
	c.shard(key).Set(key, value)
}

// GetOrCreate returns a cached value or creates it with the shard locked,
// so concurrent callers for one key run create once.
func (c *ShardedCache[K, V]) GetOrCreate(key K, create func() V) V {
	return c.shard(key).GetOrCreate(key, create)
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *ShardedCache[K, V]) Delete(key K) bool {
	return c.shard(key).Delete(key)
}

// Clear removes all entries from the cache.
func (c *ShardedCache[K, V]) Clear() {
	for _, s := range c.shards {
		s.Clear()
	}
}

// Len returns the total number of entries across all shards.
func (c *ShardedCache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

// Capacity returns the per-shard soft limit.
func (c *ShardedCache[K, V]) Capacity() int {
	return c.capacity
}

// ShardLen returns the number of entries in each shard.
// Useful for debugging load distribution.
func (c *ShardedCache[K, V]) ShardLen() [DefaultShardCount]int {
	var lens [DefaultShardCount]int
	for i, s := range c.shards {
		lens[i] = s.Len()
	}
	return lens
}

// Stats returns statistics summed over all shards.
func (c *ShardedCache[K, V]) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		ss := s.Stats()
		st.Len += ss.Len
		st.Hits += ss.Hits
		st.Misses += ss.Misses
		st.Evictions += ss.Evictions
	}
	st.Capacity = c.capacity
	st.TotalCapacity = c.capacity * DefaultShardCount
	if total := st.Hits + st.Misses; total > 0 {
		st.HitRate = float64(st.Hits) / float64(total)
	}
	return st
}

// ResetStats resets all statistics counters to zero.
func (c *ShardedCache[K, V]) ResetStats() {
	for _, s := range c.shards {
		s.ResetStats()
	}
}

// Stats contains sharded cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the per-shard soft limit.
	Capacity int
	// TotalCapacity is the soft limit across all shards.
	TotalCapacity int
	// Hits is the number of cache hits.
	Hits uint64
	// Misses is the number of cache misses.
	Misses uint64
	// HitRate is the cache hit rate 0.0 to 1.0.
	HitRate float64
	// Evictions is the number of entries evicted by the soft limit.
	Evictions uint64
}
