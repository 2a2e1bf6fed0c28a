// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache provides the generic LRU cache used for compiled programs.
//
// Entries are kept in recency order. When the soft limit is exceeded the
// least recently used quarter is evicted and handed to an optional callback,
// which is where owners release the GPU objects behind a value.
//
//	c := cache.New[string, *Program](64)
//	c.SetOnEvict(func(_ string, p *Program) { p.destroy() })
//	p, err := c.GetOrTryCreate(key, compile)
//
// Failed creations are never stored.
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
