// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache provides a sharded LRU cache for values that are cheap to
// recompute but hot on every frame, such as generated shader source.
//
//	c := cache.NewSharded[shader.Features, shader.Source](64, shader.Features.Hash)
//	src := c.GetOrCreate(f, func() shader.Source { return shader.Generate(f) })
//
// ShardedCache is safe for concurrent use.
package cache
