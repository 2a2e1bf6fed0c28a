// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package program compiles and caches shader programs keyed by
// shader.Features.
//
// [Cache.Get] generates WGSL on a miss, creates the vertex and fragment
// modules on a gpucore.Device and links a render pipeline whose vertex
// inputs and uniform blocks sit at the fixed slots published by the shader
// package. A failed compile or link returns a [*CompileError] carrying the
// generated source and stores nothing.
//
// The light and clip-plane counts are global to a cache because they are
// baked into the generated text. Changing either with [Cache.SetLightCount]
// or [Cache.SetClipPlaneCount] drops every compiled program.
//
// Programs are owned by the cache. Callers must not destroy them and must
// not keep them across InvalidateAll, eviction or Destroy.
package program
