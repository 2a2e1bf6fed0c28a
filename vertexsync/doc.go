// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vertexsync mirrors mutable geometry into GPU buffers with the
// least rewriting.
//
// A [Source] exposes version counters per stream. [Sync.MaybeUpdate]
// compares them with the snapshot taken at the last write and picks one of:
//
//   - full rebuild, when the structure or a static stream changed
//   - nothing, when no dynamic stream changed
//   - orphan, when every dynamic stream changed
//   - in-place writes of just the changed dynamic streams
//
// Static and dynamic streams live in separate buffers, so editing colors
// never re-uploads positions marked static.
package vertexsync
