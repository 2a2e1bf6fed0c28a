// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package resource provides reference-counted lifetime tracking for GPU
// objects.
//
// A [RefCounted] moves through four states:
//
//	Allocated -> Acquired (refs > 0) -> Released (refs == 0) -> Disposed
//
// Reaching zero references does not free anything. A released resource
// stays cached and valid until a garbage sweep or an explicit
// [RefCounted.Dispose] frees it; [RefCounted.ReleaseDispose] combines the
// last release with disposal. Disposal runs the free function exactly once
// and every later operation returns [ErrDisposed].
//
// [RefCounted.Invalidate] marks a resource stale without freeing it, so an
// owner can rebuild it on next access and sweep the old one later.
//
// [Buffer] is the GPU buffer wrapper built on top of RefCounted.
package resource
