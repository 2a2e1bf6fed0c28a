// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"errors"
	"sync"
)

// Lifetime errors.
var (
	// ErrDisposed is returned by operations on a disposed resource.
	ErrDisposed = errors.New("resource: already disposed")

	// ErrRefUnderflow is returned by a release with no outstanding references.
	ErrRefUnderflow = errors.New("resource: release without acquire")
)

// RefCounted tracks holders of a native resource.
//
// RefCounted is safe for concurrent use. The free function runs without the
// lock held, so it may call back into the resource.
type RefCounted struct {
	mu       sync.Mutex
	refs     int
	valid    bool
	disposed bool
	free     func()
}

// NewRefCounted returns a valid resource with zero references. free, which
// may be nil, runs once on disposal.
func NewRefCounted(free func()) *RefCounted {
	return &RefCounted{valid: true, free: free}
}

// Acquire adds a reference.
func (r *RefCounted) Acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return ErrDisposed
	}
	r.refs++
	return nil
}

// Release drops a reference. The count never goes below zero.
func (r *RefCounted) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.releaseLocked()
}

func (r *RefCounted) releaseLocked() error {
	if r.disposed {
		return ErrDisposed
	}
	if r.refs == 0 {
		Logger().Warn("resource: release without acquire")
		return ErrRefUnderflow
	}
	r.refs--
	return nil
}

// ReleaseDispose drops a reference and disposes the resource when it was
// the last one.
func (r *RefCounted) ReleaseDispose() error {
	r.mu.Lock()
	if err := r.releaseLocked(); err != nil {
		r.mu.Unlock()
		return err
	}
	if r.refs > 0 {
		r.mu.Unlock()
		return nil
	}
	free := r.disposeLocked()
	r.mu.Unlock()
	if free != nil {
		free()
	}
	return nil
}

// Dispose frees the resource regardless of outstanding references.
// A second call returns ErrDisposed and frees nothing.
func (r *RefCounted) Dispose() error {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return ErrDisposed
	}
	if r.refs > 0 {
		Logger().Debug("resource: disposing with outstanding references", "refs", r.refs)
	}
	free := r.disposeLocked()
	r.mu.Unlock()
	if free != nil {
		free()
	}
	return nil
}

// disposeLocked marks the resource disposed and returns the free function
// for the caller to run after unlocking.
func (r *RefCounted) disposeLocked() func() {
	r.disposed = true
	r.valid = false
	r.refs = 0
	free := r.free
	r.free = nil
	return free
}

// Invalidate marks the resource stale. It stays allocated until disposed.
func (r *RefCounted) Invalidate() {
	r.mu.Lock()
	r.valid = false
	r.mu.Unlock()
}

// IsValid reports whether the resource is allocated and not stale.
func (r *RefCounted) IsValid() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.valid
}

// IsDisposed reports whether the resource has been freed.
func (r *RefCounted) IsDisposed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}

// Refs returns the number of outstanding references.
func (r *RefCounted) Refs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refs
}

// Reclaimable reports whether a garbage sweep may dispose the resource:
// it is stale or nobody holds it.
func (r *RefCounted) Reclaimable() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.disposed && (!r.valid || r.refs == 0)
}
