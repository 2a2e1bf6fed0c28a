// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package primitive

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/g3d/gpucore"
)

// ErrPoolDisposed is returned by a disposed Pool.
var ErrPoolDisposed = errors.New("primitive: pool disposed")

// Pool owns the uploaded geometry of one device, shared by every Cache
// created from it.
//
// Pool is safe for concurrent use.
type Pool struct {
	device gpucore.Device

	mu       sync.Mutex
	entries  map[Key]*Geometry
	retired  []*Geometry
	disposed bool

	// generation is written under mu and read without it.
	generation atomic.Uint64
}

// NewPool creates an empty pool uploading to device.
func NewPool(device gpucore.Device) *Pool {
	return &Pool{
		device:  device,
		entries: make(map[Key]*Geometry),
	}
}

// Get returns an acquired geometry for key, building it when missing or
// invalid. The caller must Release it.
func (p *Pool) Get(key Key) (*Geometry, error) {
	g, _, err := p.acquire(key.Normalize())
	return g, err
}

// acquire returns an acquired geometry for a normalized key and the pool
// generation it belongs to.
func (p *Pool) acquire(key Key) (*Geometry, uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return nil, 0, ErrPoolDisposed
	}

	g, ok := p.entries[key]
	if ok && g.IsValid() && g.Acquire() == nil {
		return g, p.generation.Load(), nil
	}
	if ok {
		// Holders may still draw the stale geometry until the next sweep.
		delete(p.entries, key)
		p.retired = append(p.retired, g)
	}

	g, err := upload(p.device, key, key.Tessellate())
	if err != nil {
		Logger().Warn("primitive: build failed", "key", key.String(), "err", err)
		return nil, 0, err
	}
	_ = g.Acquire()
	p.entries[key] = g
	Logger().Debug("primitive: built", "key", key.String(),
		"vertices", g.vertexCount, "indices", g.indexCount)
	return g, p.generation.Load(), nil
}

// Generation returns a counter that changes whenever entries are removed.
// It does not take the pool lock.
func (p *Pool) Generation() uint64 { return p.generation.Load() }

// Len returns the number of live entries.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Invalidate marks the geometry for key stale. It is rebuilt on the next
// access and disposed by the next Garbage.
func (p *Pool) Invalidate(key Key) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if g, ok := p.entries[key.Normalize()]; ok {
		g.Invalidate()
		p.generation.Add(1)
	}
}

// InvalidateAll marks every entry stale.
func (p *Pool) InvalidateAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, g := range p.entries {
		g.Invalidate()
	}
	p.generation.Add(1)
}

// Garbage disposes entries that are invalid or unreferenced and returns how
// many were disposed. Retired entries replaced by a rebuild count too.
func (p *Pool) Garbage() int {
	p.mu.Lock()
	dead := p.retired
	p.retired = nil
	for key, g := range p.entries {
		if g.Reclaimable() {
			delete(p.entries, key)
			dead = append(dead, g)
		}
	}
	if len(dead) > 0 {
		p.generation.Add(1)
	}
	p.mu.Unlock()

	n := 0
	for _, g := range dead {
		if g.Dispose() == nil {
			n++
		}
	}
	if n > 0 {
		Logger().Debug("primitive: collected", "geometries", n)
	}
	return n
}

// Dispose destroys every geometry regardless of references. The pool
// refuses further requests.
func (p *Pool) Dispose() {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.disposed = true
	dead := p.retired
	for _, g := range p.entries {
		dead = append(dead, g)
	}
	p.entries = nil
	p.retired = nil
	p.generation.Add(1)
	p.mu.Unlock()

	for _, g := range dead {
		_ = g.Dispose()
	}
}

// Prewarm builds the geometry for keys that are not cached yet.
// Tessellation runs concurrently; uploads run on the calling goroutine.
// Prewarmed entries hold no references, so a Garbage before first use
// disposes them.
func (p *Pool) Prewarm(ctx context.Context, keys ...Key) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrPoolDisposed
	}
	var missing []Key
	seen := make(map[Key]bool, len(keys))
	for _, k := range keys {
		k = k.Normalize()
		if g, ok := p.entries[k]; (!ok || !g.IsValid()) && !seen[k] {
			seen[k] = true
			missing = append(missing, k)
		}
	}
	p.mu.Unlock()
	if len(missing) == 0 {
		return nil
	}

	meshes := make([]*Mesh, len(missing))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, k := range missing {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			meshes[i] = k.Tessellate()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return ErrPoolDisposed
	}
	for i, k := range missing {
		if g, ok := p.entries[k]; ok {
			if g.IsValid() {
				continue
			}
			delete(p.entries, k)
			p.retired = append(p.retired, g)
		}
		g, err := upload(p.device, k, meshes[i])
		if err != nil {
			return err
		}
		p.entries[k] = g
	}
	Logger().Debug("primitive: prewarmed", "geometries", len(missing))
	return nil
}

// NewCache returns a consumer cache backed by p.
func (p *Pool) NewCache() *Cache {
	return &Cache{pool: p}
}
