// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package g3d

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/primitive"
	"github.com/gogpu/g3d/program"
	"github.com/gogpu/g3d/shader"
	"github.com/gogpu/g3d/vertexsync"
)

// ErrClosed is returned by a Context after Shutdown.
var ErrClosed = errors.New("g3d: context is shut down")

// Context owns the GPU caches of one device: compiled programs, shared
// primitive geometry and the vertex syncs it handed out. Create one per
// device and call Shutdown when the device goes away.
//
// Context is safe for concurrent use. GPU work is expected to come from
// a single render goroutine.
type Context struct {
	device   gpucore.Device
	programs *program.Cache
	pool     *primitive.Pool
	interval time.Duration

	// release runs after everything else at Shutdown.
	release func()

	mu     sync.Mutex
	lastGC time.Time
	syncs  map[*vertexsync.Sync]struct{}
	closed bool
}

// NewContext creates a Context on device.
//
// Example:
//
//	ctx := g3d.NewContext(device, g3d.WithLightCount(2))
//	defer ctx.Shutdown()
//
//	prog, err := ctx.Program(shader.NewFeatures().WithShading(shader.ShadingSmoothPerFragment))
//	sphere, err := ctx.NewPrimitiveCache().Sphere(3)
func NewContext(device gpucore.Device, opts ...ContextOption) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newContext(device, o, nil)
}

func newContext(device gpucore.Device, o contextOptions, release func()) *Context {
	c := &Context{
		device: device,
		programs: program.New(device,
			program.WithLimit(o.programLimit),
			program.WithLightCount(o.lights),
			program.WithClipPlaneCount(o.clipPlanes),
			program.WithColorFormat(o.colorFormat),
			program.WithDepthFormat(o.depthFormat),
		),
		pool:     primitive.NewPool(device),
		interval: o.garbageInterval,
		release:  release,
		syncs:    make(map[*vertexsync.Sync]struct{}),
	}
	Logger().Info("g3d: context created",
		"lights", c.programs.LightCount(), "clipPlanes", c.programs.ClipPlaneCount())
	return c
}

// Device returns the device the context allocates on.
func (c *Context) Device() gpucore.Device { return c.device }

// Program returns the compiled program for f. See program.Cache.Get.
func (c *Context) Program(f shader.Features) (*program.Program, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	return c.programs.Get(f)
}

// Programs returns the program cache.
func (c *Context) Programs() *program.Cache { return c.programs }

// Primitives returns the shared primitive pool.
func (c *Context) Primitives() *primitive.Pool { return c.pool }

// NewPrimitiveCache returns a primitive cache for one consumer. Each render
// goroutine needs its own.
func (c *Context) NewPrimitiveCache() *primitive.Cache { return c.pool.NewCache() }

// Prewarm builds primitive geometry ahead of first use.
func (c *Context) Prewarm(ctx context.Context, keys ...primitive.Key) error {
	if c.isClosed() {
		return ErrClosed
	}
	return c.pool.Prewarm(ctx, keys...)
}

// NewVertexSync returns a vertex sync whose buffers are destroyed at
// Shutdown unless disposed earlier with DisposeVertexSync.
func (c *Context) NewVertexSync() (*vertexsync.Sync, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	s := vertexsync.New(c.device)
	c.syncs[s] = struct{}{}
	return s, nil
}

// DisposeVertexSync destroys the buffers of s and forgets it.
func (c *Context) DisposeVertexSync(s *vertexsync.Sync) {
	c.mu.Lock()
	delete(c.syncs, s)
	c.mu.Unlock()
	s.Dispose()
}

// SetLightCount changes the number of lights compiled into lit programs.
// Cached programs are dropped only when the count changes.
func (c *Context) SetLightCount(n int) bool { return c.programs.SetLightCount(n) }

// SetClipPlaneCount changes the number of clip planes compiled into
// programs. Cached programs are dropped only when the count changes.
func (c *Context) SetClipPlaneCount(n int) bool { return c.programs.SetClipPlaneCount(n) }

// CollectGarbage sweeps unreferenced or invalid primitives unless the last
// sweep was less than the garbage interval before now. It reports whether a
// sweep ran. Call it once per frame.
func (c *Context) CollectGarbage(now time.Time) bool {
	c.mu.Lock()
	if c.closed || (!c.lastGC.IsZero() && now.Sub(c.lastGC) < c.interval) {
		c.mu.Unlock()
		return false
	}
	c.lastGC = now
	c.mu.Unlock()

	if n := c.pool.Garbage(); n > 0 {
		Logger().Debug("g3d: garbage collected", "primitives", n)
	}
	return true
}

func (c *Context) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Shutdown destroys every GPU object the context owns. Handles obtained
// from it become unusable. Calling Shutdown more than once is safe.
func (c *Context) Shutdown() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	syncs := c.syncs
	c.syncs = nil
	c.mu.Unlock()

	for s := range syncs {
		s.Dispose()
	}
	c.pool.Dispose()
	c.programs.Destroy()
	if c.release != nil {
		c.release()
	}
	Logger().Info("g3d: context shut down")
}
