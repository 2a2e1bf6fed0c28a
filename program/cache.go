// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import (
	"sync"

	"github.com/gogpu/g3d/cache"
	"github.com/gogpu/g3d/gpucore"
	icache "github.com/gogpu/g3d/internal/cache"
	"github.com/gogpu/g3d/shader"
)

// Option configures a Cache.
type Option func(*config)

type config struct {
	limit       int
	lights      int
	clipPlanes  int
	colorFormat gpucore.TextureFormat
	depthFormat gpucore.TextureFormat
	sources     *shader.SourceCache
}

func defaultConfig() config {
	return config{
		colorFormat: gpucore.TextureFormatBGRA8Unorm,
		depthFormat: gpucore.TextureFormatDepth24PlusStencil8,
	}
}

// WithLimit sets a soft limit on cached programs. Past the limit the least
// recently used programs are destroyed. 0 (the default) means unlimited.
func WithLimit(n int) Option {
	return func(c *config) { c.limit = n }
}

// WithLightCount sets the initial light count.
func WithLightCount(n int) Option {
	return func(c *config) { c.lights = n }
}

// WithClipPlaneCount sets the initial clip-plane count.
func WithClipPlaneCount(n int) Option {
	return func(c *config) { c.clipPlanes = n }
}

// WithColorFormat sets the color target format of created pipelines.
func WithColorFormat(f gpucore.TextureFormat) Option {
	return func(c *config) { c.colorFormat = f }
}

// WithDepthFormat sets the depth target format. 0 disables depth testing.
func WithDepthFormat(f gpucore.TextureFormat) Option {
	return func(c *config) { c.depthFormat = f }
}

// WithSourceCache shares a generated-source cache between program caches.
func WithSourceCache(s *shader.SourceCache) Option {
	return func(c *config) { c.sources = s }
}

// Cache memoizes compiled programs per feature descriptor.
//
// Cache is safe for concurrent use, although GPU objects are normally
// created from a single render goroutine.
type Cache struct {
	device  gpucore.Device
	sources *shader.SourceCache
	cfg     config

	programs *icache.Cache[shader.Features, *Program]

	mu         sync.Mutex
	lights     int
	clipPlanes int
	destroyed  bool
}

// New creates a program cache compiling on device.
func New(device gpucore.Device, opts ...Option) *Cache {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sources == nil {
		cfg.sources = shader.NewSourceCache(0)
	}

	c := &Cache{
		device:     device,
		sources:    cfg.sources,
		cfg:        cfg,
		programs:   icache.New[shader.Features, *Program](cfg.limit),
		lights:     clamp(cfg.lights, shader.MaxLights),
		clipPlanes: clamp(cfg.clipPlanes, shader.MaxClipPlanes),
	}
	c.programs.SetOnEvict(func(_ shader.Features, p *Program) {
		p.destroy(device)
	})
	return c
}

func clamp(n, hi int) int {
	return max(0, min(n, hi))
}

// Get returns the program for f, compiling it on a miss.
//
// The cache's light count replaces the descriptor's for lit descriptors and
// is zeroed for unlit ones; the clip-plane count always replaces the
// descriptor's. The returned program is owned by the cache.
func (c *Cache) Get(f shader.Features) (*Program, error) {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return nil, ErrDestroyed
	}
	lights := 0
	if f.Lit() {
		lights = c.lights
	}
	key := f.WithLights(lights).WithClipPlanes(c.clipPlanes)
	c.mu.Unlock()

	return c.programs.GetOrTryCreate(key, func() (*Program, error) {
		return c.build(key)
	})
}

// build generates and compiles the program for f. On failure every object
// created so far is destroyed.
func (c *Cache) build(f shader.Features) (*Program, error) {
	src := c.sources.Get(f)
	p := &Program{
		features:   f,
		source:     src,
		attributes: shader.Attributes(f),
		bindings:   shader.Bindings(f),
	}
	label := f.String()

	fail := func(stage Stage, err error) (*Program, error) {
		p.destroy(c.device)
		Logger().Warn("program: build failed", "stage", stage.String(), "features", label, "err", err)
		return nil, &CompileError{
			Stage:      stage,
			Features:   f,
			Source:     src,
			Diagnostic: diagnostic(err),
			Err:        err,
		}
	}

	var err error
	p.vertex, err = c.device.CreateShaderModule(&gpucore.ShaderModuleDesc{
		Label: label + "/vertex",
		Stage: gpucore.ShaderStageVertex,
		WGSL:  src.Vertex,
	})
	if err != nil {
		return fail(StageVertex, err)
	}
	p.fragment, err = c.device.CreateShaderModule(&gpucore.ShaderModuleDesc{
		Label: label + "/fragment",
		Stage: gpucore.ShaderStageFragment,
		WGSL:  src.Fragment,
	})
	if err != nil {
		return fail(StageFragment, err)
	}
	p.pipeline, err = c.device.CreateRenderPipeline(&gpucore.RenderPipelineDesc{
		Label:          label,
		VertexModule:   p.vertex,
		FragmentModule: p.fragment,
		VertexEntry:    shader.VertexEntry,
		FragmentEntry:  shader.FragmentEntry,
		Attributes:     p.attributes,
		Bindings:       p.bindings,
		ColorFormat:    c.cfg.colorFormat,
		DepthFormat:    c.cfg.depthFormat,
	})
	if err != nil {
		return fail(StageLink, err)
	}

	Logger().Debug("program: compiled", "features", label, "attributes", len(p.attributes))
	return p, nil
}

// InvalidateAll destroys every cached program. Generated sources are kept.
func (c *Cache) InvalidateAll() {
	n := c.programs.Len()
	c.programs.Clear()
	if n > 0 {
		Logger().Debug("program: invalidated", "programs", n)
	}
}

// LightCount returns the light count applied to lit descriptors.
func (c *Cache) LightCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lights
}

// ClipPlaneCount returns the clip-plane count applied to descriptors.
func (c *Cache) ClipPlaneCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clipPlanes
}

// SetLightCount changes the light count, clamped to [0, shader.MaxLights].
// Every program is invalidated when the value changes. It reports whether
// it did.
func (c *Cache) SetLightCount(n int) bool {
	n = clamp(n, shader.MaxLights)
	c.mu.Lock()
	changed := n != c.lights
	c.lights = n
	c.mu.Unlock()
	if changed {
		c.InvalidateAll()
	}
	return changed
}

// SetClipPlaneCount changes the clip-plane count, clamped to
// [0, shader.MaxClipPlanes]. Every program is invalidated when the value
// changes. It reports whether it did.
func (c *Cache) SetClipPlaneCount(n int) bool {
	n = clamp(n, shader.MaxClipPlanes)
	c.mu.Lock()
	changed := n != c.clipPlanes
	c.clipPlanes = n
	c.mu.Unlock()
	if changed {
		c.InvalidateAll()
	}
	return changed
}

// Len returns the number of cached programs.
func (c *Cache) Len() int { return c.programs.Len() }

// Stats returns hit, miss and eviction counters.
func (c *Cache) Stats() cache.Stats {
	st := c.programs.Stats()
	return cache.Stats{
		Len:           st.Len,
		Capacity:      st.Capacity,
		TotalCapacity: st.Capacity,
		Hits:          st.Hits,
		Misses:        st.Misses,
		HitRate:       st.HitRate(),
		Evictions:     st.Evictions,
	}
}

// Destroy releases every program. Later Get calls return ErrDestroyed.
func (c *Cache) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.mu.Unlock()
	c.programs.Clear()
}
