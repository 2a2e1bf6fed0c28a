// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package g3d

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/internal/gputest"
	"github.com/gogpu/g3d/primitive"
	"github.com/gogpu/g3d/shader"
	"github.com/gogpu/g3d/vertexsync"
)

// triangle is a fixed three-vertex source with positions only.
type triangle struct {
	mu sync.RWMutex
}

func (t *triangle) ReadLock() { t.mu.RLock() }

func (t *triangle) ReadUnlock() { t.mu.RUnlock() }

func (t *triangle) Versions() vertexsync.VersionInfo {
	return vertexsync.VersionInfo{Master: 1, Structure: 1, Positions: 1}
}

func (t *triangle) VertexCount() int { return 3 }

func (t *triangle) Has(s gpucore.Stream) bool { return s == gpucore.StreamPosition }

func (t *triangle) IsDynamic(gpucore.Stream) bool { return false }

func (t *triangle) Position(i int) f32.Vec3 { return f32.Vec3{float32(i), 0, 0} }

func (t *triangle) Normal(int) f32.Vec3 { return f32.Vec3{} }

func (t *triangle) Color(int) f32.Vec4 { return f32.Vec4{} }

func (t *triangle) TexCoord(int) f32.Vec2 { return f32.Vec2{} }

func (t *triangle) Indices() []uint32 { return nil }

func TestContextProgramMemoized(t *testing.T) {
	dev := gputest.NewDevice()
	c := NewContext(dev, WithLightCount(2))
	defer c.Shutdown()

	f := shader.NewFeatures().WithShading(shader.ShadingSmoothPerFragment).WithLights(5)
	p1, err := c.Program(f)
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	p2, err := c.Program(f)
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	if p1 != p2 {
		t.Error("equal descriptors returned different programs")
	}
	if p1.Features().Lights() != 2 {
		t.Errorf("program lights = %d, want the context's 2", p1.Features().Lights())
	}
	if dev.PipelinesCreated != 1 {
		t.Errorf("pipelines created = %d, want 1", dev.PipelinesCreated)
	}
}

func TestContextSetLightCount(t *testing.T) {
	dev := gputest.NewDevice()
	c := NewContext(dev, WithLightCount(1))
	defer c.Shutdown()

	f := shader.NewFeatures().WithShading(shader.ShadingSmoothPerFragment)
	if _, err := c.Program(f); err != nil {
		t.Fatalf("Program: %v", err)
	}
	if c.SetLightCount(1) {
		t.Error("SetLightCount with the current count reported a change")
	}
	if c.Programs().Len() != 1 {
		t.Fatalf("cache dropped programs on an unchanged count")
	}
	if !c.SetLightCount(3) {
		t.Error("SetLightCount(3) reported no change")
	}
	if c.Programs().Len() != 0 {
		t.Errorf("cache kept %d programs after a count change", c.Programs().Len())
	}
	p, err := c.Program(f)
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	if p.Features().Lights() != 3 {
		t.Errorf("rebuilt program lights = %d, want 3", p.Features().Lights())
	}
}

func TestContextShutdownReleasesEverything(t *testing.T) {
	dev := gputest.NewDevice()
	c := NewContext(dev)

	if _, err := c.Program(shader.NewFeatures()); err != nil {
		t.Fatalf("Program: %v", err)
	}
	g, err := c.NewPrimitiveCache().Sphere(1)
	if err != nil {
		t.Fatalf("Sphere: %v", err)
	}
	vs, err := c.NewVertexSync()
	if err != nil {
		t.Fatalf("NewVertexSync: %v", err)
	}
	if _, err := vs.MaybeUpdate(&triangle{}); err != nil {
		t.Fatalf("MaybeUpdate: %v", err)
	}

	buffers, modules, pipelines := dev.Live()
	if buffers == 0 || modules == 0 || pipelines == 0 {
		t.Fatalf("live before shutdown = %d %d %d", buffers, modules, pipelines)
	}

	c.Shutdown()
	c.Shutdown()

	if buffers, modules, pipelines = dev.Live(); buffers+modules+pipelines != 0 {
		t.Errorf("live after shutdown = %d %d %d", buffers, modules, pipelines)
	}
	if !g.IsDisposed() {
		t.Error("held geometry survived shutdown")
	}
}

func TestContextClosed(t *testing.T) {
	c := NewContext(gputest.NewDevice())
	c.Shutdown()

	if _, err := c.Program(shader.NewFeatures()); !errors.Is(err, ErrClosed) {
		t.Errorf("Program after Shutdown = %v, want ErrClosed", err)
	}
	if _, err := c.NewVertexSync(); !errors.Is(err, ErrClosed) {
		t.Errorf("NewVertexSync after Shutdown = %v, want ErrClosed", err)
	}
	if err := c.Prewarm(context.Background(), primitive.CubeKey{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Prewarm after Shutdown = %v, want ErrClosed", err)
	}
	if c.CollectGarbage(time.Now()) {
		t.Error("CollectGarbage ran after Shutdown")
	}
}

func TestContextCollectGarbageInterval(t *testing.T) {
	dev := gputest.NewDevice()
	c := NewContext(dev, WithGarbageInterval(time.Second))
	defer c.Shutdown()

	if err := c.Prewarm(context.Background(), primitive.CubeKey{}); err != nil {
		t.Fatalf("Prewarm: %v", err)
	}
	if c.Primitives().Len() != 1 {
		t.Fatalf("pool Len = %d after prewarm", c.Primitives().Len())
	}

	t0 := time.Unix(1000, 0)
	if !c.CollectGarbage(t0) {
		t.Fatal("first CollectGarbage did not run")
	}
	if c.Primitives().Len() != 0 {
		t.Errorf("unreferenced cube survived the sweep")
	}

	if err := c.Prewarm(context.Background(), primitive.CubeKey{}); err != nil {
		t.Fatalf("Prewarm: %v", err)
	}
	if c.CollectGarbage(t0.Add(500 * time.Millisecond)) {
		t.Error("CollectGarbage ran inside the interval")
	}
	if c.Primitives().Len() != 1 {
		t.Errorf("sweep inside the interval removed the cube")
	}
	if !c.CollectGarbage(t0.Add(time.Second)) {
		t.Error("CollectGarbage skipped after the interval")
	}
	if c.Primitives().Len() != 0 {
		t.Errorf("cube survived the second sweep")
	}
}

func TestContextDisposeVertexSync(t *testing.T) {
	dev := gputest.NewDevice()
	c := NewContext(dev)
	defer c.Shutdown()

	vs, err := c.NewVertexSync()
	if err != nil {
		t.Fatalf("NewVertexSync: %v", err)
	}
	if _, err := vs.MaybeUpdate(&triangle{}); err != nil {
		t.Fatalf("MaybeUpdate: %v", err)
	}
	if buffers, _, _ := dev.Live(); buffers != 1 {
		t.Fatalf("live buffers = %d, want the static buffer", buffers)
	}
	c.DisposeVertexSync(vs)
	if buffers, _, _ := dev.Live(); buffers != 0 {
		t.Errorf("live buffers after dispose = %d", buffers)
	}
}

func TestContextOptions(t *testing.T) {
	o := defaultOptions()
	if o.garbageInterval != DefaultGarbageInterval || o.sampleCount != 1 || o.colorSet {
		t.Errorf("defaults = %+v", o)
	}
	for _, opt := range []ContextOption{
		WithLightCount(4),
		WithClipPlaneCount(2),
		WithGarbageInterval(time.Minute),
		WithProgramLimit(8),
		WithColorFormat(gpucore.TextureFormatRGBA8Unorm),
		WithSampleCount(4),
	} {
		opt(&o)
	}
	if o.lights != 4 || o.clipPlanes != 2 || o.garbageInterval != time.Minute || o.programLimit != 8 {
		t.Errorf("counts = %+v", o)
	}
	if o.colorFormat != gpucore.TextureFormatRGBA8Unorm || !o.colorSet || o.sampleCount != 4 {
		t.Errorf("formats = %+v", o)
	}
}
