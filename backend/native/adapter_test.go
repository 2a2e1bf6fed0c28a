// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/shader"
)

// newNoopAdapter creates a HALAdapter over a noop device.
func newNoopAdapter(t *testing.T, opts ...Option) *HALAdapter {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	a := NewHALAdapter(openDev.Device, openDev.Queue, opts...)
	t.Cleanup(func() {
		a.Destroy()
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return a
}

// createProgram builds the modules and pipeline of a generated variant.
func createProgram(t *testing.T, a *HALAdapter, f shader.Features) gpucore.RenderPipelineID {
	t.Helper()
	src := shader.Generate(f)
	vs, err := a.CreateShaderModule(&gpucore.ShaderModuleDesc{Label: "vs", Stage: gpucore.ShaderStageVertex, WGSL: src.Vertex})
	if err != nil {
		t.Fatalf("vertex module: %v", err)
	}
	fs, err := a.CreateShaderModule(&gpucore.ShaderModuleDesc{Label: "fs", Stage: gpucore.ShaderStageFragment, WGSL: src.Fragment})
	if err != nil {
		t.Fatalf("fragment module: %v", err)
	}
	id, err := a.CreateRenderPipeline(&gpucore.RenderPipelineDesc{
		Label:          f.String(),
		VertexModule:   vs,
		FragmentModule: fs,
		VertexEntry:    shader.VertexEntry,
		FragmentEntry:  shader.FragmentEntry,
		Attributes:     shader.Attributes(f),
		Bindings:       shader.Bindings(f),
		ColorFormat:    gpucore.TextureFormatBGRA8Unorm,
		DepthFormat:    gpucore.TextureFormatDepth24PlusStencil8,
	})
	if err != nil {
		t.Fatalf("CreateRenderPipeline: %v", err)
	}
	return id
}

func TestShaderFormatString(t *testing.T) {
	tests := []struct {
		f    ShaderFormat
		want string
	}{
		{ShaderFormatSPIRV, "spirv"},
		{ShaderFormatWGSL, "wgsl"},
		{ShaderFormat(7), "ShaderFormat(7)"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestHALAdapterOptions(t *testing.T) {
	a := newNoopAdapter(t, WithShaderFormat(ShaderFormatWGSL), WithSampleCount(0))
	if a.ShaderFormat() != ShaderFormatWGSL {
		t.Errorf("ShaderFormat = %v", a.ShaderFormat())
	}
	if a.sampleCount != 1 {
		t.Errorf("sampleCount = %d, want 1", a.sampleCount)
	}
	if b := newNoopAdapter(t, WithSampleCount(4)); b.sampleCount != 4 {
		t.Errorf("sampleCount = %d, want 4", b.sampleCount)
	}
}

func TestHALAdapterPipeline(t *testing.T) {
	for _, format := range []ShaderFormat{ShaderFormatSPIRV, ShaderFormatWGSL} {
		t.Run(format.String(), func(t *testing.T) {
			a := newNoopAdapter(t, WithShaderFormat(format))
			f := shader.NewFeatures().
				WithShading(shader.ShadingSmoothPerFragment).
				WithLights(2).
				WithClipPlanes(1).
				WithColor(shader.ColorRGB).
				WithTexture(shader.TextureModulate).
				WithInstancing(shader.InstancingFrames)

			id := createProgram(t, a, f)
			if id == gpucore.InvalidID {
				t.Fatal("InvalidID returned without error")
			}
			if st := a.Stats(); st.Pipelines != 1 || st.ShaderModules != 2 {
				t.Errorf("Stats = %+v", st)
			}
			if n := len(a.BindGroupLayouts(id)); n != 3 {
				t.Errorf("bind group layouts = %d, want 3", n)
			}

			a.DestroyRenderPipeline(id)
			a.DestroyRenderPipeline(id)
			if a.BindGroupLayouts(id) != nil {
				t.Error("layouts still reported after destroy")
			}
			if st := a.Stats(); st.Pipelines != 0 {
				t.Errorf("Stats after destroy = %+v", st)
			}
		})
	}
}

func TestHALAdapterShaderError(t *testing.T) {
	a := newNoopAdapter(t)
	_, err := a.CreateShaderModule(&gpucore.ShaderModuleDesc{
		Label: "broken",
		Stage: gpucore.ShaderStageFragment,
		WGSL:  "fn broken( {",
	})
	if !errors.Is(err, ErrShaderCompile) {
		t.Fatalf("error = %v, want ErrShaderCompile", err)
	}
	var serr *ShaderError
	if !errors.As(err, &serr) {
		t.Fatalf("error %T is not *ShaderError", err)
	}
	if serr.Stage != gpucore.ShaderStageFragment || serr.Diagnostic() == "" {
		t.Errorf("ShaderError = %+v, diagnostic %q", serr, serr.Diagnostic())
	}
	if st := a.Stats(); st.ShaderModules != 0 {
		t.Errorf("failed compile tracked a module: %+v", st)
	}

	if _, err := a.CreateShaderModule(nil); !errors.Is(err, ErrNilDescriptor) {
		t.Errorf("nil descriptor error = %v", err)
	}
}

func TestHALAdapterUnknownModule(t *testing.T) {
	a := newNoopAdapter(t)
	_, err := a.CreateRenderPipeline(&gpucore.RenderPipelineDesc{
		VertexModule:   42,
		FragmentModule: 43,
		ColorFormat:    gpucore.TextureFormatRGBA8Unorm,
	})
	if !errors.Is(err, ErrUnknownShaderModule) {
		t.Errorf("error = %v, want ErrUnknownShaderModule", err)
	}
}

func TestHALAdapterBuffers(t *testing.T) {
	a := newNoopAdapter(t)

	if _, err := a.CreateBuffer(&gpucore.BufferDesc{Size: 0}); !errors.Is(err, ErrZeroSize) {
		t.Errorf("zero size error = %v", err)
	}

	id, err := a.CreateBuffer(&gpucore.BufferDesc{
		Label: "positions",
		Size:  64,
		Usage: gpucore.BufferUsageVertex | gpucore.BufferUsageCopyDst,
	})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if err := a.WriteBuffer(id, 16, make([]byte, 48)); err != nil {
		t.Errorf("WriteBuffer in range: %v", err)
	}
	if err := a.WriteBuffer(id, 32, make([]byte, 48)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("out of range error = %v", err)
	}
	if err := a.WriteBuffer(id+100, 0, []byte{1}); !errors.Is(err, ErrUnknownBuffer) {
		t.Errorf("unknown buffer error = %v", err)
	}

	a.DestroyBuffer(id)
	a.DestroyBuffer(gpucore.InvalidID)
	if err := a.WriteBuffer(id, 0, []byte{1}); !errors.Is(err, ErrUnknownBuffer) {
		t.Errorf("write after destroy error = %v", err)
	}
}

func TestHALAdapterDestroy(t *testing.T) {
	a := newNoopAdapter(t)
	createProgram(t, a, shader.NewFeatures())
	if _, err := a.CreateBuffer(&gpucore.BufferDesc{Size: 4, Usage: gpucore.BufferUsageUniform}); err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	a.Destroy()
	if st := a.Stats(); st != (Stats{}) {
		t.Errorf("Stats after Destroy = %+v", st)
	}
}

func TestHALAdapterUniqueIDs(t *testing.T) {
	a := newNoopAdapter(t)
	seen := make(map[gpucore.BufferID]bool)
	for range 16 {
		id, err := a.CreateBuffer(&gpucore.BufferDesc{Size: 4, Usage: gpucore.BufferUsageVertex})
		if err != nil {
			t.Fatalf("CreateBuffer: %v", err)
		}
		if id == gpucore.InvalidID || seen[id] {
			t.Fatalf("duplicate or invalid id %d", id)
		}
		seen[id] = true
	}
}

func TestVertexBufferLayouts(t *testing.T) {
	f := shader.NewFeatures().WithShading(shader.ShadingFlatPerVertex).WithInstancing(shader.InstancingAffines)
	attrs := shader.Attributes(f)
	layouts, err := vertexBufferLayouts(attrs)
	if err != nil {
		t.Fatalf("vertexBufferLayouts: %v", err)
	}
	if len(layouts) != len(attrs) {
		t.Fatalf("layouts = %d, want %d", len(layouts), len(attrs))
	}
	for i, l := range layouts {
		if l.ArrayStride != attrs[i].Format.Size() {
			t.Errorf("slot %d stride = %d", i, l.ArrayStride)
		}
		if l.Attributes[0].ShaderLocation != attrs[i].Location {
			t.Errorf("slot %d location = %d", i, l.Attributes[0].ShaderLocation)
		}
		wantStep := gputypes.VertexStepModeVertex
		if attrs[i].StepMode == gpucore.StepModeInstance {
			wantStep = gputypes.VertexStepModeInstance
		}
		if l.StepMode != wantStep {
			t.Errorf("slot %d step mode = %v", i, l.StepMode)
		}
	}

	if _, err := vertexBufferLayouts([]gpucore.VertexAttribute{{Name: "bad", Format: 99}}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("bad format error = %v", err)
	}
}

func TestGroupEntries(t *testing.T) {
	groups, err := groupEntries([]gpucore.Binding{
		{Name: "tex", Group: 2, Binding: 0, Type: gpucore.BindingTypeSampledTexture, Visibility: gpucore.ShaderStageFragment},
		{Name: "frame", Group: 0, Binding: 0, Type: gpucore.BindingTypeUniformBuffer, Visibility: gpucore.ShaderStageVertex, Size: 192},
	})
	if err != nil {
		t.Fatalf("groupEntries: %v", err)
	}
	if len(groups) != 3 || len(groups[1]) != 0 {
		t.Fatalf("groups = %v, want a gap at group 1", groups)
	}
	if groups[0][0].Buffer == nil || groups[0][0].Buffer.MinBindingSize != 192 {
		t.Errorf("frame entry = %+v", groups[0][0])
	}
	if groups[2][0].Texture == nil {
		t.Errorf("texture entry = %+v", groups[2][0])
	}

	_, err = groupEntries([]gpucore.Binding{
		{Name: "a", Type: gpucore.BindingTypeUniformBuffer},
		{Name: "b", Type: gpucore.BindingTypeUniformBuffer},
	})
	if !errors.Is(err, ErrBindingConflict) {
		t.Errorf("conflict error = %v", err)
	}

	if groups, err := groupEntries(nil); err != nil || groups != nil {
		t.Errorf("groupEntries(nil) = %v, %v", groups, err)
	}
}

func TestConvertTextureFormat(t *testing.T) {
	for _, f := range []gpucore.TextureFormat{
		gpucore.TextureFormatRGBA8Unorm,
		gpucore.TextureFormatBGRA8Unorm,
		gpucore.TextureFormatDepth24PlusStencil8,
		gpucore.TextureFormatDepth32Float,
	} {
		if _, err := convertTextureFormat(f); err != nil {
			t.Errorf("convertTextureFormat(%d): %v", f, err)
		}
	}
	if _, err := convertTextureFormat(0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("undefined format error = %v", err)
	}
}

func TestConvertBufferUsage(t *testing.T) {
	got := convertBufferUsage(gpucore.BufferUsageVertex | gpucore.BufferUsageIndex | gpucore.BufferUsageCopyDst)
	want := gputypes.BufferUsageVertex | gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst
	if got != want {
		t.Errorf("convertBufferUsage = %v, want %v", got, want)
	}
}

// recordingEncoder records the commands forwarded by RenderPass.
type recordingEncoder struct {
	hal.RenderPassEncoder
	calls []string
}

func (e *recordingEncoder) SetPipeline(hal.RenderPipeline) { e.calls = append(e.calls, "pipeline") }

func (e *recordingEncoder) SetVertexBuffer(uint32, hal.Buffer, uint64) {
	e.calls = append(e.calls, "vertex")
}

func (e *recordingEncoder) SetIndexBuffer(hal.Buffer, gputypes.IndexFormat, uint64) {
	e.calls = append(e.calls, "index")
}

func (e *recordingEncoder) Draw(uint32, uint32, uint32, uint32) { e.calls = append(e.calls, "draw") }

func (e *recordingEncoder) DrawIndexed(uint32, uint32, uint32, int32, uint32) {
	e.calls = append(e.calls, "drawIndexed")
}

func TestRenderPass(t *testing.T) {
	a := newNoopAdapter(t)
	pipeline := createProgram(t, a, shader.NewFeatures())
	buf, err := a.CreateBuffer(&gpucore.BufferDesc{Size: 36, Usage: gpucore.BufferUsageVertex | gpucore.BufferUsageIndex})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}

	enc := &recordingEncoder{}
	pass := a.WrapRenderPass(enc)
	if pass.Encoder() != enc {
		t.Error("Encoder() does not return the wrapped encoder")
	}

	pass.Draw(3, 1, 0, 0)
	if !errors.Is(pass.Err(), ErrNoPipeline) {
		t.Errorf("Err = %v, want ErrNoPipeline", pass.Err())
	}

	pass = a.WrapRenderPass(enc)
	pass.SetPipeline(pipeline)
	pass.SetVertexBuffer(0, buf, 0)
	pass.DrawIndexed(3, 1, 0, 0, 0)
	if !errors.Is(pass.Err(), ErrNoIndexBuffer) {
		t.Errorf("Err = %v, want ErrNoIndexBuffer", pass.Err())
	}
	pass.SetIndexBuffer(buf, gpucore.IndexFormatUint32, 0)
	pass.DrawIndexed(3, 1, 0, 0, 0)
	pass.Draw(3, 1, 0, 0)
	pass.SetVertexBuffer(1, buf+999, 0)

	want := []string{"pipeline", "vertex", "index", "drawIndexed", "draw"}
	if len(enc.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", enc.calls, want)
	}
	for i := range want {
		if enc.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", enc.calls, want)
		}
	}
	if pass.Draws() != 2 {
		t.Errorf("Draws = %d, want 2", pass.Draws())
	}
	// The first failure is kept.
	if !errors.Is(pass.Err(), ErrNoIndexBuffer) {
		t.Errorf("Err = %v, want ErrNoIndexBuffer", pass.Err())
	}

	unknown := a.WrapRenderPass(enc)
	unknown.SetPipeline(pipeline + 999)
	if !errors.Is(unknown.Err(), ErrUnknownPipeline) {
		t.Errorf("Err = %v, want ErrUnknownPipeline", unknown.Err())
	}
}
