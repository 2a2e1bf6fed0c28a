// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package native implements gpucore.Device on top of the gogpu/wgpu HAL.
package native

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d/gpucore"
	inative "github.com/gogpu/g3d/internal/native"
)

// ShaderFormat selects how WGSL reaches the HAL.
type ShaderFormat uint8

const (
	// ShaderFormatSPIRV compiles WGSL to SPIR-V with naga before module
	// creation. Compiler diagnostics surface from CreateShaderModule.
	ShaderFormatSPIRV ShaderFormat = iota

	// ShaderFormatWGSL validates WGSL with naga and hands the text to the
	// HAL unchanged.
	ShaderFormatWGSL
)

// String returns the string representation of the shader format.
func (f ShaderFormat) String() string {
	switch f {
	case ShaderFormatSPIRV:
		return "spirv"
	case ShaderFormatWGSL:
		return "wgsl"
	default:
		return fmt.Sprintf("ShaderFormat(%d)", int(f))
	}
}

// Option configures a HALAdapter.
type Option func(*HALAdapter)

// WithShaderFormat selects the shader format handed to the HAL.
func WithShaderFormat(f ShaderFormat) Option {
	return func(a *HALAdapter) {
		a.shaderFormat = f
	}
}

// WithSampleCount sets the multisample count of created pipelines.
// Values below 1 are ignored.
func WithSampleCount(n uint32) Option {
	return func(a *HALAdapter) {
		if n >= 1 {
			a.sampleCount = n
		}
	}
}

// HALAdapter implements gpucore.Device using gogpu/wgpu/hal directly.
// It maps opaque gpucore IDs to HAL objects.
//
// Thread Safety: HALAdapter is safe for concurrent use from multiple goroutines.
// The ID maps are protected by a mutex; HAL calls happen outside of it.
type HALAdapter struct {
	mu     sync.RWMutex
	device hal.Device
	queue  hal.Queue

	shaderFormat ShaderFormat
	sampleCount  uint32

	// ID generation
	nextID atomic.Uint64

	// Resource tracking maps gpucore IDs to hal resources
	buffers       map[gpucore.BufferID]*bufferEntry
	shaderModules map[gpucore.ShaderModuleID]hal.ShaderModule
	pipelines     map[gpucore.RenderPipelineID]*pipelineResources
}

type bufferEntry struct {
	buffer hal.Buffer
	size   uint64
}

// NewHALAdapter creates a new HALAdapter wrapping the given device and queue.
func NewHALAdapter(device hal.Device, queue hal.Queue, opts ...Option) *HALAdapter {
	a := &HALAdapter{
		device:        device,
		queue:         queue,
		shaderFormat:  ShaderFormatSPIRV,
		sampleCount:   1,
		buffers:       make(map[gpucore.BufferID]*bufferEntry),
		shaderModules: make(map[gpucore.ShaderModuleID]hal.ShaderModule),
		pipelines:     make(map[gpucore.RenderPipelineID]*pipelineResources),
	}
	for _, opt := range opts {
		opt(a)
	}

	// Start ID generation at 1 (0 is invalid)
	a.nextID.Store(1)

	return a
}

// newID generates a unique resource ID.
func (a *HALAdapter) newID() uint64 {
	return a.nextID.Add(1) - 1
}

// Device returns the wrapped HAL device.
func (a *HALAdapter) Device() hal.Device { return a.device }

// ShaderFormat returns the configured shader format.
func (a *HALAdapter) ShaderFormat() ShaderFormat { return a.shaderFormat }

// === Shader Modules ===

// CreateShaderModule compiles WGSL and creates a HAL shader module.
// Compiler failures are returned as *ShaderError.
func (a *HALAdapter) CreateShaderModule(desc *gpucore.ShaderModuleDesc) (gpucore.ShaderModuleID, error) {
	if desc == nil {
		return gpucore.InvalidID, ErrNilDescriptor
	}

	var source hal.ShaderSource
	switch a.shaderFormat {
	case ShaderFormatSPIRV:
		words, err := inative.CompileWGSL(desc.WGSL)
		if err != nil {
			return gpucore.InvalidID, &ShaderError{Label: desc.Label, Stage: desc.Stage, Err: err}
		}
		source.SPIRV = words
	case ShaderFormatWGSL:
		if err := inative.Validate(desc.WGSL); err != nil {
			return gpucore.InvalidID, &ShaderError{Label: desc.Label, Stage: desc.Stage, Err: err}
		}
		source.WGSL = desc.WGSL
	default:
		return gpucore.InvalidID, fmt.Errorf("native: unknown shader format %v", a.shaderFormat)
	}

	module, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: source,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("create shader module %q: %w", desc.Label, err)
	}

	id := gpucore.ShaderModuleID(a.newID())

	a.mu.Lock()
	a.shaderModules[id] = module
	a.mu.Unlock()

	Logger().Debug("native: shader module created",
		"label", desc.Label, "stage", desc.Stage.String(), "format", a.shaderFormat.String())
	return id, nil
}

// DestroyShaderModule releases a shader module.
func (a *HALAdapter) DestroyShaderModule(id gpucore.ShaderModuleID) {
	a.mu.Lock()
	module, ok := a.shaderModules[id]
	if ok {
		delete(a.shaderModules, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyShaderModule(module)
	}
}

// === Render Pipelines ===

// CreateRenderPipeline creates bind group layouts, a pipeline layout and the
// render pipeline described by desc. On failure every object created so far
// is destroyed.
func (a *HALAdapter) CreateRenderPipeline(desc *gpucore.RenderPipelineDesc) (gpucore.RenderPipelineID, error) {
	if desc == nil {
		return gpucore.InvalidID, ErrNilDescriptor
	}

	a.mu.RLock()
	vs, vsOK := a.shaderModules[desc.VertexModule]
	fs, fsOK := a.shaderModules[desc.FragmentModule]
	a.mu.RUnlock()
	if !vsOK || !fsOK {
		return gpucore.InvalidID, fmt.Errorf("%w: vertex=%d fragment=%d", ErrUnknownShaderModule,
			desc.VertexModule, desc.FragmentModule)
	}

	res := &pipelineResources{device: a.device}

	groups, err := groupEntries(desc.Bindings)
	if err != nil {
		return gpucore.InvalidID, err
	}
	for g, entries := range groups {
		layout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s_group%d", desc.Label, g),
			Entries: entries,
		})
		if err != nil {
			res.destroy()
			return gpucore.InvalidID, fmt.Errorf("create bind group layout %d for %q: %w", g, desc.Label, err)
		}
		res.bindLayouts = append(res.bindLayouts, layout)
	}

	res.pipeLayout, err = a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_layout",
		BindGroupLayouts: res.bindLayouts,
	})
	if err != nil {
		res.destroy()
		return gpucore.InvalidID, fmt.Errorf("create pipeline layout for %q: %w", desc.Label, err)
	}

	buffers, err := vertexBufferLayouts(desc.Attributes)
	if err != nil {
		res.destroy()
		return gpucore.InvalidID, err
	}

	colorFormat, err := convertTextureFormat(desc.ColorFormat)
	if err != nil {
		res.destroy()
		return gpucore.InvalidID, err
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeDesc := &hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: res.pipeLayout,
		Vertex: hal.VertexState{
			Module:     vs,
			EntryPoint: desc.VertexEntry,
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     fs,
			EntryPoint: desc.FragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    colorFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: a.sampleCount,
			Mask:  0xFFFFFFFF,
		},
	}
	if desc.DepthFormat != 0 {
		depthFormat, err := convertTextureFormat(desc.DepthFormat)
		if err != nil {
			res.destroy()
			return gpucore.InvalidID, err
		}
		pipeDesc.DepthStencil = depthState(depthFormat)
	}

	res.pipeline, err = a.device.CreateRenderPipeline(pipeDesc)
	if err != nil {
		res.destroy()
		return gpucore.InvalidID, fmt.Errorf("create render pipeline %q: %w", desc.Label, err)
	}

	id := gpucore.RenderPipelineID(a.newID())

	a.mu.Lock()
	a.pipelines[id] = res
	a.mu.Unlock()

	Logger().Debug("native: render pipeline created",
		"label", desc.Label, "attributes", len(desc.Attributes), "groups", len(groups))
	return id, nil
}

// DestroyRenderPipeline releases a render pipeline and its layouts.
func (a *HALAdapter) DestroyRenderPipeline(id gpucore.RenderPipelineID) {
	a.mu.Lock()
	res, ok := a.pipelines[id]
	if ok {
		delete(a.pipelines, id)
	}
	a.mu.Unlock()

	if ok {
		res.destroy()
	}
}

// BindGroupLayouts returns the HAL bind group layouts of a pipeline, indexed
// by group, so callers can create matching bind groups.
func (a *HALAdapter) BindGroupLayouts(id gpucore.RenderPipelineID) []hal.BindGroupLayout {
	a.mu.RLock()
	defer a.mu.RUnlock()
	res, ok := a.pipelines[id]
	if !ok {
		return nil
	}
	return append([]hal.BindGroupLayout(nil), res.bindLayouts...)
}

// === Buffer Management ===

// CreateBuffer creates a GPU buffer.
func (a *HALAdapter) CreateBuffer(desc *gpucore.BufferDesc) (gpucore.BufferID, error) {
	if desc == nil {
		return gpucore.InvalidID, ErrNilDescriptor
	}
	if desc.Size == 0 {
		return gpucore.InvalidID, ErrZeroSize
	}

	buffer, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: convertBufferUsage(desc.Usage),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("create buffer %q: %w", desc.Label, err)
	}

	id := gpucore.BufferID(a.newID())

	a.mu.Lock()
	a.buffers[id] = &bufferEntry{buffer: buffer, size: desc.Size}
	a.mu.Unlock()

	return id, nil
}

// DestroyBuffer releases a GPU buffer.
func (a *HALAdapter) DestroyBuffer(id gpucore.BufferID) {
	a.mu.Lock()
	entry, ok := a.buffers[id]
	if ok {
		delete(a.buffers, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyBuffer(entry.buffer)
	}
}

// WriteBuffer writes data to a buffer through the queue.
func (a *HALAdapter) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	a.mu.RLock()
	entry, ok := a.buffers[id]
	a.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, id)
	}
	if offset+uint64(len(data)) > entry.size {
		return fmt.Errorf("%w: write [%d, %d) into %d bytes", ErrOutOfRange,
			offset, offset+uint64(len(data)), entry.size)
	}
	if len(data) == 0 {
		return nil
	}
	if err := a.queue.WriteBuffer(entry.buffer, offset, data); err != nil {
		return fmt.Errorf("write buffer %d: %w", id, err)
	}
	return nil
}

// Stats reports the number of live objects by kind.
type Stats struct {
	Buffers       int
	ShaderModules int
	Pipelines     int
}

// Stats returns the number of live objects tracked by the adapter.
func (a *HALAdapter) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Stats{
		Buffers:       len(a.buffers),
		ShaderModules: len(a.shaderModules),
		Pipelines:     len(a.pipelines),
	}
}

// Destroy releases every object still tracked by the adapter. The device
// and queue are not destroyed.
func (a *HALAdapter) Destroy() {
	a.mu.Lock()
	buffers := a.buffers
	modules := a.shaderModules
	pipelines := a.pipelines
	a.buffers = make(map[gpucore.BufferID]*bufferEntry)
	a.shaderModules = make(map[gpucore.ShaderModuleID]hal.ShaderModule)
	a.pipelines = make(map[gpucore.RenderPipelineID]*pipelineResources)
	a.mu.Unlock()

	for _, res := range pipelines {
		res.destroy()
	}
	for _, m := range modules {
		a.device.DestroyShaderModule(m)
	}
	for _, b := range buffers {
		a.device.DestroyBuffer(b.buffer)
	}
	if n := len(buffers) + len(modules) + len(pipelines); n > 0 {
		Logger().Debug("native: adapter destroyed live objects", "count", n)
	}
}

// lookupBuffer returns the HAL buffer for id.
func (a *HALAdapter) lookupBuffer(id gpucore.BufferID) (hal.Buffer, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	entry, ok := a.buffers[id]
	if !ok {
		return nil, false
	}
	return entry.buffer, true
}

// lookupPipeline returns the HAL render pipeline for id.
func (a *HALAdapter) lookupPipeline(id gpucore.RenderPipelineID) (hal.RenderPipeline, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	res, ok := a.pipelines[id]
	if !ok {
		return nil, false
	}
	return res.pipeline, true
}

// pipelineResources groups the HAL objects owned by one render pipeline.
type pipelineResources struct {
	device      hal.Device
	bindLayouts []hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	pipeline    hal.RenderPipeline
}

// destroy releases the resources in reverse creation order.
func (r *pipelineResources) destroy() {
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	for i := len(r.bindLayouts) - 1; i >= 0; i-- {
		if r.bindLayouts[i] != nil {
			r.device.DestroyBindGroupLayout(r.bindLayouts[i])
		}
	}
	r.bindLayouts = nil
}

// depthState returns a depth-tested, depth-writing state that leaves the
// stencil buffer untouched.
func depthState(format gputypes.TextureFormat) *hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: true,
		DepthCompare:      gputypes.CompareFunctionLess,
		StencilFront:      keep,
		StencilBack:       keep,
		StencilReadMask:   0x00,
		StencilWriteMask:  0x00,
	}
}

// Compile-time interface check.
var _ gpucore.Device = (*HALAdapter)(nil)
