// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gputest provides a recording gpucore.Device for tests that check
// which GPU objects are created, written and destroyed.
package gputest

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/g3d/gpucore"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("gputest: injected failure")

// Write is one recorded WriteBuffer call.
type Write struct {
	Buffer gpucore.BufferID
	Offset uint64
	Size   int
}

// Device is an in-memory gpucore.Device. Buffers keep their contents so
// tests can inspect uploaded bytes.
type Device struct {
	mu     sync.Mutex
	nextID uint64

	buffers   map[gpucore.BufferID]*Buffer
	modules   map[gpucore.ShaderModuleID]*gpucore.ShaderModuleDesc
	pipelines map[gpucore.RenderPipelineID]*gpucore.RenderPipelineDesc

	writes []Write

	// Counters of successful create and destroy calls.
	ModulesCreated, ModulesDestroyed     int
	PipelinesCreated, PipelinesDestroyed int
	BuffersCreated, BuffersDestroyed     int

	// FailShader, when set, makes CreateShaderModule fail for sources
	// containing the string.
	FailShader string

	// FailPipeline makes CreateRenderPipeline fail.
	FailPipeline bool

	// FailBuffer makes CreateBuffer fail.
	FailBuffer bool
}

// Buffer is the recorded state of one buffer.
type Buffer struct {
	Desc gpucore.BufferDesc
	Data []byte
}

// NewDevice returns an empty recording device.
func NewDevice() *Device {
	return &Device{
		buffers:   make(map[gpucore.BufferID]*Buffer),
		modules:   make(map[gpucore.ShaderModuleID]*gpucore.ShaderModuleDesc),
		pipelines: make(map[gpucore.RenderPipelineID]*gpucore.RenderPipelineDesc),
	}
}

func (d *Device) newID() uint64 {
	d.nextID++
	return d.nextID
}

// CreateShaderModule records a shader module.
func (d *Device) CreateShaderModule(desc *gpucore.ShaderModuleDesc) (gpucore.ShaderModuleID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailShader != "" && strings.Contains(desc.WGSL, d.FailShader) {
		return gpucore.InvalidID, fmt.Errorf("%w: %s module %q", ErrInjected, desc.Stage, desc.Label)
	}
	id := gpucore.ShaderModuleID(d.newID())
	cp := *desc
	d.modules[id] = &cp
	d.ModulesCreated++
	return id, nil
}

// DestroyShaderModule forgets a shader module.
func (d *Device) DestroyShaderModule(id gpucore.ShaderModuleID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.modules[id]; ok {
		delete(d.modules, id)
		d.ModulesDestroyed++
	}
}

// CreateRenderPipeline records a render pipeline.
func (d *Device) CreateRenderPipeline(desc *gpucore.RenderPipelineDesc) (gpucore.RenderPipelineID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailPipeline {
		return gpucore.InvalidID, fmt.Errorf("%w: pipeline %q", ErrInjected, desc.Label)
	}
	if _, ok := d.modules[desc.VertexModule]; !ok {
		return gpucore.InvalidID, fmt.Errorf("gputest: unknown vertex module %d", desc.VertexModule)
	}
	if _, ok := d.modules[desc.FragmentModule]; !ok {
		return gpucore.InvalidID, fmt.Errorf("gputest: unknown fragment module %d", desc.FragmentModule)
	}
	id := gpucore.RenderPipelineID(d.newID())
	cp := *desc
	d.pipelines[id] = &cp
	d.PipelinesCreated++
	return id, nil
}

// DestroyRenderPipeline forgets a render pipeline.
func (d *Device) DestroyRenderPipeline(id gpucore.RenderPipelineID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.pipelines[id]; ok {
		delete(d.pipelines, id)
		d.PipelinesDestroyed++
	}
}

// CreateBuffer records a zero-filled buffer.
func (d *Device) CreateBuffer(desc *gpucore.BufferDesc) (gpucore.BufferID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailBuffer {
		return gpucore.InvalidID, fmt.Errorf("%w: buffer %q", ErrInjected, desc.Label)
	}
	if desc.Size == 0 {
		return gpucore.InvalidID, errors.New("gputest: zero-size buffer")
	}
	id := gpucore.BufferID(d.newID())
	d.buffers[id] = &Buffer{Desc: *desc, Data: make([]byte, desc.Size)}
	d.BuffersCreated++
	return id, nil
}

// DestroyBuffer forgets a buffer.
func (d *Device) DestroyBuffer(id gpucore.BufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.buffers[id]; ok {
		delete(d.buffers, id)
		d.BuffersDestroyed++
	}
}

// WriteBuffer copies data into the buffer and records the call.
func (d *Device) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("gputest: unknown buffer %d", id)
	}
	if offset+uint64(len(data)) > uint64(len(b.Data)) {
		return fmt.Errorf("gputest: write [%d, %d) past %d bytes", offset, offset+uint64(len(data)), len(b.Data))
	}
	copy(b.Data[offset:], data)
	d.writes = append(d.writes, Write{Buffer: id, Offset: offset, Size: len(data)})
	return nil
}

// Buffer returns the recorded state of a live buffer, or nil.
func (d *Device) Buffer(id gpucore.BufferID) *Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buffers[id]
}

// Pipeline returns the descriptor of a live pipeline, or nil.
func (d *Device) Pipeline(id gpucore.RenderPipelineID) *gpucore.RenderPipelineDesc {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pipelines[id]
}

// Module returns the descriptor of a live shader module, or nil.
func (d *Device) Module(id gpucore.ShaderModuleID) *gpucore.ShaderModuleDesc {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.modules[id]
}

// Writes returns the recorded writes and clears the log.
func (d *Device) Writes() []Write {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.writes
	d.writes = nil
	return w
}

// Live returns the number of live buffers, modules and pipelines.
func (d *Device) Live() (buffers, modules, pipelines int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buffers), len(d.modules), len(d.pipelines)
}

var _ gpucore.Device = (*Device)(nil)
