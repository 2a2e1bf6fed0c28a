// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import (
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/shader"
)

// Program is a linked shader program and its binding table.
type Program struct {
	features   shader.Features
	source     shader.Source
	vertex     gpucore.ShaderModuleID
	fragment   gpucore.ShaderModuleID
	pipeline   gpucore.RenderPipelineID
	attributes []gpucore.VertexAttribute
	bindings   []gpucore.Binding
}

// Features returns the descriptor the program was built from, with the
// cache's light and clip-plane counts applied.
func (p *Program) Features() shader.Features { return p.features }

// Source returns the generated WGSL.
func (p *Program) Source() shader.Source { return p.source }

// Pipeline returns the render pipeline ID.
func (p *Program) Pipeline() gpucore.RenderPipelineID { return p.pipeline }

// Attributes returns the vertex inputs in buffer slot order.
func (p *Program) Attributes() []gpucore.VertexAttribute {
	return append([]gpucore.VertexAttribute(nil), p.attributes...)
}

// Bindings returns the uniform, texture and sampler bindings.
func (p *Program) Bindings() []gpucore.Binding {
	return append([]gpucore.Binding(nil), p.bindings...)
}

// Slot returns the vertex buffer slot fed by the named attribute.
func (p *Program) Slot(name string) (uint32, bool) {
	for i, a := range p.attributes {
		if a.Name == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// StreamSlot returns the vertex buffer slot fed by a per-vertex stream.
func (p *Program) StreamSlot(s gpucore.Stream) (uint32, bool) {
	for i, a := range p.attributes {
		if a.Stream == s && a.StepMode == gpucore.StepModeVertex {
			return uint32(i), true
		}
	}
	return 0, false
}

// Binding returns the named binding.
func (p *Program) Binding(name string) (gpucore.Binding, bool) {
	for _, b := range p.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return gpucore.Binding{}, false
}

// Bind sets the program's pipeline on the pass.
func (p *Program) Bind(pass gpucore.RenderPass) {
	pass.SetPipeline(p.pipeline)
}

// destroy releases the program's GPU objects.
func (p *Program) destroy(device gpucore.Device) {
	device.DestroyRenderPipeline(p.pipeline)
	device.DestroyShaderModule(p.fragment)
	device.DestroyShaderModule(p.vertex)
	p.pipeline = gpucore.InvalidID
	p.vertex = gpucore.InvalidID
	p.fragment = gpucore.InvalidID
}

var _ gpucore.StreamSlots = (*Program)(nil)
