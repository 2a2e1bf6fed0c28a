// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d/gpucore"
)

// Render pass errors, reported by RenderPass.Err.
var (
	// ErrUnknownPipeline is recorded when SetPipeline receives an untracked ID.
	ErrUnknownPipeline = errors.New("native: unknown render pipeline")

	// ErrNoPipeline is recorded when a draw is issued before SetPipeline.
	ErrNoPipeline = errors.New("native: draw without pipeline")

	// ErrNoIndexBuffer is recorded when DrawIndexed is issued without an index buffer.
	ErrNoIndexBuffer = errors.New("native: indexed draw without index buffer")
)

// RenderPass adapts a hal.RenderPassEncoder to gpucore.RenderPass, resolving
// gpucore IDs through the adapter that created them.
//
// gpucore.RenderPass methods do not return errors. A command that references
// an unknown ID is dropped and the first such failure is kept for Err.
//
// Thread Safety:
// RenderPass is NOT safe for concurrent use. All commands must be recorded
// from a single goroutine.
type RenderPass struct {
	adapter *HALAdapter
	enc     hal.RenderPassEncoder

	hasPipeline    bool
	hasIndexBuffer bool
	draws          int
	err            error
}

// WrapRenderPass returns a gpucore.RenderPass recording into enc.
func (a *HALAdapter) WrapRenderPass(enc hal.RenderPassEncoder) *RenderPass {
	return &RenderPass{adapter: a, enc: enc}
}

// Encoder returns the wrapped HAL encoder, for commands such as SetBindGroup
// that gpucore does not model.
func (p *RenderPass) Encoder() hal.RenderPassEncoder { return p.enc }

// Err returns the first recording failure, or nil.
func (p *RenderPass) Err() error { return p.err }

// Draws returns the number of draw calls forwarded to the encoder.
func (p *RenderPass) Draws() int { return p.draws }

func (p *RenderPass) fail(err error) {
	if p.err == nil {
		p.err = err
		Logger().Warn("native: render pass command dropped", "err", err)
	}
}

// SetPipeline binds a render pipeline for subsequent draw calls.
func (p *RenderPass) SetPipeline(id gpucore.RenderPipelineID) {
	pipeline, ok := p.adapter.lookupPipeline(id)
	if !ok {
		p.fail(fmt.Errorf("set pipeline: %w: %d", ErrUnknownPipeline, id))
		return
	}
	p.enc.SetPipeline(pipeline)
	p.hasPipeline = true
}

// SetVertexBuffer binds a vertex buffer to a slot.
func (p *RenderPass) SetVertexBuffer(slot uint32, id gpucore.BufferID, offset uint64) {
	buffer, ok := p.adapter.lookupBuffer(id)
	if !ok {
		p.fail(fmt.Errorf("set vertex buffer %d: %w: %d", slot, ErrUnknownBuffer, id))
		return
	}
	p.enc.SetVertexBuffer(slot, buffer, offset)
}

// SetIndexBuffer binds the index buffer for indexed draw calls.
func (p *RenderPass) SetIndexBuffer(id gpucore.BufferID, format gpucore.IndexFormat, offset uint64) {
	buffer, ok := p.adapter.lookupBuffer(id)
	if !ok {
		p.fail(fmt.Errorf("set index buffer: %w: %d", ErrUnknownBuffer, id))
		return
	}
	p.enc.SetIndexBuffer(buffer, convertIndexFormat(format), offset)
	p.hasIndexBuffer = true
}

// Draw issues a non-indexed draw.
func (p *RenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if !p.hasPipeline {
		p.fail(ErrNoPipeline)
		return
	}
	p.enc.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
	p.draws++
}

// DrawIndexed issues an indexed draw.
func (p *RenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	if !p.hasPipeline {
		p.fail(ErrNoPipeline)
		return
	}
	if !p.hasIndexBuffer {
		p.fail(ErrNoIndexBuffer)
		return
	}
	p.enc.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
	p.draws++
}

// Compile-time interface check.
var _ gpucore.RenderPass = (*RenderPass)(nil)
