// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gputest

import (
	"fmt"

	"github.com/gogpu/g3d/gpucore"
)

// Pass is a gpucore.RenderPass that records commands as strings, e.g.
// "vertex 0 12 @0" or "drawIndexed 36 1".
type Pass struct {
	Calls []string
}

// SetPipeline records a pipeline bind.
func (p *Pass) SetPipeline(id gpucore.RenderPipelineID) {
	p.Calls = append(p.Calls, fmt.Sprintf("pipeline %d", id))
}

// SetVertexBuffer records a vertex buffer bind.
func (p *Pass) SetVertexBuffer(slot uint32, id gpucore.BufferID, offset uint64) {
	p.Calls = append(p.Calls, fmt.Sprintf("vertex %d %d @%d", slot, id, offset))
}

// SetIndexBuffer records an index buffer bind.
func (p *Pass) SetIndexBuffer(id gpucore.BufferID, format gpucore.IndexFormat, offset uint64) {
	p.Calls = append(p.Calls, fmt.Sprintf("index %d fmt%d @%d", id, format, offset))
}

// Draw records a non-indexed draw.
func (p *Pass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.Calls = append(p.Calls, fmt.Sprintf("draw %d %d", vertexCount, instanceCount))
}

// DrawIndexed records an indexed draw.
func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.Calls = append(p.Calls, fmt.Sprintf("drawIndexed %d %d", indexCount, instanceCount))
}

// Reset clears the recorded commands.
func (p *Pass) Reset() { p.Calls = p.Calls[:0] }

var _ gpucore.RenderPass = (*Pass)(nil)
