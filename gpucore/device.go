// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

// VertexAttribute describes one shader input bound to its own vertex buffer
// slot. The slot of an attribute is its index in RenderPipelineDesc.Attributes.
type VertexAttribute struct {
	// Name is the WGSL identifier of the input.
	Name string

	// Location is the @location index in the vertex shader.
	Location uint32

	// Format is the element type.
	Format VertexFormat

	// StepMode is per-vertex or per-instance.
	StepMode StepMode

	// Stream is the per-vertex stream feeding this attribute, or StreamNone
	// for instance attributes.
	Stream Stream
}

// Binding describes one resource binding of a pipeline.
type Binding struct {
	// Name is the WGSL variable name.
	Name string

	// Group and Binding are the @group and @binding indices.
	Group   uint32
	Binding uint32

	// Type is the binding type.
	Type BindingType

	// Visibility is the set of stages that read the binding.
	Visibility ShaderStage

	// Size is the minimum buffer size for uniform bindings, 0 otherwise.
	Size uint64
}

// ShaderModuleDesc describes a shader module to create.
type ShaderModuleDesc struct {
	// Label is a debug label.
	Label string

	// Stage is the pipeline stage of the module entry point.
	Stage ShaderStage

	// WGSL is the shader source.
	WGSL string
}

// BufferDesc describes a buffer to create.
type BufferDesc struct {
	// Label is a debug label.
	Label string

	// Size is the buffer size in bytes.
	Size uint64

	// Usage specifies how the buffer will be used.
	Usage BufferUsage
}

// RenderPipelineDesc describes a render pipeline to link.
type RenderPipelineDesc struct {
	// Label is a debug label.
	Label string

	// VertexModule and FragmentModule are the compiled stages.
	VertexModule   ShaderModuleID
	FragmentModule ShaderModuleID

	// VertexEntry and FragmentEntry are the entry point names.
	VertexEntry   string
	FragmentEntry string

	// Attributes are the vertex inputs, one buffer slot each.
	Attributes []VertexAttribute

	// Bindings are the uniform, texture and sampler bindings.
	Bindings []Binding

	// ColorFormat is the format of the single color target.
	ColorFormat TextureFormat

	// DepthFormat is the depth target format, 0 for none.
	DepthFormat TextureFormat
}

// Device is the resource interface implemented by GPU backends.
//
// Create methods return InvalidID together with a non-nil error on failure.
// Destroy methods ignore InvalidID and unknown IDs.
type Device interface {
	// CreateShaderModule compiles a shader module from WGSL source.
	CreateShaderModule(desc *ShaderModuleDesc) (ShaderModuleID, error)

	// DestroyShaderModule releases a shader module.
	DestroyShaderModule(id ShaderModuleID)

	// CreateRenderPipeline links a render pipeline.
	CreateRenderPipeline(desc *RenderPipelineDesc) (RenderPipelineID, error)

	// DestroyRenderPipeline releases a render pipeline.
	DestroyRenderPipeline(id RenderPipelineID)

	// CreateBuffer allocates a buffer.
	CreateBuffer(desc *BufferDesc) (BufferID, error)

	// DestroyBuffer releases a buffer.
	DestroyBuffer(id BufferID)

	// WriteBuffer writes data into a buffer at the given byte offset.
	WriteBuffer(id BufferID, offset uint64, data []byte) error
}

// RenderPass records draw commands. It is the part of a render pass encoder
// that program and geometry binding need.
type RenderPass interface {
	// SetPipeline sets the active render pipeline.
	SetPipeline(id RenderPipelineID)

	// SetVertexBuffer binds a byte range starting at offset of a buffer to a slot.
	SetVertexBuffer(slot uint32, id BufferID, offset uint64)

	// SetIndexBuffer binds an index buffer.
	SetIndexBuffer(id BufferID, format IndexFormat, offset uint64)

	// Draw issues a non-indexed draw.
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)

	// DrawIndexed issues an indexed draw.
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

// StreamSlots maps per-vertex streams to the vertex buffer slots of a
// pipeline. Streams the pipeline does not read report false.
type StreamSlots interface {
	StreamSlot(s Stream) (uint32, bool)
}
