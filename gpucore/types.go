// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import "fmt"

// Resource IDs
//
// These opaque IDs represent GPU resources. Each adapter implementation
// maintains a mapping between IDs and actual backend resources.
// IDs are uint64 to accommodate various backend handle sizes.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// ShaderModuleID is an opaque handle to a compiled shader module.
type ShaderModuleID uint64

// RenderPipelineID is an opaque handle to a linked render pipeline.
type RenderPipelineID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageMapRead indicates the buffer can be mapped for reading.
	BufferUsageMapRead BufferUsage = 1 << 0

	// BufferUsageMapWrite indicates the buffer can be mapped for writing.
	BufferUsageMapWrite BufferUsage = 1 << 1

	// BufferUsageCopySrc indicates the buffer can be used as a copy source.
	BufferUsageCopySrc BufferUsage = 1 << 2

	// BufferUsageCopyDst indicates the buffer can be used as a copy destination.
	BufferUsageCopyDst BufferUsage = 1 << 3

	// BufferUsageIndex indicates the buffer can be used as an index buffer.
	BufferUsageIndex BufferUsage = 1 << 4

	// BufferUsageVertex indicates the buffer can be used as a vertex buffer.
	BufferUsageVertex BufferUsage = 1 << 5

	// BufferUsageUniform indicates the buffer can be used as a uniform buffer.
	BufferUsageUniform BufferUsage = 1 << 6

	// BufferUsageStorage indicates the buffer can be used as a storage buffer.
	BufferUsageStorage BufferUsage = 1 << 7

	// BufferUsageIndirect indicates the buffer can be used for indirect draws.
	BufferUsageIndirect BufferUsage = 1 << 8
)

// Contains reports whether all bits of other are set in u.
func (u BufferUsage) Contains(other BufferUsage) bool {
	return u&other == other
}

// TextureFormat specifies the format of a render target.
type TextureFormat uint32

// Texture formats.
const (
	// TextureFormatRGBA8Unorm is 8-bit RGBA, normalized unsigned integer.
	TextureFormatRGBA8Unorm TextureFormat = iota + 1

	// TextureFormatBGRA8Unorm is 8-bit BGRA, normalized unsigned integer.
	TextureFormatBGRA8Unorm

	// TextureFormatDepth24PlusStencil8 is a combined depth/stencil format.
	TextureFormatDepth24PlusStencil8

	// TextureFormatDepth32Float is a 32-bit floating point depth format.
	TextureFormatDepth32Float
)

// IsDepth reports whether f is a depth (or depth/stencil) format.
func (f TextureFormat) IsDepth() bool {
	return f == TextureFormatDepth24PlusStencil8 || f == TextureFormatDepth32Float
}

// VertexFormat is the element type of one vertex attribute.
type VertexFormat uint8

// Vertex formats.
const (
	VertexFormatFloat32 VertexFormat = iota + 1
	VertexFormatFloat32x2
	VertexFormatFloat32x3
	VertexFormatFloat32x4
)

// Size returns the byte size of one element of the format.
func (f VertexFormat) Size() uint64 {
	switch f {
	case VertexFormatFloat32:
		return 4
	case VertexFormatFloat32x2:
		return 8
	case VertexFormatFloat32x3:
		return 12
	case VertexFormatFloat32x4:
		return 16
	default:
		panic(fmt.Sprintf("gpucore: unknown vertex format %d", f))
	}
}

// String returns the WGSL type name of the format.
func (f VertexFormat) String() string {
	switch f {
	case VertexFormatFloat32:
		return "f32"
	case VertexFormatFloat32x2:
		return "vec2<f32>"
	case VertexFormatFloat32x3:
		return "vec3<f32>"
	case VertexFormatFloat32x4:
		return "vec4<f32>"
	default:
		return fmt.Sprintf("VertexFormat(%d)", int(f))
	}
}

// StepMode selects whether an attribute advances per vertex or per instance.
type StepMode uint8

const (
	// StepModeVertex advances the attribute once per vertex.
	StepModeVertex StepMode = iota
	// StepModeInstance advances the attribute once per instance.
	StepModeInstance
)

// IndexFormat is the element type of an index buffer.
type IndexFormat uint8

const (
	IndexFormatUint16 IndexFormat = iota + 1
	IndexFormatUint32
)

// ShaderStage is a bitmask of programmable pipeline stages.
type ShaderStage uint8

const (
	ShaderStageVertex   ShaderStage = 1 << 0
	ShaderStageFragment ShaderStage = 1 << 1
)

// String returns the stage name ("vertex", "fragment" or "vertex|fragment").
func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	case ShaderStageVertex | ShaderStageFragment:
		return "vertex|fragment"
	default:
		return fmt.Sprintf("ShaderStage(%d)", int(s))
	}
}

// Stream identifies a per-vertex attribute stream.
type Stream uint8

// Vertex attribute streams, in attribute-location order.
const (
	StreamPosition Stream = iota
	StreamNormal
	StreamColor
	StreamTexCoord

	// NumStreams is the number of per-vertex streams.
	NumStreams
)

// StreamNone marks attributes that do not come from a per-vertex stream
// (instance attributes supplied by the renderer).
const StreamNone Stream = 0xff

// String returns the attribute name used in generated shaders.
func (s Stream) String() string {
	switch s {
	case StreamPosition:
		return "position"
	case StreamNormal:
		return "normal"
	case StreamColor:
		return "color"
	case StreamTexCoord:
		return "texcoord"
	case StreamNone:
		return "none"
	default:
		return fmt.Sprintf("Stream(%d)", int(s))
	}
}

// Format returns the vertex format of the stream.
func (s Stream) Format() VertexFormat {
	switch s {
	case StreamPosition, StreamNormal:
		return VertexFormatFloat32x3
	case StreamColor:
		return VertexFormatFloat32x4
	case StreamTexCoord:
		return VertexFormatFloat32x2
	default:
		panic(fmt.Sprintf("gpucore: stream %v has no vertex format", s))
	}
}

// Mask returns the single-bit mask of the stream.
func (s Stream) Mask() StreamMask {
	return StreamMask(1) << s
}

// StreamMask is a set of streams.
type StreamMask uint8

// Has reports whether s is in the mask.
func (m StreamMask) Has(s Stream) bool {
	return m&s.Mask() != 0
}

// BindingType specifies the type of a shader binding.
type BindingType uint32

// Binding types.
const (
	// BindingTypeUniformBuffer is a uniform buffer binding.
	BindingTypeUniformBuffer BindingType = iota + 1

	// BindingTypeSampler is a texture sampler binding.
	BindingTypeSampler

	// BindingTypeSampledTexture is a sampled texture binding.
	BindingTypeSampledTexture
)
