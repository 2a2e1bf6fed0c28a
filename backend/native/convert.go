// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"fmt"
	"sort"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/g3d/gpucore"
)

// convertBufferUsage converts gpucore.BufferUsage to gputypes.BufferUsage.
func convertBufferUsage(usage gpucore.BufferUsage) gputypes.BufferUsage {
	var result gputypes.BufferUsage

	if usage&gpucore.BufferUsageMapRead != 0 {
		result |= gputypes.BufferUsageMapRead
	}
	if usage&gpucore.BufferUsageMapWrite != 0 {
		result |= gputypes.BufferUsageMapWrite
	}
	if usage&gpucore.BufferUsageCopySrc != 0 {
		result |= gputypes.BufferUsageCopySrc
	}
	if usage&gpucore.BufferUsageCopyDst != 0 {
		result |= gputypes.BufferUsageCopyDst
	}
	if usage&gpucore.BufferUsageIndex != 0 {
		result |= gputypes.BufferUsageIndex
	}
	if usage&gpucore.BufferUsageVertex != 0 {
		result |= gputypes.BufferUsageVertex
	}
	if usage&gpucore.BufferUsageUniform != 0 {
		result |= gputypes.BufferUsageUniform
	}
	if usage&gpucore.BufferUsageStorage != 0 {
		result |= gputypes.BufferUsageStorage
	}
	if usage&gpucore.BufferUsageIndirect != 0 {
		result |= gputypes.BufferUsageIndirect
	}

	return result
}

// convertTextureFormat converts gpucore.TextureFormat to gputypes.TextureFormat.
func convertTextureFormat(format gpucore.TextureFormat) (gputypes.TextureFormat, error) {
	switch format {
	case gpucore.TextureFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8Unorm, nil
	case gpucore.TextureFormatBGRA8Unorm:
		return gputypes.TextureFormatBGRA8Unorm, nil
	case gpucore.TextureFormatDepth24PlusStencil8:
		return gputypes.TextureFormatDepth24PlusStencil8, nil
	case gpucore.TextureFormatDepth32Float:
		return gputypes.TextureFormatDepth32Float, nil
	default:
		return gputypes.TextureFormatUndefined, fmt.Errorf("%w: texture format %d", ErrUnsupportedFormat, format)
	}
}

// convertVertexFormat converts gpucore.VertexFormat to gputypes.VertexFormat.
func convertVertexFormat(format gpucore.VertexFormat) (gputypes.VertexFormat, error) {
	switch format {
	case gpucore.VertexFormatFloat32:
		return gputypes.VertexFormatFloat32, nil
	case gpucore.VertexFormatFloat32x2:
		return gputypes.VertexFormatFloat32x2, nil
	case gpucore.VertexFormatFloat32x3:
		return gputypes.VertexFormatFloat32x3, nil
	case gpucore.VertexFormatFloat32x4:
		return gputypes.VertexFormatFloat32x4, nil
	default:
		var undefined gputypes.VertexFormat
		return undefined, fmt.Errorf("%w: vertex format %d", ErrUnsupportedFormat, format)
	}
}

// convertIndexFormat converts gpucore.IndexFormat to gputypes.IndexFormat.
func convertIndexFormat(format gpucore.IndexFormat) gputypes.IndexFormat {
	if format == gpucore.IndexFormatUint16 {
		return gputypes.IndexFormatUint16
	}
	return gputypes.IndexFormatUint32
}

// vertexBufferLayouts returns one buffer layout per attribute. Slot i holds
// attribute i, tightly packed.
func vertexBufferLayouts(attrs []gpucore.VertexAttribute) ([]gputypes.VertexBufferLayout, error) {
	layouts := make([]gputypes.VertexBufferLayout, 0, len(attrs))
	for _, attr := range attrs {
		format, err := convertVertexFormat(attr.Format)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", attr.Name, err)
		}
		step := gputypes.VertexStepModeVertex
		if attr.StepMode == gpucore.StepModeInstance {
			step = gputypes.VertexStepModeInstance
		}
		layouts = append(layouts, gputypes.VertexBufferLayout{
			ArrayStride: attr.Format.Size(),
			StepMode:    step,
			Attributes: []gputypes.VertexAttribute{
				{Format: format, Offset: 0, ShaderLocation: attr.Location},
			},
		})
	}
	return layouts, nil
}

// groupEntries sorts bindings into per-group layout entries. Groups without
// bindings between 0 and the highest group get an empty entry list so the
// pipeline layout index equals the @group index.
func groupEntries(bindings []gpucore.Binding) ([][]gputypes.BindGroupLayoutEntry, error) {
	if len(bindings) == 0 {
		return nil, nil
	}

	sorted := append([]gpucore.Binding(nil), bindings...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Group != sorted[j].Group {
			return sorted[i].Group < sorted[j].Group
		}
		return sorted[i].Binding < sorted[j].Binding
	})

	groups := make([][]gputypes.BindGroupLayoutEntry, sorted[len(sorted)-1].Group+1)
	for i, b := range sorted {
		if i > 0 && sorted[i-1].Group == b.Group && sorted[i-1].Binding == b.Binding {
			return nil, fmt.Errorf("%w: %q and %q at %d/%d", ErrBindingConflict,
				sorted[i-1].Name, b.Name, b.Group, b.Binding)
		}
		entry := gputypes.BindGroupLayoutEntry{Binding: b.Binding}
		if b.Visibility&gpucore.ShaderStageVertex != 0 {
			entry.Visibility |= gputypes.ShaderStageVertex
		}
		if b.Visibility&gpucore.ShaderStageFragment != 0 {
			entry.Visibility |= gputypes.ShaderStageFragment
		}
		switch b.Type {
		case gpucore.BindingTypeUniformBuffer:
			entry.Buffer = &gputypes.BufferBindingLayout{
				Type:           gputypes.BufferBindingTypeUniform,
				MinBindingSize: b.Size,
			}
		case gpucore.BindingTypeSampler:
			entry.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
		case gpucore.BindingTypeSampledTexture:
			entry.Texture = &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			}
		default:
			return nil, fmt.Errorf("%w: binding type %d for %q", ErrUnsupportedFormat, b.Type, b.Name)
		}
		groups[b.Group] = append(groups[b.Group], entry)
	}
	return groups, nil
}
