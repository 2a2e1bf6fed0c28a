// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"fmt"

	"github.com/gogpu/g3d/gpucore"
)

// Fixed vertex attribute locations. Geometry buffers are bound by these
// locations, never by name.
const (
	LocationPosition = 0
	LocationNormal   = 1
	LocationColor    = 2
	LocationTexCoord = 3

	// LocationInstance is the first location used by instancing attributes.
	// Affine instancing uses four consecutive locations.
	LocationInstance = 4
)

// Fixed uniform block slots.
const (
	GroupFrame    = 0
	BindingFrame  = 0
	BindingLights = 1
	BindingClip   = 2

	GroupMaterial   = 1
	BindingMaterial = 0

	GroupTexture   = 2
	BindingTexture = 0
	BindingSampler = 1
)

// Uniform block sizes in bytes.
const (
	// FrameSize holds model_view, projection and normal_matrix.
	FrameSize = 3 * 64
	// LightSize is one Light entry: position, diffuse, specular.
	LightSize = 3 * 16
	// ClipPlaneSize is one plane equation.
	ClipPlaneSize = 16
	// MaterialSize holds color, specular, ambient and selection.
	MaterialSize = 4 * 16
)

// Entry point names of generated modules.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Attributes returns the vertex inputs of the program generated for f, in
// buffer slot order.
func Attributes(f Features) []gpucore.VertexAttribute {
	attrs := []gpucore.VertexAttribute{
		streamAttribute(gpucore.StreamPosition, LocationPosition),
	}
	if f.Lit() {
		attrs = append(attrs, streamAttribute(gpucore.StreamNormal, LocationNormal))
	}
	if f.color != ColorNone {
		attrs = append(attrs, streamAttribute(gpucore.StreamColor, LocationColor))
	}
	if f.texture != TextureNone {
		attrs = append(attrs, streamAttribute(gpucore.StreamTexCoord, LocationTexCoord))
	}
	return append(attrs, instanceAttributes(f.instancing)...)
}

// Streams returns the set of per-vertex streams the program reads.
func Streams(f Features) gpucore.StreamMask {
	var m gpucore.StreamMask
	for _, a := range Attributes(f) {
		if a.Stream != gpucore.StreamNone {
			m |= a.Stream.Mask()
		}
	}
	return m
}

// Bindings returns the uniform, texture and sampler bindings of the program
// generated for f. Blocks sized by a zero count are absent.
func Bindings(f Features) []gpucore.Binding {
	both := gpucore.ShaderStageVertex | gpucore.ShaderStageFragment
	b := []gpucore.Binding{{
		Name: "frame", Group: GroupFrame, Binding: BindingFrame,
		Type: gpucore.BindingTypeUniformBuffer, Visibility: both, Size: FrameSize,
	}}
	if f.lights > 0 {
		b = append(b, gpucore.Binding{
			Name: "light_block", Group: GroupFrame, Binding: BindingLights,
			Type: gpucore.BindingTypeUniformBuffer, Visibility: both,
			Size: uint64(f.lights) * LightSize,
		})
	}
	if f.clipPlanes > 0 {
		b = append(b, gpucore.Binding{
			Name: "clipping", Group: GroupFrame, Binding: BindingClip,
			Type: gpucore.BindingTypeUniformBuffer, Visibility: both,
			Size: uint64(f.clipPlanes) * ClipPlaneSize,
		})
	}
	b = append(b, gpucore.Binding{
		Name: "material", Group: GroupMaterial, Binding: BindingMaterial,
		Type: gpucore.BindingTypeUniformBuffer, Visibility: both, Size: MaterialSize,
	})
	if f.texture != TextureNone {
		b = append(b,
			gpucore.Binding{
				Name: "base_texture", Group: GroupTexture, Binding: BindingTexture,
				Type: gpucore.BindingTypeSampledTexture, Visibility: both,
			},
			gpucore.Binding{
				Name: "base_sampler", Group: GroupTexture, Binding: BindingSampler,
				Type: gpucore.BindingTypeSampler, Visibility: both,
			})
	}
	return b
}

func streamAttribute(s gpucore.Stream, loc uint32) gpucore.VertexAttribute {
	return gpucore.VertexAttribute{
		Name:     s.String(),
		Location: loc,
		Format:   s.Format(),
		StepMode: gpucore.StepModeVertex,
		Stream:   s,
	}
}

func instanceAttribute(name string, loc uint32, format gpucore.VertexFormat) gpucore.VertexAttribute {
	return gpucore.VertexAttribute{
		Name:     name,
		Location: loc,
		Format:   format,
		StepMode: gpucore.StepModeInstance,
		Stream:   gpucore.StreamNone,
	}
}

func instanceAttributes(i Instancing) []gpucore.VertexAttribute {
	switch i {
	case InstancingNone:
		return nil
	case InstancingPoints:
		return []gpucore.VertexAttribute{
			instanceAttribute("instance_offset", LocationInstance, gpucore.VertexFormatFloat32x3),
		}
	case InstancingLines:
		return []gpucore.VertexAttribute{
			instanceAttribute("instance_p0", LocationInstance, gpucore.VertexFormatFloat32x3),
			instanceAttribute("instance_p1", LocationInstance+1, gpucore.VertexFormatFloat32x3),
		}
	case InstancingFrames:
		return []gpucore.VertexAttribute{
			instanceAttribute("instance_origin", LocationInstance, gpucore.VertexFormatFloat32x3),
			instanceAttribute("instance_rotation", LocationInstance+1, gpucore.VertexFormatFloat32x4),
		}
	case InstancingAffines:
		attrs := make([]gpucore.VertexAttribute, 4)
		for c := range attrs {
			attrs[c] = instanceAttribute(fmt.Sprintf("instance_c%d", c),
				LocationInstance+uint32(c), gpucore.VertexFormatFloat32x4)
		}
		return attrs
	default:
		panic(fmt.Sprintf("shader: unknown instancing mode %d", i))
	}
}
