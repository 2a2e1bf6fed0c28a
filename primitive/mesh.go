// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package primitive

import (
	"errors"
	"fmt"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/g3d/gpucore"
)

// ErrInvalidMesh is returned for meshes whose streams disagree.
var ErrInvalidMesh = errors.New("primitive: invalid mesh")

// Mesh is CPU-side indexed triangle geometry. Colors is nil for shapes
// without per-vertex color.
type Mesh struct {
	Positions []f32.Vec3
	Normals   []f32.Vec3
	Colors    []f32.Vec4
	TexCoords []f32.Vec2
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// Streams returns the set of streams the mesh provides.
func (m *Mesh) Streams() gpucore.StreamMask {
	mask := gpucore.StreamPosition.Mask()
	if m.Normals != nil {
		mask |= gpucore.StreamNormal.Mask()
	}
	if m.Colors != nil {
		mask |= gpucore.StreamColor.Mask()
	}
	if m.TexCoords != nil {
		mask |= gpucore.StreamTexCoord.Mask()
	}
	return mask
}

// Validate checks stream lengths and index ranges.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	if n == 0 {
		return fmt.Errorf("%w: no vertices", ErrInvalidMesh)
	}
	for _, s := range []struct {
		name string
		len  int
		set  bool
	}{
		{"normals", len(m.Normals), m.Normals != nil},
		{"colors", len(m.Colors), m.Colors != nil},
		{"texcoords", len(m.TexCoords), m.TexCoords != nil},
	} {
		if s.set && s.len != n {
			return fmt.Errorf("%w: %d %s for %d positions", ErrInvalidMesh, s.len, s.name, n)
		}
	}
	if len(m.Indices) == 0 || len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices", ErrInvalidMesh, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d = %d out of %d vertices", ErrInvalidMesh, i, idx, n)
		}
	}
	return nil
}

// appendMesh appends o to m, rotating positions and normals with rot and
// painting o's vertices with color when m is colored.
func (m *Mesh) appendMesh(o *Mesh, rot func(f32.Vec3) f32.Vec3, color *f32.Vec4) {
	base := uint32(len(m.Positions))
	for i := range o.Positions {
		m.Positions = append(m.Positions, rot(o.Positions[i]))
		m.Normals = append(m.Normals, rot(o.Normals[i]))
		m.TexCoords = append(m.TexCoords, o.TexCoords[i])
		if color != nil {
			m.Colors = append(m.Colors, *color)
		}
	}
	for _, idx := range o.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}
