// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vertexsync

import (
	"fmt"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/g3d/gpucore"
)

// VersionInfo is the version vector of a Source. Master changes with any
// edit. Structure changes with vertex count, index data or stream set.
type VersionInfo struct {
	Master    uint64
	Structure uint64
	Positions uint64
	Normals   uint64
	Colors    uint64
	TexCoords uint64
}

// Stream returns the counter of stream s.
func (v VersionInfo) Stream(s gpucore.Stream) uint64 {
	switch s {
	case gpucore.StreamPosition:
		return v.Positions
	case gpucore.StreamNormal:
		return v.Normals
	case gpucore.StreamColor:
		return v.Colors
	case gpucore.StreamTexCoord:
		return v.TexCoords
	default:
		panic(fmt.Sprintf("vertexsync: no version for stream %v", s))
	}
}

// Source is mutable geometry owned outside the renderer.
//
// Sync brackets every read with ReadLock and ReadUnlock, so a Source may
// be edited concurrently with rendering.
type Source interface {
	ReadLock()
	ReadUnlock()

	Versions() VersionInfo

	// VertexCount returns the number of vertices in every present stream.
	VertexCount() int

	// Has reports whether stream s is present.
	Has(s gpucore.Stream) bool

	// IsDynamic reports whether stream s is expected to change between
	// frames. Dynamic streams live in a separate buffer that is patched in
	// place; a change to a static stream rebuilds everything.
	IsDynamic(s gpucore.Stream) bool

	Position(i int) f32.Vec3
	Normal(i int) f32.Vec3
	Color(i int) f32.Vec4
	TexCoord(i int) f32.Vec2

	// Indices returns the triangle indices, or nil for non-indexed
	// geometry. Index changes are structural.
	Indices() []uint32
}
