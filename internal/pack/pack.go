// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pack encodes vertex and index data in the little-endian layout
// GPU buffers expect.
package pack

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"
)

// AppendFloat32 appends one float.
func AppendFloat32(b []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
}

// AppendVec2 appends two floats.
func AppendVec2(b []byte, v f32.Vec2) []byte {
	b = AppendFloat32(b, v[0])
	return AppendFloat32(b, v[1])
}

// AppendVec3 appends three floats.
func AppendVec3(b []byte, v f32.Vec3) []byte {
	b = AppendFloat32(b, v[0])
	b = AppendFloat32(b, v[1])
	return AppendFloat32(b, v[2])
}

// AppendVec4 appends four floats.
func AppendVec4(b []byte, v f32.Vec4) []byte {
	b = AppendFloat32(b, v[0])
	b = AppendFloat32(b, v[1])
	b = AppendFloat32(b, v[2])
	return AppendFloat32(b, v[3])
}

// Vec2s encodes a slice of 2-vectors.
func Vec2s(vs []f32.Vec2) []byte {
	b := make([]byte, 0, len(vs)*8)
	for _, v := range vs {
		b = AppendVec2(b, v)
	}
	return b
}

// Vec3s encodes a slice of 3-vectors.
func Vec3s(vs []f32.Vec3) []byte {
	b := make([]byte, 0, len(vs)*12)
	for _, v := range vs {
		b = AppendVec3(b, v)
	}
	return b
}

// Vec4s encodes a slice of 4-vectors.
func Vec4s(vs []f32.Vec4) []byte {
	b := make([]byte, 0, len(vs)*16)
	for _, v := range vs {
		b = AppendVec4(b, v)
	}
	return b
}

// Uint32s encodes 32-bit indices.
func Uint32s(vs []uint32) []byte {
	b := make([]byte, 0, len(vs)*4)
	for _, v := range vs {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return b
}

// Float32At decodes the float at byte offset off. It is used by tests that
// inspect uploaded buffers.
func Float32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}
