// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package primitive

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/g3d/gpucore"
)

func length(v f32.Vec3) float64 {
	return math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]))
}

func TestMeshesValid(t *testing.T) {
	keys := []Key{
		SphereKey{0}, SphereKey{3},
		CylinderKey{3, false}, CylinderKey{16, true},
		ConeKey{8, false}, ConeKey{32, true},
		SpindleKey{12},
		AxesKey{8},
		CubeKey{},
	}
	for _, k := range keys {
		t.Run(k.String(), func(t *testing.T) {
			m := k.Tessellate()
			if err := m.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			for i, n := range m.Normals {
				if l := length(n); math.Abs(l-1) > 1e-4 {
					t.Fatalf("normal %d has length %v", i, l)
				}
			}
			want := gpucore.StreamPosition.Mask() | gpucore.StreamNormal.Mask() | gpucore.StreamTexCoord.Mask()
			if k.Family() == FamilyAxes {
				want |= gpucore.StreamColor.Mask()
			}
			if got := m.Streams(); got != want {
				t.Errorf("Streams() = %b, want %b", got, want)
			}
		})
	}
}

func TestSphereCounts(t *testing.T) {
	for levels := range 4 {
		m := sphere(levels)
		faces := 20 << (2 * levels)
		if got, want := m.VertexCount(), 10*(1<<(2*levels))+2; got != want {
			t.Errorf("levels=%d: %d vertices, want %d", levels, got, want)
		}
		if got := len(m.Indices); got != 3*faces {
			t.Errorf("levels=%d: %d indices, want %d", levels, got, 3*faces)
		}
		for i, p := range m.Positions {
			if l := length(p); math.Abs(l-1) > 1e-5 {
				t.Fatalf("levels=%d: vertex %d off the unit sphere (%v)", levels, i, l)
			}
		}
	}
}

func TestCylinderCounts(t *testing.T) {
	tests := []struct {
		capped            bool
		vertices, indices int
	}{
		{false, 2 * 17, 6 * 16},
		{true, 2*17 + 2*17, 6*16 + 2*3*16},
	}
	for _, tt := range tests {
		m := cylinder(16, tt.capped)
		if m.VertexCount() != tt.vertices || len(m.Indices) != tt.indices {
			t.Errorf("capped=%t: %d vertices %d indices, want %d %d",
				tt.capped, m.VertexCount(), len(m.Indices), tt.vertices, tt.indices)
		}
	}
}

func TestCube(t *testing.T) {
	m := cube()
	if m.VertexCount() != 24 || len(m.Indices) != 36 {
		t.Fatalf("cube has %d vertices %d indices", m.VertexCount(), len(m.Indices))
	}
	for _, p := range m.Positions {
		for _, c := range p {
			if c != 1 && c != -1 {
				t.Fatalf("corner %v not on the unit cube", p)
			}
		}
	}
}

// TestOutwardWinding checks that every triangle of a convex shape faces
// away from an interior point.
func TestOutwardWinding(t *testing.T) {
	tests := []struct {
		key    Key
		inside [3]float64
	}{
		{SphereKey{2}, [3]float64{0, 0, 0}},
		{CylinderKey{16, true}, [3]float64{0, 0, 0.5}},
		{ConeKey{16, true}, [3]float64{0, 0, 0.25}},
		{SpindleKey{16}, [3]float64{0, 0, 0.5}},
		{CubeKey{}, [3]float64{0, 0, 0}},
	}
	for _, tt := range tests {
		m := tt.key.Tessellate()
		for f := 0; f < len(m.Indices); f += 3 {
			var p [3][3]float64
			for k := range 3 {
				v := m.Positions[m.Indices[f+k]]
				p[k] = [3]float64{float64(v[0]), float64(v[1]), float64(v[2])}
			}
			var e1, e2, out [3]float64
			for k := range 3 {
				e1[k] = p[1][k] - p[0][k]
				e2[k] = p[2][k] - p[0][k]
				out[k] = (p[0][k]+p[1][k]+p[2][k])/3 - tt.inside[k]
			}
			n := [3]float64{
				e1[1]*e2[2] - e1[2]*e2[1],
				e1[2]*e2[0] - e1[0]*e2[2],
				e1[0]*e2[1] - e1[1]*e2[0],
			}
			if n[0]*out[0]+n[1]*out[1]+n[2]*out[2] <= 0 {
				t.Fatalf("%v: triangle %d faces inward", tt.key, f/3)
			}
		}
	}
}

func TestAxesColors(t *testing.T) {
	m := axes(8)
	counts := make(map[f32.Vec4]int)
	for _, c := range m.Colors {
		counts[c]++
	}
	if len(counts) != 3 {
		t.Fatalf("axes use %d colors, want 3", len(counts))
	}
	for c, n := range counts {
		if n*3 != m.VertexCount() {
			t.Errorf("color %v covers %d of %d vertices", c, n, m.VertexCount())
		}
	}
	// The red arrow points along +x.
	var tip float32
	for i, p := range m.Positions {
		if m.Colors[i] == (f32.Vec4{1, 0, 0, 1}) {
			tip = max(tip, p[0])
		}
	}
	if tip != 1 {
		t.Errorf("red arrow reaches x=%v, want 1", tip)
	}
}

func TestKeyNormalize(t *testing.T) {
	tests := []struct {
		in, want Key
	}{
		{SphereKey{-1}, SphereKey{0}},
		{SphereKey{99}, SphereKey{MaxSphereLevels}},
		{CylinderKey{1, true}, CylinderKey{MinSlices, true}},
		{ConeKey{1000, false}, ConeKey{MaxSlices, false}},
		{SpindleKey{0}, SpindleKey{MinSlices}},
		{AxesKey{12}, AxesKey{12}},
		{CubeKey{}, CubeKey{}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("%v.Normalize() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFamilyString(t *testing.T) {
	if s := (CylinderKey{16, true}).String(); s != "cylinder(slices=16,capped=true)" {
		t.Errorf("String() = %q", s)
	}
	if s := Family(42).String(); s != "Family(42)" {
		t.Errorf("unknown family = %q", s)
	}
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name string
		m    Mesh
	}{
		{"empty", Mesh{}},
		{"short normals", Mesh{
			Positions: make([]f32.Vec3, 3),
			Normals:   make([]f32.Vec3, 2),
			Indices:   []uint32{0, 1, 2},
		}},
		{"partial triangle", Mesh{Positions: make([]f32.Vec3, 3), Indices: []uint32{0, 1}}},
		{"index out of range", Mesh{Positions: make([]f32.Vec3, 3), Indices: []uint32{0, 1, 3}}},
	}
	for _, tt := range tests {
		if err := tt.m.Validate(); !errors.Is(err, ErrInvalidMesh) {
			t.Errorf("%s: Validate() = %v, want ErrInvalidMesh", tt.name, err)
		}
	}
}
