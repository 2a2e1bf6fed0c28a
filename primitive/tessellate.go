// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package primitive

import (
	"math"

	"golang.org/x/image/math/f32"
)

// All shapes wind triangles counter-clockwise seen from outside.

func vec3(x, y, z float64) f32.Vec3 {
	return f32.Vec3{float32(x), float32(y), float32(z)}
}

func normalize(x, y, z float64) f32.Vec3 {
	l := math.Sqrt(x*x + y*y + z*z)
	return vec3(x/l, y/l, z/l)
}

// icosahedron returns the 12 vertices and 20 faces of a unit icosahedron.
func icosahedron() ([]f32.Vec3, []uint32) {
	t := (1 + math.Sqrt(5)) / 2
	raw := [][3]float64{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	verts := make([]f32.Vec3, len(raw))
	for i, v := range raw {
		verts[i] = normalize(v[0], v[1], v[2])
	}
	faces := []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}
	return verts, faces
}

// sphere subdivides an icosahedron levels times. Each level splits every
// triangle in four, sharing edge midpoints between neighbors.
func sphere(levels int) *Mesh {
	verts, faces := icosahedron()
	for range levels {
		mid := make(map[[2]uint32]uint32, len(faces))
		midpoint := func(a, b uint32) uint32 {
			edge := [2]uint32{min(a, b), max(a, b)}
			if i, ok := mid[edge]; ok {
				return i
			}
			va, vb := verts[a], verts[b]
			verts = append(verts, normalize(
				float64(va[0]+vb[0]), float64(va[1]+vb[1]), float64(va[2]+vb[2])))
			i := uint32(len(verts) - 1)
			mid[edge] = i
			return i
		}
		next := make([]uint32, 0, len(faces)*4)
		for f := 0; f < len(faces); f += 3 {
			a, b, c := faces[f], faces[f+1], faces[f+2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			next = append(next,
				a, ab, ca,
				b, bc, ab,
				c, ca, bc,
				ab, bc, ca)
		}
		faces = next
	}

	m := &Mesh{
		Positions: verts,
		Normals:   append([]f32.Vec3(nil), verts...),
		TexCoords: make([]f32.Vec2, len(verts)),
		Indices:   faces,
	}
	for i, v := range verts {
		u := 0.5 + math.Atan2(float64(v[1]), float64(v[0]))/(2*math.Pi)
		w := 0.5 - math.Asin(float64(v[2]))/math.Pi
		m.TexCoords[i] = f32.Vec2{float32(u), float32(w)}
	}
	return m
}

// ring returns cos and sin of slice i.
func ring(i, slices int) (float64, float64) {
	a := 2 * math.Pi * float64(i) / float64(slices)
	return math.Cos(a), math.Sin(a)
}

// appendCap adds a disc of the given radius at height z facing +z when up,
// -z otherwise.
func appendCap(m *Mesh, slices int, radius, z float64, up bool) {
	nz := -1.0
	if up {
		nz = 1
	}
	center := uint32(len(m.Positions))
	m.Positions = append(m.Positions, vec3(0, 0, z))
	m.Normals = append(m.Normals, vec3(0, 0, nz))
	m.TexCoords = append(m.TexCoords, f32.Vec2{0.5, 0.5})
	for i := range slices {
		c, s := ring(i, slices)
		m.Positions = append(m.Positions, vec3(radius*c, radius*s, z))
		m.Normals = append(m.Normals, vec3(0, 0, nz))
		m.TexCoords = append(m.TexCoords, f32.Vec2{float32(0.5 + 0.5*c), float32(0.5 + 0.5*s)})
	}
	for i := range slices {
		r0 := center + 1 + uint32(i)
		r1 := center + 1 + uint32((i+1)%slices)
		if up {
			m.Indices = append(m.Indices, center, r0, r1)
		} else {
			m.Indices = append(m.Indices, center, r1, r0)
		}
	}
}

// cylinderMesh builds a cylinder of the given radius between z0 < z1.
// The side seam vertices are duplicated so texture coordinates wrap.
func cylinderMesh(slices int, capped bool, radius, z0, z1 float64) *Mesh {
	m := &Mesh{}
	for i := 0; i <= slices; i++ {
		c, s := ring(i, slices)
		u := float32(i) / float32(slices)
		m.Positions = append(m.Positions, vec3(radius*c, radius*s, z0), vec3(radius*c, radius*s, z1))
		m.Normals = append(m.Normals, vec3(c, s, 0), vec3(c, s, 0))
		m.TexCoords = append(m.TexCoords, f32.Vec2{u, 0}, f32.Vec2{u, 1})
	}
	for i := range slices {
		b0, t0 := uint32(2*i), uint32(2*i+1)
		b1, t1 := b0+2, t0+2
		m.Indices = append(m.Indices, b0, b1, t1, b0, t1, t0)
	}
	if capped {
		appendCap(m, slices, radius, z0, false)
		appendCap(m, slices, radius, z1, true)
	}
	return m
}

// coneMesh builds a cone with its base disc at zBase and apex at zApex.
// The apex is split per slice so each facet gets its own normal.
func coneMesh(slices int, capped bool, radius, zBase, zApex float64) *Mesh {
	h := zApex - zBase
	dir := 1.0
	if h < 0 {
		dir = -1
	}
	ah := math.Abs(h)

	m := &Mesh{}
	for i := 0; i <= slices; i++ {
		c, s := ring(i, slices)
		m.Positions = append(m.Positions, vec3(radius*c, radius*s, zBase))
		m.Normals = append(m.Normals, normalize(c*ah, s*ah, radius*dir))
		m.TexCoords = append(m.TexCoords, f32.Vec2{float32(i) / float32(slices), 0})
	}
	apex := uint32(len(m.Positions))
	for i := range slices {
		a := 2 * math.Pi * (float64(i) + 0.5) / float64(slices)
		c, s := math.Cos(a), math.Sin(a)
		m.Positions = append(m.Positions, vec3(0, 0, zApex))
		m.Normals = append(m.Normals, normalize(c*ah, s*ah, radius*dir))
		m.TexCoords = append(m.TexCoords, f32.Vec2{(float32(i) + 0.5) / float32(slices), 1})
	}
	for i := range slices {
		b0, b1, top := uint32(i), uint32(i+1), apex+uint32(i)
		if dir > 0 {
			m.Indices = append(m.Indices, b0, b1, top)
		} else {
			m.Indices = append(m.Indices, b1, b0, top)
		}
	}
	if capped {
		appendCap(m, slices, radius, zBase, dir < 0)
	}
	return m
}

func cylinder(slices int, capped bool) *Mesh { return cylinderMesh(slices, capped, 1, 0, 1) }

func cone(slices int, capped bool) *Mesh { return coneMesh(slices, capped, 1, 0, 1) }

func spindle(slices int) *Mesh {
	m := coneMesh(slices, false, 0.5, 0.5, 1)
	m.appendMesh(coneMesh(slices, false, 0.5, 0.5, 0), identity, nil)
	return m
}

// Arrow proportions of the axes shape.
const (
	axisShaftRadius = 0.03
	axisHeadRadius  = 0.08
	axisHeadStart   = 0.8
)

func identity(v f32.Vec3) f32.Vec3 { return v }

// axes builds arrows along +x, +y and +z colored red, green and blue.
// The x and y arrows are the z arrow under cyclic axis permutations.
func axes(slices int) *Mesh {
	arrow := cylinderMesh(slices, true, axisShaftRadius, 0, axisHeadStart)
	arrow.appendMesh(coneMesh(slices, true, axisHeadRadius, axisHeadStart, 1), identity, nil)

	m := &Mesh{Colors: []f32.Vec4{}}
	red, green, blue := f32.Vec4{1, 0, 0, 1}, f32.Vec4{0, 1, 0, 1}, f32.Vec4{0, 0, 1, 1}
	m.appendMesh(arrow, func(v f32.Vec3) f32.Vec3 { return f32.Vec3{v[2], v[0], v[1]} }, &red)
	m.appendMesh(arrow, func(v f32.Vec3) f32.Vec3 { return f32.Vec3{v[1], v[2], v[0]} }, &green)
	m.appendMesh(arrow, identity, &blue)
	return m
}

// cube builds 24 vertices so each face has flat normals.
func cube() *Mesh {
	faces := []struct{ n, u, v f32.Vec3 }{
		{f32.Vec3{1, 0, 0}, f32.Vec3{0, 1, 0}, f32.Vec3{0, 0, 1}},
		{f32.Vec3{-1, 0, 0}, f32.Vec3{0, 0, 1}, f32.Vec3{0, 1, 0}},
		{f32.Vec3{0, 1, 0}, f32.Vec3{0, 0, 1}, f32.Vec3{1, 0, 0}},
		{f32.Vec3{0, -1, 0}, f32.Vec3{1, 0, 0}, f32.Vec3{0, 0, 1}},
		{f32.Vec3{0, 0, 1}, f32.Vec3{1, 0, 0}, f32.Vec3{0, 1, 0}},
		{f32.Vec3{0, 0, -1}, f32.Vec3{0, 1, 0}, f32.Vec3{1, 0, 0}},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	m := &Mesh{}
	for _, f := range faces {
		base := uint32(len(m.Positions))
		for _, c := range corners {
			var p f32.Vec3
			for k := range 3 {
				p[k] = f.n[k] + c[0]*f.u[k] + c[1]*f.v[k]
			}
			m.Positions = append(m.Positions, p)
			m.Normals = append(m.Normals, f.n)
			m.TexCoords = append(m.TexCoords, f32.Vec2{(c[0] + 1) / 2, (c[1] + 1) / 2})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}
