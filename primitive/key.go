// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package primitive

import "fmt"

// Family is a shape family. Each family has one fast-path slot in a Cache.
type Family uint8

const (
	FamilySphere   Family = iota // icospheres
	FamilyCylinder               // open or capped cylinders
	FamilyCone                   // open or capped cones
	FamilySpindle                // double cones
	FamilyAxes                   // axis-arrow triads
	FamilyCube                   // the [-1, 1] cube

	numFamilies
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilySphere:
		return "sphere"
	case FamilyCylinder:
		return "cylinder"
	case FamilyCone:
		return "cone"
	case FamilySpindle:
		return "spindle"
	case FamilyAxes:
		return "axes"
	case FamilyCube:
		return "cube"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// Tessellation limits. Keys outside them are clamped by Normalize.
const (
	MaxSphereLevels = 6   // deepest icosphere subdivision
	MinSlices       = 3   // fewest slices around a round shape
	MaxSlices       = 256 // most slices around a round shape
)

// Key identifies a shape and its tessellation parameters. Keys are
// comparable values: equal fields mean the same cached geometry.
type Key interface {
	// Family returns the shape family.
	Family() Family

	// Normalize returns the key with parameters clamped to supported ranges.
	Normalize() Key

	// Tessellate builds the CPU-side mesh.
	Tessellate() *Mesh

	fmt.Stringer
}

func clampSlices(n int) int { return max(MinSlices, min(n, MaxSlices)) }

// SphereKey is a unit icosphere subdivided Levels times.
type SphereKey struct{ Levels int }

// Family returns FamilySphere.
func (SphereKey) Family() Family { return FamilySphere }

// Normalize clamps Levels to [0, MaxSphereLevels].
func (k SphereKey) Normalize() Key {
	return SphereKey{Levels: max(0, min(k.Levels, MaxSphereLevels))}
}

// Tessellate builds the sphere mesh.
func (k SphereKey) Tessellate() *Mesh { return sphere(k.Levels) }

// String returns the key in sphere(...) form.
func (k SphereKey) String() string { return fmt.Sprintf("sphere(levels=%d)", k.Levels) }

// CylinderKey is a unit-radius cylinder from z=0 to z=1.
type CylinderKey struct {
	Slices int
	Capped bool
}

// Family returns FamilyCylinder.
func (CylinderKey) Family() Family { return FamilyCylinder }

// Normalize clamps Slices to [MinSlices, MaxSlices].
func (k CylinderKey) Normalize() Key {
	return CylinderKey{Slices: clampSlices(k.Slices), Capped: k.Capped}
}

// Tessellate builds the cylinder mesh.
func (k CylinderKey) Tessellate() *Mesh { return cylinder(k.Slices, k.Capped) }

// String returns the key in cylinder(...) form.
func (k CylinderKey) String() string {
	return fmt.Sprintf("cylinder(slices=%d,capped=%t)", k.Slices, k.Capped)
}

// ConeKey is a unit-radius cone with its base at z=0 and apex at z=1.
type ConeKey struct {
	Slices int
	Capped bool
}

// Family returns FamilyCone.
func (ConeKey) Family() Family { return FamilyCone }

// Normalize clamps Slices to [MinSlices, MaxSlices].
func (k ConeKey) Normalize() Key {
	return ConeKey{Slices: clampSlices(k.Slices), Capped: k.Capped}
}

// Tessellate builds the cone mesh.
func (k ConeKey) Tessellate() *Mesh { return cone(k.Slices, k.Capped) }

// String returns the key in cone(...) form.
func (k ConeKey) String() string {
	return fmt.Sprintf("cone(slices=%d,capped=%t)", k.Slices, k.Capped)
}

// SpindleKey is two cones joined at their bases, from z=0 to z=1.
type SpindleKey struct{ Slices int }

// Family returns FamilySpindle.
func (SpindleKey) Family() Family { return FamilySpindle }

// Normalize clamps Slices to [MinSlices, MaxSlices].
func (k SpindleKey) Normalize() Key { return SpindleKey{Slices: clampSlices(k.Slices)} }

// Tessellate builds the spindle mesh.
func (k SpindleKey) Tessellate() *Mesh { return spindle(k.Slices) }

// String returns the key in spindle(...) form.
func (k SpindleKey) String() string { return fmt.Sprintf("spindle(slices=%d)", k.Slices) }

// AxesKey is three colored arrows along +x, +y and +z.
type AxesKey struct{ Slices int }

// Family returns FamilyAxes.
func (AxesKey) Family() Family { return FamilyAxes }

// Normalize clamps Slices to [MinSlices, MaxSlices].
func (k AxesKey) Normalize() Key { return AxesKey{Slices: clampSlices(k.Slices)} }

// Tessellate builds the axes mesh.
func (k AxesKey) Tessellate() *Mesh { return axes(k.Slices) }

// String returns the key in axes(...) form.
func (k AxesKey) String() string { return fmt.Sprintf("axes(slices=%d)", k.Slices) }

// CubeKey is the cube spanning [-1, 1] on every axis.
type CubeKey struct{}

// Family returns FamilyCube.
func (CubeKey) Family() Family { return FamilyCube }

// Normalize returns k; a cube has no parameters.
func (k CubeKey) Normalize() Key { return k }

// Tessellate builds the cube mesh.
func (CubeKey) Tessellate() *Mesh { return cube() }

// String returns "cube".
func (CubeKey) String() string { return "cube" }
