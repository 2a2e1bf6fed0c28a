// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader generates WGSL programs from a feature descriptor.
//
// A [Features] value fixes every choice that changes shader text: light and
// clip-plane counts, shading model, color interpolation, instancing mode,
// texture mode and the selection flag. [Generate] turns it into a vertex and
// a fragment module through an ordered list of text blocks:
//
//	header -> uniform declarations -> helpers -> vertex input -> varyings -> main
//
// Declarations whose array length would be zero are left out together with
// the code that reads them, so no variant declares a zero-length array.
// Helpers (lighting, HSV conversion, instance transforms) appear only in the
// stage that calls them.
//
// Vertex inputs use fixed locations (see [LocationPosition] and friends) and
// uniform blocks use fixed group/binding slots, described by [Attributes] and
// [Bindings] so that pipeline layouts never need reflection.
//
// The package does no GPU work. [Translate] renders a module in GLSL or MSL
// through naga for inspection.
package shader
