// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"fmt"
	"hash/fnv"
)

// Limits on the counts baked into generated source.
const (
	// MaxLights is the largest light count a program can be generated for.
	MaxLights = 8

	// MaxClipPlanes is the largest clip-plane count a program can be generated for.
	MaxClipPlanes = 6
)

// Shading selects the lighting model.
type Shading uint8

const (
	// ShadingNone draws unlit color.
	ShadingNone Shading = iota
	// ShadingFlatPerVertex evaluates lighting per vertex and does not
	// interpolate the result across the primitive.
	ShadingFlatPerVertex
	// ShadingSmoothPerFragment evaluates diffuse lighting per fragment.
	ShadingSmoothPerFragment
	// ShadingMetal evaluates diffuse and base-tinted specular lighting per fragment.
	ShadingMetal
)

func (s Shading) String() string {
	switch s {
	case ShadingNone:
		return "none"
	case ShadingFlatPerVertex:
		return "flat"
	case ShadingSmoothPerFragment:
		return "smooth"
	case ShadingMetal:
		return "metal"
	default:
		return fmt.Sprintf("Shading(%d)", int(s))
	}
}

// ColorInterp selects whether and how per-vertex colors are interpolated.
type ColorInterp uint8

const (
	// ColorNone uses the material color.
	ColorNone ColorInterp = iota
	// ColorRGB interpolates per-vertex RGBA colors.
	ColorRGB
	// ColorHSV interpolates per-vertex colors in HSV space and converts per fragment.
	ColorHSV
)

func (c ColorInterp) String() string {
	switch c {
	case ColorNone:
		return "none"
	case ColorRGB:
		return "rgb"
	case ColorHSV:
		return "hsv"
	default:
		return fmt.Sprintf("ColorInterp(%d)", int(c))
	}
}

// Instancing selects the per-instance transform.
type Instancing uint8

const (
	// InstancingNone draws a single object.
	InstancingNone Instancing = iota
	// InstancingPoints translates each instance by an offset.
	InstancingPoints
	// InstancingLines stretches unit geometry along +Z between two end points.
	InstancingLines
	// InstancingFrames places each instance with an origin and a rotation quaternion.
	InstancingFrames
	// InstancingAffines transforms each instance by a full 4x4 matrix.
	InstancingAffines
)

func (i Instancing) String() string {
	switch i {
	case InstancingNone:
		return "none"
	case InstancingPoints:
		return "points"
	case InstancingLines:
		return "lines"
	case InstancingFrames:
		return "frames"
	case InstancingAffines:
		return "affines"
	default:
		return fmt.Sprintf("Instancing(%d)", int(i))
	}
}

// TextureMode selects how a texture sample combines with the surface color.
type TextureMode uint8

const (
	// TextureNone samples no texture.
	TextureNone TextureMode = iota
	// TextureReplace uses the texel as the color.
	TextureReplace
	// TextureModulate multiplies the color by the texel.
	TextureModulate
	// TextureDecal blends the texel over the color by texel alpha.
	TextureDecal
)

func (m TextureMode) String() string {
	switch m {
	case TextureNone:
		return "none"
	case TextureReplace:
		return "replace"
	case TextureModulate:
		return "modulate"
	case TextureDecal:
		return "decal"
	default:
		return fmt.Sprintf("TextureMode(%d)", int(m))
	}
}

// Features describes everything that changes generated shader text.
//
// Features is an immutable, comparable value: use it directly as a map key.
// Build one with NewFeatures and the With methods, each of which returns a
// modified copy. Descriptors are kept canonical so that two descriptors
// compare equal exactly when they generate the same program: while the
// selection flag is set, lights, shading, color and texture stay at their
// None values and the corresponding With calls have no effect.
type Features struct {
	lights     uint8
	clipPlanes uint8
	shading    Shading
	color      ColorInterp
	instancing Instancing
	texture    TextureMode
	selection  bool
}

// NewFeatures returns the descriptor of an unlit, uncolored, untextured,
// non-instanced program with no clip planes.
func NewFeatures() Features {
	return Features{}
}

// WithLights returns a copy with n lights, clamped to [0, MaxLights].
func (f Features) WithLights(n int) Features {
	f.lights = uint8(clamp(n, MaxLights))
	return f.canonical()
}

// WithClipPlanes returns a copy with n clip planes, clamped to [0, MaxClipPlanes].
func (f Features) WithClipPlanes(n int) Features {
	f.clipPlanes = uint8(clamp(n, MaxClipPlanes))
	return f
}

// WithShading returns a copy with shading model s.
func (f Features) WithShading(s Shading) Features {
	f.shading = s
	return f.canonical()
}

// WithColor returns a copy with color interpolation c.
func (f Features) WithColor(c ColorInterp) Features {
	f.color = c
	return f.canonical()
}

// WithInstancing returns a copy with instancing mode i.
func (f Features) WithInstancing(i Instancing) Features {
	f.instancing = i
	return f
}

// WithTexture returns a copy with texture mode m.
func (f Features) WithTexture(m TextureMode) Features {
	f.texture = m
	return f.canonical()
}

// WithSelection returns a copy drawing the flat selection color.
func (f Features) WithSelection(on bool) Features {
	f.selection = on
	return f.canonical()
}

// Lights returns the light count.
func (f Features) Lights() int { return int(f.lights) }

// ClipPlanes returns the clip-plane count.
func (f Features) ClipPlanes() int { return int(f.clipPlanes) }

// Shading returns the shading model.
func (f Features) Shading() Shading { return f.shading }

// Color returns the color interpolation mode.
func (f Features) Color() ColorInterp { return f.color }

// Instancing returns the instancing mode.
func (f Features) Instancing() Instancing { return f.instancing }

// Texture returns the texture mode.
func (f Features) Texture() TextureMode { return f.texture }

// Selection reports whether the descriptor is a selection variant.
func (f Features) Selection() bool { return f.selection }

// Lit reports whether the program evaluates lighting.
func (f Features) Lit() bool { return f.shading != ShadingNone }

// Hash returns the FNV-1a hash of the canonical encoding.
// Equal descriptors always hash equal.
func (f Features) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write(f.appendBytes(nil)) // fnv.Write never returns an error
	return h.Sum64()
}

// String returns the canonical key, e.g.
// "lights=2,clips=0,shading=smooth,color=rgb,instancing=none,texture=none,selection=false".
func (f Features) String() string {
	return fmt.Sprintf("lights=%d,clips=%d,shading=%s,color=%s,instancing=%s,texture=%s,selection=%t",
		f.lights, f.clipPlanes, f.shading, f.color, f.instancing, f.texture, f.selection)
}

func (f Features) appendBytes(b []byte) []byte {
	sel := byte(0)
	if f.selection {
		sel = 1
	}
	return append(b, f.lights, f.clipPlanes, byte(f.shading), byte(f.color),
		byte(f.instancing), byte(f.texture), sel)
}

func (f Features) canonical() Features {
	if f.selection {
		f.lights = 0
		f.shading = ShadingNone
		f.color = ColorNone
		f.texture = TextureNone
	}
	return f
}

func clamp(n, hi int) int {
	if n < 0 {
		return 0
	}
	if n > hi {
		return hi
	}
	return n
}
