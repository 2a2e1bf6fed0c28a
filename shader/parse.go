// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned (wrapped) when a descriptor or enum name cannot be
// parsed.
var ErrSyntax = errors.New("shader: invalid syntax")

type enum interface {
	~uint8
	String() string
}

func parseEnum[T enum](kind, s string, last T) (T, error) {
	for v := T(0); v <= last; v++ {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrSyntax, kind, s)
}

// ParseShading returns the shading model named s, as printed by String.
func ParseShading(s string) (Shading, error) { return parseEnum("shading", s, ShadingMetal) }

// ParseColor returns the color interpolation named s.
func ParseColor(s string) (ColorInterp, error) { return parseEnum("color", s, ColorHSV) }

// ParseInstancing returns the instancing mode named s.
func ParseInstancing(s string) (Instancing, error) {
	return parseEnum("instancing", s, InstancingAffines)
}

// ParseTexture returns the texture mode named s.
func ParseTexture(s string) (TextureMode, error) { return parseEnum("texture", s, TextureDecal) }

// ParseFeatures parses the form produced by Features.String. Fields may
// appear in any order and missing fields keep their NewFeatures value, so
// "shading=smooth,lights=2" is accepted. Counts are clamped like the With
// methods.
func ParseFeatures(s string) (Features, error) {
	f := NewFeatures()
	s = strings.TrimSpace(s)
	if s == "" {
		return f, nil
	}
	for field := range strings.SplitSeq(s, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(field), "=")
		if !ok {
			return Features{}, fmt.Errorf("%w: field %q has no value", ErrSyntax, field)
		}
		var err error
		switch key {
		case "lights", "clips":
			var n int
			n, err = strconv.Atoi(value)
			if err != nil {
				err = fmt.Errorf("%w: %s: %w", ErrSyntax, key, err)
			} else if key == "lights" {
				f = f.WithLights(n)
			} else {
				f = f.WithClipPlanes(n)
			}
		case "shading":
			var v Shading
			if v, err = ParseShading(value); err == nil {
				f = f.WithShading(v)
			}
		case "color":
			var v ColorInterp
			if v, err = ParseColor(value); err == nil {
				f = f.WithColor(v)
			}
		case "instancing":
			var v Instancing
			if v, err = ParseInstancing(value); err == nil {
				f = f.WithInstancing(v)
			}
		case "texture":
			var v TextureMode
			if v, err = ParseTexture(value); err == nil {
				f = f.WithTexture(v)
			}
		case "selection":
			var on bool
			on, err = strconv.ParseBool(value)
			if err != nil {
				err = fmt.Errorf("%w: selection: %w", ErrSyntax, err)
			} else {
				f = f.WithSelection(on)
			}
		default:
			err = fmt.Errorf("%w: unknown field %q", ErrSyntax, key)
		}
		if err != nil {
			return Features{}, err
		}
	}
	return f, nil
}
