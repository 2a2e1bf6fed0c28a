// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/msl"
)

// Target is a shading language generated WGSL can be translated to.
type Target uint8

const (
	// TargetGLSL is GLSL 3.30 core.
	TargetGLSL Target = iota + 1
	// TargetMSL is Metal Shading Language 2.1.
	TargetMSL
)

func (t Target) String() string {
	switch t {
	case TargetGLSL:
		return "glsl"
	case TargetMSL:
		return "msl"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// ParseTarget returns the target named by s ("glsl" or "msl").
func ParseTarget(s string) (Target, error) {
	switch s {
	case "glsl":
		return TargetGLSL, nil
	case "msl":
		return TargetMSL, nil
	default:
		return 0, fmt.Errorf("shader: unknown target %q", s)
	}
}

// ErrTranslate is returned (wrapped) when WGSL cannot be translated.
var ErrTranslate = errors.New("shader: translation failed")

// Translate converts one generated WGSL module to the target language.
// entry selects the entry point for targets that emit one at a time.
func Translate(wgslSource string, target Target, entry string) (string, error) {
	ast, err := naga.Parse(wgslSource)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranslate, err)
	}
	module, err := naga.LowerWithSource(ast, wgslSource)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranslate, err)
	}

	var out string
	switch target {
	case TargetGLSL:
		opts := glsl.DefaultOptions()
		opts.EntryPoint = entry
		out, _, err = glsl.Compile(module, opts)
	case TargetMSL:
		out, _, err = msl.Compile(module, msl.DefaultOptions())
	default:
		return "", fmt.Errorf("%w: unknown target %v", ErrTranslate, target)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTranslate, target, err)
	}
	return out, nil
}
