// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command g3dshader prints the shader program generated for a feature set.
//
// Usage:
//
//	g3dshader [options]
//
// Examples:
//
//	g3dshader -shading smooth -lights 2            # WGSL, both stages
//	g3dshader -features "shading=metal,clips=1"    # descriptor as logged
//	g3dshader -shading flat -target glsl -stage vertex
//	g3dshader -instancing frames -validate         # compile to SPIR-V
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	inative "github.com/gogpu/g3d/internal/native"
	"github.com/gogpu/g3d/shader"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errUsage marks errors caused by bad arguments.
var errUsage = errors.New("usage")

type options struct {
	features   string
	lights     int
	clips      int
	shading    string
	color      string
	instancing string
	texture    string
	selection  bool

	target   string
	stage    string
	validate bool
	output   string
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("g3dshader", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var o options
	fs.StringVar(&o.features, "features", "", "descriptor in Features.String form; other feature flags override it")
	fs.IntVar(&o.lights, "lights", 0, "light count")
	fs.IntVar(&o.clips, "clip", 0, "clip-plane count")
	fs.StringVar(&o.shading, "shading", "none", "shading: none, flat, smooth, metal")
	fs.StringVar(&o.color, "color", "none", "color interpolation: none, rgb, hsv")
	fs.StringVar(&o.instancing, "instancing", "none", "instancing: none, points, lines, frames, affines")
	fs.StringVar(&o.texture, "texture", "none", "texture: none, replace, modulate, decal")
	fs.BoolVar(&o.selection, "selection", false, "selection variant")
	fs.StringVar(&o.target, "target", "wgsl", "output language: wgsl, glsl, msl")
	fs.StringVar(&o.stage, "stage", "both", "stage: vertex, fragment, both")
	fs.BoolVar(&o.validate, "validate", false, "compile each module to SPIR-V and report diagnostics")
	fs.StringVar(&o.output, "o", "", "output file (default: stdout)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: g3dshader [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected argument %q\n", fs.Arg(0))
		fs.Usage()
		return 2
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	f, err := buildFeatures(o, set)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	text, err := render(f, o)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}

	if o.output == "" {
		if _, err := io.WriteString(stdout, text); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %v\n", err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(o.output, []byte(text), 0o644); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return 1
	}
	fmt.Fprintf(stderr, "Wrote %s (%s)\n", o.output, f)
	return 0
}

// buildFeatures applies the feature flags on top of -features. Only flags
// given on the command line override the parsed descriptor.
func buildFeatures(o options, set map[string]bool) (shader.Features, error) {
	f, err := shader.ParseFeatures(o.features)
	if err != nil {
		return shader.Features{}, err
	}
	if set["lights"] {
		f = f.WithLights(o.lights)
	}
	if set["clip"] {
		f = f.WithClipPlanes(o.clips)
	}
	if set["shading"] {
		v, err := shader.ParseShading(o.shading)
		if err != nil {
			return shader.Features{}, err
		}
		f = f.WithShading(v)
	}
	if set["color"] {
		v, err := shader.ParseColor(o.color)
		if err != nil {
			return shader.Features{}, err
		}
		f = f.WithColor(v)
	}
	if set["instancing"] {
		v, err := shader.ParseInstancing(o.instancing)
		if err != nil {
			return shader.Features{}, err
		}
		f = f.WithInstancing(v)
	}
	if set["texture"] {
		v, err := shader.ParseTexture(o.texture)
		if err != nil {
			return shader.Features{}, err
		}
		f = f.WithTexture(v)
	}
	if set["selection"] {
		f = f.WithSelection(o.selection)
	}
	return f, nil
}

type module struct {
	stage string
	entry string
	wgsl  string
}

// render generates f and returns the requested stages in the target
// language, each preceded by a header comment.
func render(f shader.Features, o options) (string, error) {
	src := shader.Generate(f)
	var mods []module
	switch o.stage {
	case "vertex":
		mods = []module{{"vertex", shader.VertexEntry, src.Vertex}}
	case "fragment":
		mods = []module{{"fragment", shader.FragmentEntry, src.Fragment}}
	case "both":
		mods = []module{
			{"vertex", shader.VertexEntry, src.Vertex},
			{"fragment", shader.FragmentEntry, src.Fragment},
		}
	default:
		return "", fmt.Errorf("%w: unknown stage %q", errUsage, o.stage)
	}

	var target shader.Target
	if o.target != "wgsl" {
		t, err := shader.ParseTarget(o.target)
		if err != nil {
			return "", fmt.Errorf("%w: %w", errUsage, err)
		}
		target = t
	}

	var out []byte
	for i, m := range mods {
		if o.validate {
			if _, err := inative.CompileWGSL(m.wgsl); err != nil {
				return "", fmt.Errorf("%s module of %s does not compile:\n%s", m.stage, f, inative.Diagnostic(err))
			}
		}
		text := m.wgsl
		if target != 0 {
			t, err := shader.Translate(m.wgsl, target, m.entry)
			if err != nil {
				return "", fmt.Errorf("%s module: %w", m.stage, err)
			}
			text = t
		}
		if i > 0 {
			out = append(out, '\n')
		}
		out = fmt.Appendf(out, "// %s %s: %s\n", o.target, m.stage, f)
		out = append(out, text...)
	}
	return string(out), nil
}
