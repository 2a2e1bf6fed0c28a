// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/g3d/shader"
)

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunPrintsBothStages(t *testing.T) {
	code, out, stderr := runCLI(t, "-shading", "smooth", "-lights", "2")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	f := shader.NewFeatures().WithShading(shader.ShadingSmoothPerFragment).WithLights(2)
	src := shader.Generate(f)
	if !strings.Contains(out, src.Vertex) || !strings.Contains(out, src.Fragment) {
		t.Error("output does not contain the generated modules")
	}
	if !strings.Contains(out, "// wgsl vertex: "+f.String()) {
		t.Errorf("missing vertex header in:\n%s", out)
	}
}

func TestRunSingleStage(t *testing.T) {
	code, out, stderr := runCLI(t, "-stage", "fragment")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	src := shader.Generate(shader.NewFeatures())
	if strings.Contains(out, src.Vertex) || !strings.Contains(out, src.Fragment) {
		t.Error("-stage fragment printed the wrong modules")
	}
}

func TestRunFlagsOverrideFeatures(t *testing.T) {
	o := options{features: "shading=metal,lights=3,clips=1", lights: 1}
	f, err := buildFeatures(o, map[string]bool{"features": true, "lights": true})
	if err != nil {
		t.Fatalf("buildFeatures: %v", err)
	}
	want := shader.NewFeatures().WithShading(shader.ShadingMetal).WithLights(1).WithClipPlanes(1)
	if f != want {
		t.Errorf("features = %v, want %v", f, want)
	}
}

func TestRunValidate(t *testing.T) {
	code, _, stderr := runCLI(t, "-validate")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
}

func TestRunWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wgsl")
	code, out, stderr := runCLI(t, "-o", path, "-color", "rgb")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if out != "" {
		t.Errorf("stdout not empty with -o: %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	src := shader.Generate(shader.NewFeatures().WithColor(shader.ColorRGB))
	if !strings.Contains(string(data), src.Fragment) {
		t.Error("file does not contain the fragment module")
	}
}

func TestRunUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-shading", "phong"},
		{"-features", "fog=true"},
		{"-stage", "geometry"},
		{"-target", "hlsl"},
		{"-nosuchflag"},
		{"extra"},
	} {
		if code, _, _ := runCLI(t, args...); code != 2 {
			t.Errorf("%v: exit %d, want 2", args, code)
		}
	}
}

func TestRunHelp(t *testing.T) {
	code, _, stderr := runCLI(t, "-h")
	if code != 0 || !strings.Contains(stderr, "Usage: g3dshader") {
		t.Errorf("-h exit %d, stderr %q", code, stderr)
	}
}
