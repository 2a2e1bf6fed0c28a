// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import (
	"errors"
	"fmt"

	"github.com/gogpu/g3d/shader"
)

// Package errors.
var (
	// ErrCompile is matched by every *CompileError.
	ErrCompile = errors.New("program: compilation failed")

	// ErrDestroyed is returned by Get after Destroy.
	ErrDestroyed = errors.New("program: cache destroyed")
)

// Stage identifies where a program build failed.
type Stage uint8

const (
	// StageVertex is vertex module compilation.
	StageVertex Stage = iota + 1
	// StageFragment is fragment module compilation.
	StageFragment
	// StageLink is render pipeline creation.
	StageLink
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageLink:
		return "link"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// CompileError reports a program that could not be built. It carries the
// generated source so the failing text can be inspected.
type CompileError struct {
	Stage    Stage
	Features shader.Features
	Source   shader.Source

	// Diagnostic is the compiler message, with source context when the
	// backend provides one.
	Diagnostic string

	Err error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("program: %s stage failed for [%s]: %v", e.Stage, e.Features, e.Err)
}

// Unwrap returns the backend error.
func (e *CompileError) Unwrap() error { return e.Err }

// Is reports whether target is ErrCompile.
func (e *CompileError) Is(target error) bool { return target == ErrCompile }

// StageSource returns the text of the failing stage. Link failures return
// both stages.
func (e *CompileError) StageSource() string {
	switch e.Stage {
	case StageVertex:
		return e.Source.Vertex
	case StageFragment:
		return e.Source.Fragment
	default:
		return e.Source.Vertex + "\n" + e.Source.Fragment
	}
}

// diagnostic extracts a backend diagnostic from err.
func diagnostic(err error) string {
	var d interface{ Diagnostic() string }
	if errors.As(err, &d) {
		if msg := d.Diagnostic(); msg != "" {
			return msg
		}
	}
	return err.Error()
}
