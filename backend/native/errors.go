// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/g3d/gpucore"
	inative "github.com/gogpu/g3d/internal/native"
)

// Package errors for the HAL adapter.
var (
	// ErrNilDescriptor is returned when a create call receives a nil descriptor.
	ErrNilDescriptor = errors.New("native: nil descriptor")

	// ErrZeroSize is returned when a buffer of size zero is requested.
	ErrZeroSize = errors.New("native: buffer size must be positive")

	// ErrUnknownBuffer is returned when a buffer ID is not tracked by the adapter.
	ErrUnknownBuffer = errors.New("native: unknown buffer")

	// ErrUnknownShaderModule is returned when a pipeline references a missing module.
	ErrUnknownShaderModule = errors.New("native: unknown shader module")

	// ErrOutOfRange is returned when a write exceeds the buffer size.
	ErrOutOfRange = errors.New("native: write out of buffer range")

	// ErrUnsupportedFormat is returned for formats the HAL mapping does not cover.
	ErrUnsupportedFormat = errors.New("native: unsupported format")

	// ErrBindingConflict is returned when two bindings share a group/binding slot.
	ErrBindingConflict = errors.New("native: duplicate binding slot")

	// ErrShaderCompile is matched by every *ShaderError.
	ErrShaderCompile = errors.New("native: shader compilation failed")
)

// ShaderError reports a WGSL module that naga rejected.
type ShaderError struct {
	Label string
	Stage gpucore.ShaderStage
	Err   error
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("native: %s shader %q: %v", e.Stage, e.Label, e.Err)
}

// Unwrap returns the compiler error.
func (e *ShaderError) Unwrap() error { return e.Err }

// Is reports whether target is ErrShaderCompile.
func (e *ShaderError) Is(target error) bool { return target == ErrShaderCompile }

// Diagnostic returns the compiler message with source context when available.
func (e *ShaderError) Diagnostic() string { return inative.Diagnostic(e.Err) }
