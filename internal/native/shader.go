// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/wgsl"
)

// ErrEmptySource is returned when there is no WGSL to compile.
var ErrEmptySource = errors.New("native: empty shader source")

// CompileWGSL compiles WGSL source to SPIR-V words.
func CompileWGSL(source string) ([]uint32, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySource
	}
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile wgsl: %w", err)
	}
	return Words(spirvBytes)
}

// Words converts a little-endian SPIR-V byte stream to 32-bit words.
func Words(spirvBytes []byte) ([]uint32, error) {
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("native: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// Validate parses, lowers and validates WGSL without generating code.
// It is used to fail early when the HAL consumes WGSL directly.
func Validate(source string) error {
	if strings.TrimSpace(source) == "" {
		return ErrEmptySource
	}
	ast, err := naga.Parse(source)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return fmt.Errorf("lowering error: %w", err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if len(verrs) > 0 {
		return fmt.Errorf("validation failed: %w", &verrs[0])
	}
	return nil
}

// Diagnostic extracts the compiler's message from a naga error chain,
// including source context when naga recorded a span. It returns
// err.Error() when no structured diagnostic is found, and "" for nil.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}

	var all interface{ FormatAll() string }
	if errors.As(err, &all) {
		if msg := all.FormatAll(); msg != "" {
			return msg
		}
	}
	var one interface{ FormatWithContext() string }
	if errors.As(err, &one) {
		return one.FormatWithContext()
	}
	var perr wgsl.ParseError
	if errors.As(err, &perr) {
		return perr.Error()
	}
	var verr *ir.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return err.Error()
}
