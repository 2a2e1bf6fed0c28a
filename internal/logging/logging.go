// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package logging holds the silent-by-default slog plumbing shared by the
// g3d packages. Each package keeps its own Var so g3d.SetLogger can fan the
// configured logger out without import cycles.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var nop = slog.New(nopHandler{})

// Nop returns a logger that discards all output.
func Nop() *slog.Logger { return nop }

// Var stores a package logger. Accessed atomically so Store can run
// concurrently with logging from any goroutine. The zero value is silent.
type Var struct {
	p atomic.Pointer[slog.Logger]
}

// Load returns the current logger, never nil.
func (v *Var) Load() *slog.Logger {
	if l := v.p.Load(); l != nil {
		return l
	}
	return nop
}

// Store sets the logger. nil restores the silent default.
func (v *Var) Store(l *slog.Logger) {
	if l == nil {
		l = nop
	}
	v.p.Store(l)
}
