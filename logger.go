// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package g3d

import (
	"log/slog"

	"github.com/gogpu/g3d/internal/logging"
	"github.com/gogpu/g3d/primitive"
	"github.com/gogpu/g3d/program"
	"github.com/gogpu/g3d/resource"
	"github.com/gogpu/g3d/vertexsync"
)

var logger logging.Var

// loggerSetters receive the logger passed to SetLogger. Build-tagged files
// append backend setters.
var loggerSetters = []func(*slog.Logger){
	program.SetLogger,
	primitive.SetLogger,
	vertexsync.SetLogger,
	resource.SetLogger,
}

// SetLogger configures the logger for g3d and all its sub-packages.
// By default, g3d produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use. Pass nil to restore the silent
// default.
//
// Log levels used by g3d:
//   - [slog.LevelDebug]: cache misses, compiled programs, buffer rebuilds
//   - [slog.LevelInfo]: context lifecycle
//   - [slog.LevelWarn]: compile failures, refcount misuse
//
// Example:
//
//	g3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	for _, set := range loggerSetters {
		set(l)
	}
}

// Logger returns the current logger used by g3d.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logger.Load()
}
