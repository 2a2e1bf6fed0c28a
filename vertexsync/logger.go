// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vertexsync

import (
	"log/slog"

	"github.com/gogpu/g3d/internal/logging"
)

var logger logging.Var

// Logger returns the package logger.
func Logger() *slog.Logger { return logger.Load() }

// SetLogger sets the package logger. nil disables logging.
func SetLogger(l *slog.Logger) { logger.Store(l) }
