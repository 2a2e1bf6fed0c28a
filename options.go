// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package g3d

import (
	"time"

	"github.com/gogpu/g3d/gpucore"
)

// DefaultGarbageInterval is the minimum time between primitive sweeps.
const DefaultGarbageInterval = 2 * time.Second

// ContextOption configures a Context during creation.
//
// Example:
//
//	ctx := g3d.NewContext(device,
//	    g3d.WithLightCount(2),
//	    g3d.WithGarbageInterval(5*time.Second),
//	)
type ContextOption func(*contextOptions)

// contextOptions holds optional configuration for Context creation.
type contextOptions struct {
	lights          int
	clipPlanes      int
	garbageInterval time.Duration
	programLimit    int
	colorFormat     gpucore.TextureFormat
	colorSet        bool
	depthFormat     gpucore.TextureFormat
	sampleCount     uint32
}

// defaultOptions returns the default context options.
func defaultOptions() contextOptions {
	return contextOptions{
		garbageInterval: DefaultGarbageInterval,
		colorFormat:     gpucore.TextureFormatBGRA8Unorm,
		depthFormat:     gpucore.TextureFormatDepth24PlusStencil8,
		sampleCount:     1,
	}
}

// WithLightCount sets the number of lights compiled into lit programs.
func WithLightCount(n int) ContextOption {
	return func(o *contextOptions) { o.lights = n }
}

// WithClipPlaneCount sets the number of clip planes compiled into programs.
func WithClipPlaneCount(n int) ContextOption {
	return func(o *contextOptions) { o.clipPlanes = n }
}

// WithGarbageInterval sets the minimum time between primitive sweeps run
// by CollectGarbage. Non-positive values sweep on every call.
func WithGarbageInterval(d time.Duration) ContextOption {
	return func(o *contextOptions) { o.garbageInterval = d }
}

// WithProgramLimit caps the number of cached programs. 0 means unlimited.
func WithProgramLimit(n int) ContextOption {
	return func(o *contextOptions) { o.programLimit = n }
}

// WithColorFormat sets the color target format of compiled pipelines.
// NewContextFromProvider defaults it to the surface format.
func WithColorFormat(f gpucore.TextureFormat) ContextOption {
	return func(o *contextOptions) {
		o.colorFormat = f
		o.colorSet = true
	}
}

// WithDepthFormat sets the depth target format. 0 disables depth testing.
func WithDepthFormat(f gpucore.TextureFormat) ContextOption {
	return func(o *contextOptions) { o.depthFormat = f }
}

// WithSampleCount sets the MSAA sample count of pipelines created by
// NewContextFromProvider.
func WithSampleCount(n uint32) ContextOption {
	return func(o *contextOptions) { o.sampleCount = n }
}
