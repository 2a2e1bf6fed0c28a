// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package g3d

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d/backend/native"
	"github.com/gogpu/g3d/gpucore"
)

// ErrNoHAL is returned when a device provider does not expose HAL types.
var ErrNoHAL = errors.New("g3d: provider does not expose HAL device and queue")

func init() {
	loggerSetters = append(loggerSetters, native.SetLogger)
}

// halProvider is implemented by device providers that share their HAL
// device and queue.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewContextFromProvider creates a Context on the device of a gpucontext
// provider. The provider must also implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue. Unless WithColorFormat
// is given, pipelines target the provider's surface format.
//
// The device stays owned by the provider; Shutdown destroys only the
// objects the context created.
func NewContextFromProvider(p gpucontext.DeviceProvider, opts ...ContextOption) (*Context, error) {
	hp, ok := p.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHAL, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNoHAL, hp.HalQueue())
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.colorSet {
		f, err := surfaceFormat(p.SurfaceFormat())
		if err != nil {
			return nil, err
		}
		o.colorFormat = f
	}

	adapter := native.NewHALAdapter(device, queue, native.WithSampleCount(o.sampleCount))
	return newContext(adapter, o, adapter.Destroy), nil
}

// surfaceFormat maps a surface format to a color target format.
func surfaceFormat(f gputypes.TextureFormat) (gpucore.TextureFormat, error) {
	switch f {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatUndefined:
		return gpucore.TextureFormatBGRA8Unorm, nil
	case gputypes.TextureFormatRGBA8Unorm:
		return gpucore.TextureFormatRGBA8Unorm, nil
	default:
		return 0, fmt.Errorf("g3d: unsupported surface format %v", f)
	}
}
