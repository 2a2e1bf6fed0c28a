// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"errors"
	"fmt"

	"github.com/gogpu/g3d/gpucore"
)

// ErrInvalidBufferSize is returned when a buffer of size zero is requested.
var ErrInvalidBufferSize = errors.New("resource: invalid buffer size")

// Buffer is a reference-counted GPU buffer. Disposal destroys the device
// buffer.
type Buffer struct {
	*RefCounted

	device gpucore.Device
	id     gpucore.BufferID
	desc   gpucore.BufferDesc
}

// NewBuffer allocates a device buffer.
func NewBuffer(device gpucore.Device, desc gpucore.BufferDesc) (*Buffer, error) {
	if desc.Size == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBufferSize, desc.Label)
	}
	id, err := device.CreateBuffer(&desc)
	if err != nil {
		return nil, fmt.Errorf("create buffer %q: %w", desc.Label, err)
	}
	b := &Buffer{device: device, id: id, desc: desc}
	b.RefCounted = NewRefCounted(func() { device.DestroyBuffer(id) })
	return b, nil
}

// NewBufferWithData allocates a buffer sized for data and uploads it.
// CopyDst is added to usage.
func NewBufferWithData(device gpucore.Device, label string, usage gpucore.BufferUsage, data []byte) (*Buffer, error) {
	b, err := NewBuffer(device, gpucore.BufferDesc{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | gpucore.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	if err := b.Write(0, data); err != nil {
		_ = b.Dispose()
		return nil, err
	}
	return b, nil
}

// ID returns the device buffer ID, or InvalidID once disposed.
func (b *Buffer) ID() gpucore.BufferID {
	if b.IsDisposed() {
		return gpucore.InvalidID
	}
	return b.id
}

// Label returns the debug label.
func (b *Buffer) Label() string { return b.desc.Label }

// Size returns the buffer size in bytes.
func (b *Buffer) Size() uint64 { return b.desc.Size }

// Usage returns the usage flags.
func (b *Buffer) Usage() gpucore.BufferUsage { return b.desc.Usage }

// Write uploads data at the given byte offset.
func (b *Buffer) Write(offset uint64, data []byte) error {
	if b.IsDisposed() {
		return fmt.Errorf("write %q: %w", b.desc.Label, ErrDisposed)
	}
	if offset+uint64(len(data)) > b.desc.Size {
		return fmt.Errorf("write %q: range [%d, %d) exceeds %d bytes",
			b.desc.Label, offset, offset+uint64(len(data)), b.desc.Size)
	}
	if err := b.device.WriteBuffer(b.id, offset, data); err != nil {
		return fmt.Errorf("write %q: %w", b.desc.Label, err)
	}
	return nil
}
