// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package primitive

import (
	"errors"
	"fmt"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/internal/pack"
	"github.com/gogpu/g3d/resource"
)

// ErrMissingStream is returned by Bind when a program reads a stream the
// geometry does not provide.
var ErrMissingStream = errors.New("primitive: geometry lacks stream")

// Geometry is an uploaded shape: one vertex buffer per stream and a 32-bit
// index buffer. Disposal destroys the buffers.
type Geometry struct {
	*resource.RefCounted

	key         Key
	streams     [gpucore.NumStreams]*resource.Buffer
	index       *resource.Buffer
	vertexCount uint32
	indexCount  uint32
}

// upload copies m into new device buffers. The result has no references.
func upload(device gpucore.Device, key Key, m *Mesh) (*Geometry, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", key, err)
	}
	g := &Geometry{
		key:         key,
		vertexCount: uint32(m.VertexCount()),
		indexCount:  uint32(len(m.Indices)),
	}
	g.RefCounted = resource.NewRefCounted(g.free)

	data := [gpucore.NumStreams][]byte{
		gpucore.StreamPosition: pack.Vec3s(m.Positions),
		gpucore.StreamNormal:   pack.Vec3s(m.Normals),
		gpucore.StreamColor:    pack.Vec4s(m.Colors),
		gpucore.StreamTexCoord: pack.Vec2s(m.TexCoords),
	}
	for s := range gpucore.NumStreams {
		if len(data[s]) == 0 {
			continue
		}
		buf, err := resource.NewBufferWithData(device, fmt.Sprintf("%v/%v", key, s), gpucore.BufferUsageVertex, data[s])
		if err != nil {
			g.free()
			return nil, err
		}
		g.streams[s] = buf
	}
	index, err := resource.NewBufferWithData(device, key.String()+"/index", gpucore.BufferUsageIndex, pack.Uint32s(m.Indices))
	if err != nil {
		g.free()
		return nil, err
	}
	g.index = index
	return g, nil
}

func (g *Geometry) free() {
	for i, buf := range g.streams {
		if buf != nil {
			_ = buf.Dispose()
			g.streams[i] = nil
		}
	}
	if g.index != nil {
		_ = g.index.Dispose()
		g.index = nil
	}
}

// Key returns the key the geometry was built from.
func (g *Geometry) Key() Key { return g.key }

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() uint32 { return g.vertexCount }

// IndexCount returns the number of indices.
func (g *Geometry) IndexCount() uint32 { return g.indexCount }

// Has reports whether the geometry provides stream s.
func (g *Geometry) Has(s gpucore.Stream) bool {
	return s < gpucore.NumStreams && g.streams[s] != nil
}

// Streams returns the set of provided streams.
func (g *Geometry) Streams() gpucore.StreamMask {
	var m gpucore.StreamMask
	for s := range gpucore.NumStreams {
		if g.streams[s] != nil {
			m |= s.Mask()
		}
	}
	return m
}

// Bind sets the vertex buffers read by slots and the index buffer.
func (g *Geometry) Bind(pass gpucore.RenderPass, slots gpucore.StreamSlots) error {
	if g.IsDisposed() {
		return fmt.Errorf("bind %v: %w", g.key, resource.ErrDisposed)
	}
	for s := range gpucore.NumStreams {
		slot, ok := slots.StreamSlot(s)
		if !ok {
			continue
		}
		if g.streams[s] == nil {
			return fmt.Errorf("%w: %v has no %v", ErrMissingStream, g.key, s)
		}
		pass.SetVertexBuffer(slot, g.streams[s].ID(), 0)
	}
	pass.SetIndexBuffer(g.index.ID(), gpucore.IndexFormatUint32, 0)
	return nil
}

// Draw issues one indexed draw of the whole shape. instances below 1 draw
// a single instance. Draw on a disposed geometry records nothing.
func (g *Geometry) Draw(pass gpucore.RenderPass, instances uint32) {
	if g.IsDisposed() {
		return
	}
	pass.DrawIndexed(g.indexCount, max(instances, 1), 0, 0, 0)
}
