// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vertexsync

import (
	"errors"
	"fmt"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/internal/pack"
	"github.com/gogpu/g3d/resource"
)

// ErrMissingStream is returned by Bind when a program reads a stream the
// source does not provide.
var ErrMissingStream = errors.New("vertexsync: source lacks stream")

// Slot selects the buffer holding a stream.
type Slot uint8

const (
	// SlotStatic is the buffer rewritten only by full rebuilds.
	SlotStatic Slot = iota
	// SlotDynamic is the buffer patched in place.
	SlotDynamic
)

// String returns "static" or "dynamic".
func (s Slot) String() string {
	if s == SlotDynamic {
		return "dynamic"
	}
	return "static"
}

// AttributeLayout locates one stream. Streams are not interleaved: each is
// a contiguous range of Count elements of Stride bytes starting at Offset.
type AttributeLayout struct {
	Slot   Slot
	Offset uint64
	Stride uint64
	Count  int
	Format gpucore.VertexFormat
}

// Size returns the byte length of the stream.
func (l AttributeLayout) Size() uint64 { return l.Stride * uint64(l.Count) }

// UpdateKind is the work done by the last MaybeUpdate.
type UpdateKind uint8

const (
	// UpdateNone wrote nothing.
	UpdateNone UpdateKind = iota
	// UpdatePartial rewrote the changed dynamic streams in place.
	UpdatePartial
	// UpdateOrphan replaced the dynamic buffer because every dynamic
	// stream changed.
	UpdateOrphan
	// UpdateFull reallocated and rewrote every buffer.
	UpdateFull
)

// String returns the kind name.
func (k UpdateKind) String() string {
	switch k {
	case UpdateNone:
		return "none"
	case UpdatePartial:
		return "partial"
	case UpdateOrphan:
		return "orphan"
	case UpdateFull:
		return "full"
	default:
		return fmt.Sprintf("UpdateKind(%d)", int(k))
	}
}

// Sync keeps the GPU buffers of one render object in step with a Source.
//
// Sync is not safe for concurrent use. It belongs to the render goroutine.
type Sync struct {
	device gpucore.Device

	synced      bool
	snapshot    VersionInfo
	present     gpucore.StreamMask
	dynamic     gpucore.StreamMask
	vertexCount int
	indexCount  int
	layouts     [gpucore.NumStreams]AttributeLayout

	buffers [2]*resource.Buffer // indexed by Slot
	index   *resource.Buffer

	last     UpdateKind
	disposed bool
}

// New returns an unsynced Sync allocating on device.
func New(device gpucore.Device) *Sync {
	return &Sync{device: device}
}

// shape is the structural state of a source at one read.
type shape struct {
	versions    VersionInfo
	present     gpucore.StreamMask
	dynamic     gpucore.StreamMask
	vertexCount int
	indices     []uint32
}

func readShape(src Source) shape {
	sh := shape{
		versions:    src.Versions(),
		vertexCount: src.VertexCount(),
		indices:     src.Indices(),
	}
	for s := range gpucore.NumStreams {
		if !src.Has(s) {
			continue
		}
		sh.present |= s.Mask()
		if src.IsDynamic(s) {
			sh.dynamic |= s.Mask()
		}
	}
	return sh
}

// MaybeUpdate brings the buffers up to date with src and reports whether
// anything was written. LastUpdate tells what kind of write it was.
//
// Any structural difference, or a change to a static stream, rebuilds all
// buffers. Otherwise only dynamic streams whose version moved are written:
// all of them into a fresh buffer, or a subset in place.
func (s *Sync) MaybeUpdate(src Source) (bool, error) {
	if s.disposed {
		return false, resource.ErrDisposed
	}
	src.ReadLock()
	defer src.ReadUnlock()

	sh := readShape(src)
	s.last = UpdateNone
	if s.needsRebuild(sh) {
		if err := s.rebuild(src, sh); err != nil {
			return false, err
		}
		s.last = UpdateFull
		s.snapshot = sh.versions
		return true, nil
	}
	if sh.versions.Master == s.snapshot.Master {
		return false, nil
	}

	var changed gpucore.StreamMask
	for st := range gpucore.NumStreams {
		if s.dynamic.Has(st) && sh.versions.Stream(st) != s.snapshot.Stream(st) {
			changed |= st.Mask()
		}
	}
	if changed == 0 {
		return false, nil
	}
	if s.vertexCount == 0 {
		s.snapshot = sh.versions
		return false, nil
	}

	if changed == s.dynamic {
		if err := s.orphan(src); err != nil {
			return false, err
		}
		s.last = UpdateOrphan
	} else {
		if err := s.patch(src, changed); err != nil {
			return false, err
		}
		s.last = UpdatePartial
	}
	s.snapshot = sh.versions
	return true, nil
}

func (s *Sync) needsRebuild(sh shape) bool {
	if !s.synced ||
		sh.versions.Structure != s.snapshot.Structure ||
		sh.present != s.present ||
		sh.dynamic != s.dynamic ||
		sh.vertexCount != s.vertexCount ||
		len(sh.indices) != s.indexCount {
		return true
	}
	static := s.present &^ s.dynamic
	for st := range gpucore.NumStreams {
		if static.Has(st) && sh.versions.Stream(st) != s.snapshot.Stream(st) {
			return true
		}
	}
	return false
}

// rebuild lays out every present stream, reallocates all buffers and
// writes everything.
func (s *Sync) rebuild(src Source, sh shape) error {
	var layouts [gpucore.NumStreams]AttributeLayout
	var sizes [2]uint64
	for st := range gpucore.NumStreams {
		if !sh.present.Has(st) {
			continue
		}
		slot := SlotStatic
		if sh.dynamic.Has(st) {
			slot = SlotDynamic
		}
		l := AttributeLayout{
			Slot:   slot,
			Offset: sizes[slot],
			Stride: st.Format().Size(),
			Count:  sh.vertexCount,
			Format: st.Format(),
		}
		layouts[st] = l
		sizes[slot] += l.Size()
	}

	var buffers [2]*resource.Buffer
	var index *resource.Buffer
	fail := func(err error) error {
		for _, b := range buffers {
			if b != nil {
				_ = b.Dispose()
			}
		}
		if index != nil {
			_ = index.Dispose()
		}
		Logger().Warn("vertexsync: rebuild failed", "err", err)
		return err
	}
	for slot := range buffers {
		if sizes[slot] == 0 {
			continue
		}
		data := make([]byte, 0, sizes[slot])
		for st := range gpucore.NumStreams {
			if sh.present.Has(st) && layouts[st].Slot == Slot(slot) {
				data = appendStream(data, src, st, sh.vertexCount)
			}
		}
		b, err := resource.NewBufferWithData(s.device, "vertexsync/"+Slot(slot).String(), gpucore.BufferUsageVertex, data)
		if err != nil {
			return fail(err)
		}
		buffers[slot] = b
	}
	if len(sh.indices) > 0 {
		b, err := resource.NewBufferWithData(s.device, "vertexsync/index", gpucore.BufferUsageIndex, pack.Uint32s(sh.indices))
		if err != nil {
			return fail(err)
		}
		index = b
	}

	s.release()
	s.buffers = buffers
	s.index = index
	s.layouts = layouts
	s.present = sh.present
	s.dynamic = sh.dynamic
	s.vertexCount = sh.vertexCount
	s.indexCount = len(sh.indices)
	s.synced = true
	Logger().Debug("vertexsync: rebuilt", "vertices", sh.vertexCount,
		"static", sizes[SlotStatic], "dynamic", sizes[SlotDynamic])
	return nil
}

// orphan writes every dynamic stream into a new buffer and drops the old
// one, so in-flight draws never wait on it.
func (s *Sync) orphan(src Source) error {
	old := s.buffers[SlotDynamic]
	data := make([]byte, 0, old.Size())
	for st := range gpucore.NumStreams {
		if s.dynamic.Has(st) {
			data = appendStream(data, src, st, s.vertexCount)
		}
	}
	b, err := resource.NewBufferWithData(s.device, old.Label(), old.Usage(), data)
	if err != nil {
		return err
	}
	_ = old.Dispose()
	s.buffers[SlotDynamic] = b
	return nil
}

// patch rewrites the byte ranges of the changed streams.
func (s *Sync) patch(src Source, changed gpucore.StreamMask) error {
	buf := s.buffers[SlotDynamic]
	for st := range gpucore.NumStreams {
		if !changed.Has(st) {
			continue
		}
		l := s.layouts[st]
		data := appendStream(make([]byte, 0, l.Size()), src, st, s.vertexCount)
		if err := buf.Write(l.Offset, data); err != nil {
			return fmt.Errorf("vertexsync: write %v: %w", st, err)
		}
	}
	return nil
}

func appendStream(b []byte, src Source, st gpucore.Stream, n int) []byte {
	switch st {
	case gpucore.StreamPosition:
		for i := range n {
			b = pack.AppendVec3(b, src.Position(i))
		}
	case gpucore.StreamNormal:
		for i := range n {
			b = pack.AppendVec3(b, src.Normal(i))
		}
	case gpucore.StreamColor:
		for i := range n {
			b = pack.AppendVec4(b, src.Color(i))
		}
	case gpucore.StreamTexCoord:
		for i := range n {
			b = pack.AppendVec2(b, src.TexCoord(i))
		}
	default:
		panic(fmt.Sprintf("vertexsync: unknown stream %v", st))
	}
	return b
}

// LastUpdate returns the kind of the last MaybeUpdate.
func (s *Sync) LastUpdate() UpdateKind { return s.last }

// Synced reports whether a full build has happened.
func (s *Sync) Synced() bool { return s.synced }

// Snapshot returns the versions of the last write.
func (s *Sync) Snapshot() VersionInfo { return s.snapshot }

// Layout returns where stream st lives.
func (s *Sync) Layout(st gpucore.Stream) (AttributeLayout, bool) {
	if !s.synced || !s.present.Has(st) {
		return AttributeLayout{}, false
	}
	return s.layouts[st], true
}

// Buffer returns the buffer of a slot, or nil.
func (s *Sync) Buffer(slot Slot) *resource.Buffer { return s.buffers[slot] }

// Bind sets the vertex buffers read by slots and the index buffer, if any.
func (s *Sync) Bind(pass gpucore.RenderPass, slots gpucore.StreamSlots) error {
	if s.disposed {
		return resource.ErrDisposed
	}
	if !s.synced || s.vertexCount == 0 {
		return nil
	}
	for st := range gpucore.NumStreams {
		slot, ok := slots.StreamSlot(st)
		if !ok {
			continue
		}
		if !s.present.Has(st) {
			return fmt.Errorf("%w: %v", ErrMissingStream, st)
		}
		l := s.layouts[st]
		pass.SetVertexBuffer(slot, s.buffers[l.Slot].ID(), l.Offset)
	}
	if s.index != nil {
		pass.SetIndexBuffer(s.index.ID(), gpucore.IndexFormatUint32, 0)
	}
	return nil
}

// Draw issues one draw of the synchronized geometry. instances below 1
// draw a single instance. Nothing is drawn before the first update.
func (s *Sync) Draw(pass gpucore.RenderPass, instances uint32) {
	if s.disposed || !s.synced || s.vertexCount == 0 {
		return
	}
	instances = max(instances, 1)
	if s.index != nil {
		pass.DrawIndexed(uint32(s.indexCount), instances, 0, 0, 0)
		return
	}
	pass.Draw(uint32(s.vertexCount), instances, 0, 0)
}

func (s *Sync) release() {
	for i, b := range s.buffers {
		if b != nil {
			_ = b.Dispose()
			s.buffers[i] = nil
		}
	}
	if s.index != nil {
		_ = s.index.Dispose()
		s.index = nil
	}
}

// Dispose destroys the buffers. Further updates return resource.ErrDisposed.
func (s *Sync) Dispose() {
	if s.disposed {
		return
	}
	s.release()
	s.disposed = true
	s.synced = false
}
