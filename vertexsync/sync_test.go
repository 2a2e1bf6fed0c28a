// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vertexsync

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/internal/gputest"
	"github.com/gogpu/g3d/internal/pack"
	"github.com/gogpu/g3d/resource"
)

// editable is a Source with manual version bumps.
type editable struct {
	mu             sync.RWMutex
	locks, unlocks int
	v              VersionInfo
	positions      []f32.Vec3
	normals        []f32.Vec3
	colors         []f32.Vec4
	texcoords      []f32.Vec2
	indices        []uint32
	dynamic        gpucore.StreamMask
}

func newEditable(n int, dynamic ...gpucore.Stream) *editable {
	e := &editable{v: VersionInfo{Master: 1, Structure: 1}}
	e.resize(n)
	for _, s := range dynamic {
		e.dynamic |= s.Mask()
	}
	return e
}

func (e *editable) resize(n int) {
	e.positions = make([]f32.Vec3, n)
	e.normals = make([]f32.Vec3, n)
	e.colors = make([]f32.Vec4, n)
	e.texcoords = make([]f32.Vec2, n)
	for i := range n {
		x := float32(i)
		e.positions[i] = f32.Vec3{x, x + 1, x + 2}
		e.normals[i] = f32.Vec3{0, 0, 1}
		e.colors[i] = f32.Vec4{1, x, 0, 1}
		e.texcoords[i] = f32.Vec2{x, 0}
	}
	e.indices = nil
	for i := 0; i+2 < n; i += 3 {
		e.indices = append(e.indices, uint32(i), uint32(i+1), uint32(i+2))
	}
	e.v.Master++
	e.v.Structure++
}

// bump marks streams edited.
func (e *editable) bump(streams ...gpucore.Stream) {
	e.v.Master++
	for _, s := range streams {
		switch s {
		case gpucore.StreamPosition:
			e.v.Positions++
		case gpucore.StreamNormal:
			e.v.Normals++
		case gpucore.StreamColor:
			e.v.Colors++
		case gpucore.StreamTexCoord:
			e.v.TexCoords++
		}
	}
}

func (e *editable) ReadLock() { e.mu.RLock(); e.locks++ }

func (e *editable) ReadUnlock() { e.unlocks++; e.mu.RUnlock() }

func (e *editable) Versions() VersionInfo { return e.v }

func (e *editable) VertexCount() int { return len(e.positions) }

func (e *editable) Has(s gpucore.Stream) bool {
	return s == gpucore.StreamTexCoord && e.texcoords != nil ||
		s == gpucore.StreamColor && e.colors != nil ||
		s == gpucore.StreamNormal && e.normals != nil ||
		s == gpucore.StreamPosition
}

func (e *editable) IsDynamic(s gpucore.Stream) bool { return e.dynamic.Has(s) }

func (e *editable) Position(i int) f32.Vec3 { return e.positions[i] }

func (e *editable) Normal(i int) f32.Vec3 { return e.normals[i] }

func (e *editable) Color(i int) f32.Vec4 { return e.colors[i] }

func (e *editable) TexCoord(i int) f32.Vec2 { return e.texcoords[i] }

func (e *editable) Indices() []uint32 { return e.indices }

func mustUpdate(t *testing.T, s *Sync, src Source, wantWrote bool, want UpdateKind) {
	t.Helper()
	wrote, err := s.MaybeUpdate(src)
	if err != nil {
		t.Fatalf("MaybeUpdate: %v", err)
	}
	if wrote != wantWrote || s.LastUpdate() != want {
		t.Fatalf("MaybeUpdate = %t/%v, want %t/%v", wrote, s.LastUpdate(), wantWrote, want)
	}
}

func TestFirstUpdateBuildsEverything(t *testing.T) {
	dev := gputest.NewDevice()
	src := newEditable(6, gpucore.StreamColor)
	s := New(dev)

	if _, ok := s.Layout(gpucore.StreamPosition); ok {
		t.Fatal("layout before the first update")
	}
	mustUpdate(t, s, src, true, UpdateFull)

	want := map[gpucore.Stream]AttributeLayout{
		gpucore.StreamPosition: {Slot: SlotStatic, Offset: 0, Stride: 12, Count: 6, Format: gpucore.VertexFormatFloat32x3},
		gpucore.StreamNormal:   {Slot: SlotStatic, Offset: 72, Stride: 12, Count: 6, Format: gpucore.VertexFormatFloat32x3},
		gpucore.StreamColor:    {Slot: SlotDynamic, Offset: 0, Stride: 16, Count: 6, Format: gpucore.VertexFormatFloat32x4},
		gpucore.StreamTexCoord: {Slot: SlotStatic, Offset: 144, Stride: 8, Count: 6, Format: gpucore.VertexFormatFloat32x2},
	}
	for st, w := range want {
		if got, ok := s.Layout(st); !ok || got != w {
			t.Errorf("Layout(%v) = %+v, want %+v", st, got, w)
		}
	}

	static := dev.Buffer(s.Buffer(SlotStatic).ID())
	if static == nil || len(static.Data) != 192 {
		t.Fatalf("static buffer = %+v", static)
	}
	if got := pack.Float32At(static.Data, 72+12*5+8); got != 1 {
		t.Errorf("normal 5 z = %v, want 1", got)
	}
	dyn := dev.Buffer(s.Buffer(SlotDynamic).ID())
	if got := pack.Float32At(dyn.Data, 16*3+4); got != 3 {
		t.Errorf("color 3 green = %v, want 3", got)
	}
	if src.locks != 1 || src.unlocks != 1 {
		t.Errorf("locks=%d unlocks=%d", src.locks, src.unlocks)
	}
}

func TestUnchangedSourceWritesNothing(t *testing.T) {
	dev := gputest.NewDevice()
	src := newEditable(3, gpucore.StreamColor)
	s := New(dev)
	mustUpdate(t, s, src, true, UpdateFull)
	dev.Writes()

	mustUpdate(t, s, src, false, UpdateNone)

	// A master bump without dynamic stream changes is also a no-op.
	src.bump()
	mustUpdate(t, s, src, false, UpdateNone)
	if w := dev.Writes(); len(w) != 0 {
		t.Errorf("writes = %v", w)
	}
}

func TestColorOnlyChangeIsPartial(t *testing.T) {
	dev := gputest.NewDevice()
	src := newEditable(9, gpucore.StreamPosition, gpucore.StreamNormal, gpucore.StreamColor)
	s := New(dev)
	mustUpdate(t, s, src, true, UpdateFull)
	dev.Writes()
	dynID := s.Buffer(SlotDynamic).ID()

	src.colors[4] = f32.Vec4{0, 0, 1, 1}
	src.bump(gpucore.StreamColor)
	mustUpdate(t, s, src, true, UpdatePartial)

	color, _ := s.Layout(gpucore.StreamColor)
	want := []gputest.Write{{Buffer: dynID, Offset: color.Offset, Size: 9 * 16}}
	if got := dev.Writes(); !slices.Equal(got, want) {
		t.Fatalf("writes = %+v, want %+v", got, want)
	}
	if s.Buffer(SlotDynamic).ID() != dynID {
		t.Error("partial update replaced the buffer")
	}
	data := dev.Buffer(dynID).Data
	if got := pack.Float32At(data, int(color.Offset)+4*16+8); got != 1 {
		t.Errorf("color 4 blue = %v, want 1", got)
	}
	if s.Snapshot() != src.Versions() {
		t.Errorf("snapshot = %+v, want %+v", s.Snapshot(), src.Versions())
	}
}

func TestAllDynamicChangedOrphans(t *testing.T) {
	dev := gputest.NewDevice()
	src := newEditable(6, gpucore.StreamPosition, gpucore.StreamColor)
	s := New(dev)
	mustUpdate(t, s, src, true, UpdateFull)
	staticID := s.Buffer(SlotStatic).ID()
	oldDyn := s.Buffer(SlotDynamic)
	oldID := oldDyn.ID()

	src.bump(gpucore.StreamPosition, gpucore.StreamColor)
	mustUpdate(t, s, src, true, UpdateOrphan)

	if !oldDyn.IsDisposed() || dev.Buffer(oldID) != nil {
		t.Error("old dynamic buffer not destroyed")
	}
	newDyn := s.Buffer(SlotDynamic)
	if newDyn == oldDyn || newDyn.Size() != oldDyn.Size() {
		t.Errorf("dynamic buffer not replaced: size %d -> %d", oldDyn.Size(), newDyn.Size())
	}
	if s.Buffer(SlotStatic).ID() != staticID {
		t.Error("orphan touched the static buffer")
	}
}

func TestRebuildTriggers(t *testing.T) {
	tests := []struct {
		name string
		edit func(*editable)
	}{
		{"vertex count", func(e *editable) { e.resize(12) }},
		{"structure version", func(e *editable) { e.v.Master++; e.v.Structure++ }},
		{"static stream", func(e *editable) { e.bump(gpucore.StreamNormal) }},
		{"classification", func(e *editable) { e.dynamic |= gpucore.StreamNormal.Mask(); e.v.Master++ }},
		{"stream removed", func(e *editable) { e.texcoords = nil; e.v.Master++ }},
		{"index count", func(e *editable) { e.indices = e.indices[:3]; e.v.Master++ }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gputest.NewDevice()
			src := newEditable(9, gpucore.StreamColor)
			s := New(dev)
			mustUpdate(t, s, src, true, UpdateFull)
			tt.edit(src)
			mustUpdate(t, s, src, true, UpdateFull)

			if buffers, _, _ := dev.Live(); buffers != 3 {
				t.Errorf("%d live buffers after rebuild, want 3", buffers)
			}
		})
	}
}

func TestBindDraw(t *testing.T) {
	src := newEditable(6, gpucore.StreamColor)
	s := New(gputest.NewDevice())
	pass := &gputest.Pass{}

	if err := s.Bind(pass, slotMap{}); err != nil {
		t.Fatalf("Bind before update: %v", err)
	}
	s.Draw(pass, 1)
	if len(pass.Calls) != 0 {
		t.Fatalf("unsynced calls = %q", pass.Calls)
	}

	mustUpdate(t, s, src, true, UpdateFull)
	slots := slotMap{gpucore.StreamPosition: 0, gpucore.StreamColor: 1, gpucore.StreamTexCoord: 2}
	if err := s.Bind(pass, slots); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	s.Draw(pass, 2)

	static, dyn := s.Buffer(SlotStatic).ID(), s.Buffer(SlotDynamic).ID()
	want := []string{
		fmt.Sprintf("vertex 0 %d @0", static),
		fmt.Sprintf("vertex 1 %d @0", dyn),
		fmt.Sprintf("vertex 2 %d @144", static),
		fmt.Sprintf("index %d fmt%d @0", s.index.ID(), gpucore.IndexFormatUint32),
		"drawIndexed 6 2",
	}
	if !slices.Equal(pass.Calls, want) {
		t.Errorf("calls = %q, want %q", pass.Calls, want)
	}

	src.texcoords = nil
	src.v.Master++
	mustUpdate(t, s, src, true, UpdateFull)
	if err := s.Bind(pass, slots); !errors.Is(err, ErrMissingStream) {
		t.Errorf("Bind without texcoords = %v", err)
	}
}

func TestDrawNonIndexed(t *testing.T) {
	src := newEditable(2)
	s := New(gputest.NewDevice())
	mustUpdate(t, s, src, true, UpdateFull)

	pass := &gputest.Pass{}
	s.Draw(pass, 0)
	if !slices.Equal(pass.Calls, []string{"draw 2 1"}) {
		t.Errorf("calls = %q", pass.Calls)
	}
	if s.Buffer(SlotDynamic) != nil {
		t.Error("dynamic buffer allocated without dynamic streams")
	}
}

func TestUpdateFailure(t *testing.T) {
	dev := gputest.NewDevice()
	src := newEditable(3, gpucore.StreamColor)
	s := New(dev)

	dev.FailBuffer = true
	if _, err := s.MaybeUpdate(src); !errors.Is(err, gputest.ErrInjected) {
		t.Fatalf("MaybeUpdate = %v, want ErrInjected", err)
	}
	if s.Synced() {
		t.Fatal("failed build marked synced")
	}
	if src.locks != src.unlocks {
		t.Errorf("locks=%d unlocks=%d", src.locks, src.unlocks)
	}

	dev.FailBuffer = false
	mustUpdate(t, s, src, true, UpdateFull)
}

func TestDispose(t *testing.T) {
	dev := gputest.NewDevice()
	src := newEditable(3, gpucore.StreamColor)
	s := New(dev)
	mustUpdate(t, s, src, true, UpdateFull)

	s.Dispose()
	s.Dispose()
	if buffers, _, _ := dev.Live(); buffers != 0 {
		t.Errorf("%d buffers live after Dispose", buffers)
	}
	if _, err := s.MaybeUpdate(src); !errors.Is(err, resource.ErrDisposed) {
		t.Errorf("MaybeUpdate after Dispose = %v", err)
	}
	if err := s.Bind(&gputest.Pass{}, slotMap{}); !errors.Is(err, resource.ErrDisposed) {
		t.Errorf("Bind after Dispose = %v", err)
	}
}

func TestUpdateKindString(t *testing.T) {
	for k, want := range map[UpdateKind]string{
		UpdateNone: "none", UpdatePartial: "partial", UpdateOrphan: "orphan", UpdateFull: "full", 9: "UpdateKind(9)",
	} {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

type slotMap map[gpucore.Stream]uint32

func (m slotMap) StreamSlot(s gpucore.Stream) (uint32, bool) {
	slot, ok := m[s]
	return slot, ok
}
