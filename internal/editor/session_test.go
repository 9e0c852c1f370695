package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/catalog"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/outline"
)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	n := 0
	ids := WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
	s, err := New(catalog.Default(), append([]Option{ids}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func drop(t *testing.T, s *Session, entryID string, x, y float64) (Placement, bool) {
	t.Helper()
	if err := s.BeginDrag(entryID); err != nil {
		t.Fatalf("BeginDrag(%s): %v", entryID, err)
	}
	if _, err := s.UpdateDrag(x, y); err != nil {
		t.Fatalf("UpdateDrag: %v", err)
	}
	return s.CommitDrag()
}

func TestNewSessionDefaults(t *testing.T) {
	s := newSession(t)
	st := s.State()
	if !reflect.DeepEqual(st.Vertices, outline.DefaultOutline()) {
		t.Errorf("vertices = %v, want default rectangle", st.Vertices)
	}
	if m := s.Metrics(); m.TotalArea != 1000 {
		t.Errorf("TotalArea = %v, want 1000", m.TotalArea)
	}
	if st.WallHeight != floorplan.DefaultWallHeight {
		t.Errorf("WallHeight = %v, want %v", st.WallHeight, floorplan.DefaultWallHeight)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("fresh session should have nothing to undo or redo")
	}
}

func TestNewSessionRequiresCatalog(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error without a catalog")
	}
}

func TestNewSessionRejectsBadState(t *testing.T) {
	_, err := New(catalog.Default(), WithState(floorplan.State{Vertices: []floorplan.Vertex{{X: 1, Y: 1}}}))
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDropFloorItemCommitsHistory(t *testing.T) {
	s := newSession(t)
	p, ok := drop(t, s, "standard-pallet", 2, 2)
	if !ok || p.Item == nil {
		t.Fatalf("drop rejected: %+v", p)
	}
	if p.Item.InstanceID != "id-1" {
		t.Errorf("InstanceID = %q, want id-1", p.Item.InstanceID)
	}
	if s.Selected() != "id-1" {
		t.Errorf("selected = %q, want the new item", s.Selected())
	}
	if !s.CanUndo() {
		t.Fatal("drop not committed to history")
	}
	if _, err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if len(s.State().Items) != 0 {
		t.Error("undo did not remove the item")
	}
	if s.Selected() != "" {
		t.Error("selection should be cleared when its item is undone away")
	}
}

func TestInvalidDropIsSilent(t *testing.T) {
	s := newSession(t)
	drop(t, s, "standard-pallet", 2, 2)
	before := s.State()

	if err := s.BeginDrag("standard-pallet"); err != nil {
		t.Fatal(err)
	}
	valid, err := s.UpdateDrag(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if valid {
		t.Error("overlapping drag reported valid")
	}
	if sc := s.Scene(); sc.Drag == nil || sc.Drag.Valid {
		t.Errorf("scene drag preview = %+v, want an invalid preview", sc.Drag)
	}
	if _, ok := s.CommitDrag(); ok {
		t.Error("overlapping drop accepted")
	}
	if !reflect.DeepEqual(before, s.State()) {
		t.Error("state changed after a rejected drop")
	}
	if s.Notice() != "" {
		t.Errorf("notice = %q, rejected drops are not notices", s.Notice())
	}
	if s.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", s.Mode())
	}
}

func TestWallDropCreatesOpeningOutsideHistory(t *testing.T) {
	s := newSession(t)
	drop(t, s, "standard-pallet", 2, 2)

	p, ok := drop(t, s, "dock-door", 20, 1)
	if !ok || p.Opening == nil {
		t.Fatalf("wall drop rejected: %+v", p)
	}
	if p.Opening.WallIndex != 0 || p.Opening.Position != 0.5 || p.Opening.Height != 10 {
		t.Errorf("opening = %+v", p.Opening)
	}
	if len(s.State().Items) != 1 {
		t.Error("wall entry became a placed item")
	}

	s.Undo()
	if got := len(s.State().Openings); got != 1 {
		t.Errorf("openings after undo = %d, want 1 (openings are not in history)", got)
	}
	if s.Metrics().DoorCount != 1 {
		t.Errorf("DoorCount = %d, want 1", s.Metrics().DoorCount)
	}
}

func TestWallDropFarFromWallIgnored(t *testing.T) {
	s := newSession(t)
	if _, ok := drop(t, s, "window", 20, 12); ok {
		t.Error("window dropped mid-floor was accepted")
	}
	if len(s.State().Openings) != 0 {
		t.Error("opening created")
	}
}

func TestBeginDragUnknownEntry(t *testing.T) {
	s := newSession(t)
	if err := s.BeginDrag("teleporter"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestVertexDragCommitsOnce(t *testing.T) {
	s := newSession(t)
	if err := s.BeginVertexDrag(2); err != nil {
		t.Fatal(err)
	}
	for x := 41.0; x <= 45; x++ {
		if err := s.DragVertex(floorplan.Vertex{X: x, Y: 25}); err != nil {
			t.Fatal(err)
		}
	}
	if s.CanUndo() {
		t.Error("drag frames were committed")
	}
	if err := s.EndVertexDrag(); err != nil {
		t.Fatal(err)
	}
	s.Undo()
	if s.CanUndo() {
		t.Error("expected exactly one history entry for the drag")
	}
	if got := s.State().Vertices[2]; got != (floorplan.Vertex{X: 40, Y: 25}) {
		t.Errorf("vertex after undo = %+v", got)
	}
}

func TestBlockedEditsSetNotice(t *testing.T) {
	s := newSession(t, WithState(floorplan.State{
		Vertices: []floorplan.Vertex{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 25}},
	}))

	err := s.DeleteVertex(0)
	if !errors.Is(err, apperr.ErrBlocked) {
		t.Fatalf("err = %v, want ErrBlocked", err)
	}
	if s.Notice() == "" {
		t.Error("blocked delete left no notice")
	}
	if len(s.State().Vertices) != 3 {
		t.Error("vertex deleted")
	}
	s.ClearNotice()

	if err := s.AddIndent(0); !errors.Is(err, apperr.ErrBlocked) {
		t.Fatalf("indent err = %v, want ErrBlocked", err)
	}
	if len(s.State().Vertices) != 3 {
		t.Error("indent changed the outline")
	}
	if s.CanUndo() {
		t.Error("blocked edits must not be committed")
	}
}

func TestStructuralEditsBusyDuringDrag(t *testing.T) {
	s := newSession(t)
	if err := s.BeginDrag("standard-pallet"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBump(0); !errors.Is(err, apperr.ErrBusy) {
		t.Errorf("AddBump err = %v, want ErrBusy", err)
	}
	if err := s.BeginVertexDrag(0); !errors.Is(err, apperr.ErrBusy) {
		t.Errorf("BeginVertexDrag err = %v, want ErrBusy", err)
	}
	if _, err := s.Undo(); !errors.Is(err, apperr.ErrBusy) {
		t.Errorf("Undo err = %v, want ErrBusy", err)
	}
	s.CancelDrag()
	if err := s.AddBump(0); err != nil {
		t.Errorf("AddBump after cancel: %v", err)
	}
}

func TestItemDragBusyDuringVertexDrag(t *testing.T) {
	s := newSession(t)
	p, _ := drop(t, s, "standard-pallet", 2, 2)
	if err := s.BeginVertexDrag(1); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginDrag("standard-pallet"); !errors.Is(err, apperr.ErrBusy) {
		t.Errorf("BeginDrag err = %v, want ErrBusy", err)
	}
	if err := s.Move(p.Item.InstanceID, 5, 5); !errors.Is(err, apperr.ErrBusy) {
		t.Errorf("Move err = %v, want ErrBusy", err)
	}
}

func TestUndoRedoRoundTripPreservesArea(t *testing.T) {
	s := newSession(t)
	start := s.State()
	areaStart := s.Metrics().TotalArea

	steps := []func() error{
		func() error { return s.AddIndent(0) },
		func() error { return s.AddBump(2) },
		func() error { return s.InsertVertex(9, floorplan.Vertex{X: 40, Y: 10}) },
		func() error { return s.MoveVertex(10, floorplan.Vertex{X: 44, Y: 10}) },
		func() error { return s.ResizeEdge(11, 44) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	p, ok := drop(t, s, "selective-rack", 2, 8)
	if !ok {
		t.Fatal("rack drop rejected")
	}
	if err := s.Rotate(p.Item.InstanceID); err != nil {
		t.Fatal(err)
	}
	end := s.State()
	areaEnd := s.Metrics().TotalArea
	n := len(steps) + 2

	for i := 0; i < n; i++ {
		if ok, err := s.Undo(); !ok || err != nil {
			t.Fatalf("undo %d: ok=%v err=%v", i, ok, err)
		}
	}
	if !reflect.DeepEqual(s.State(), start) {
		t.Errorf("state after undo-all = %+v, want %+v", s.State(), start)
	}
	if s.Metrics().TotalArea != areaStart {
		t.Errorf("area = %v, want %v", s.Metrics().TotalArea, areaStart)
	}
	for i := 0; i < n; i++ {
		s.Redo()
	}
	if !reflect.DeepEqual(s.State(), end) {
		t.Errorf("state after redo-all = %+v, want %+v", s.State(), end)
	}
	if s.Metrics().TotalArea != areaEnd {
		t.Errorf("area = %v, want %v", s.Metrics().TotalArea, areaEnd)
	}
}

func TestEndItemMoveRevertsInvalidDrop(t *testing.T) {
	s := newSession(t)
	a, _ := drop(t, s, "standard-pallet", 2, 2)
	b, _ := drop(t, s, "standard-pallet", 20, 2)
	id := b.Item.InstanceID

	if err := s.BeginItemMove(id); err != nil {
		t.Fatal(err)
	}
	valid, err := s.MoveItem(a.Item.X, a.Item.Y)
	if err != nil {
		t.Fatal(err)
	}
	if valid {
		t.Error("move onto another item reported valid")
	}
	ok, err := s.EndItemMove()
	if err != nil || ok {
		t.Fatalf("EndItemMove = %v, %v; want false, nil", ok, err)
	}
	it := s.State().Items[1]
	if it.X != 20 || it.Y != 2 {
		t.Errorf("item at (%v,%v), want back at (20,2)", it.X, it.Y)
	}
}

func TestEndItemMoveCommitsValidDrop(t *testing.T) {
	s := newSession(t)
	p, _ := drop(t, s, "standard-pallet", 2, 2)
	id := p.Item.InstanceID
	if err := s.BeginItemMove(id); err != nil {
		t.Fatal(err)
	}
	// Overlapping its own old footprint is fine.
	if valid, _ := s.MoveItem(3, 3); !valid {
		t.Error("self overlap counted as invalid")
	}
	if ok, _ := s.EndItemMove(); !ok {
		t.Fatal("valid move rejected")
	}
	s.Undo()
	if it := s.State().Items[0]; it.X != 2 {
		t.Errorf("undo of move left item at x=%v", it.X)
	}
}

func TestFreeMoveIsNotValidatedOrCommitted(t *testing.T) {
	s := newSession(t)
	p, _ := drop(t, s, "standard-pallet", 2, 2)
	v := s.Version()
	if err := s.Move(p.Item.InstanceID, 100, 100); err != nil {
		t.Fatal(err)
	}
	if s.State().Items[0].X != 100 {
		t.Error("free move not applied")
	}
	if s.Version() == v {
		t.Error("version did not change")
	}
	s.Undo()
	if len(s.State().Items) != 0 {
		t.Error("undo should go back past the drop, not to the free move")
	}
}

func TestHandleKey(t *testing.T) {
	s := newSession(t)
	p, _ := drop(t, s, "selective-rack", 2, 2)

	if handled, _ := s.HandleKey("r", true); handled {
		t.Error("shortcut dispatched while a text input had focus")
	}
	if s.State().Items[0].Rotation != 0 {
		t.Error("rotation changed during text entry")
	}

	if handled, err := s.HandleKey("r", false); !handled || err != nil {
		t.Fatalf("rotate: handled=%v err=%v", handled, err)
	}
	if s.State().Items[0].Rotation != 90 {
		t.Errorf("rotation = %d, want 90", s.State().Items[0].Rotation)
	}

	s.HandleKey("ctrl+d", false)
	if len(s.State().Items) != 2 {
		t.Fatalf("items = %d after duplicate", len(s.State().Items))
	}
	s.HandleKey("delete", false)
	if len(s.State().Items) != 1 || s.State().Items[0].InstanceID != p.Item.InstanceID {
		t.Errorf("delete removed the wrong item: %+v", s.State().Items)
	}

	s.HandleKey("ctrl+z", false)
	if len(s.State().Items) != 2 {
		t.Error("ctrl+z did not undo the delete")
	}
	s.HandleKey("ctrl+y", false)
	if len(s.State().Items) != 1 {
		t.Error("ctrl+y did not redo the delete")
	}

	if handled, _ := s.HandleKey("q", false); handled {
		t.Error("unbound key reported handled")
	}
}

func TestSplitMakesOpeningStale(t *testing.T) {
	s := newSession(t)
	p, ok := drop(t, s, "dock-door", 20, 1)
	if !ok {
		t.Fatal("door drop rejected")
	}
	if len(s.StaleOpenings()) != 0 {
		t.Fatal("fresh opening reported stale")
	}
	if err := s.InsertVertex(0, floorplan.Vertex{X: 10, Y: 0}); err != nil {
		t.Fatal(err)
	}
	o := s.State().Openings[0]
	if o.WallIndex != 0 || o.Position != 0.5 {
		t.Errorf("opening rewritten: %+v", o)
	}
	if stale := s.StaleOpenings(); len(stale) != 1 || stale[0] != p.Opening.ID {
		t.Errorf("StaleOpenings = %v, want [%s]", stale, p.Opening.ID)
	}
	if sc := s.Scene(); !sc.IsStale(p.Opening.ID) {
		t.Error("scene does not flag the stale opening")
	}
}

func TestSetWallHeight(t *testing.T) {
	s := newSession(t)
	if err := s.SetWallHeight(-1); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if err := s.SetWallHeight(28); err != nil {
		t.Fatal(err)
	}
	if s.State().WallHeight != 28 {
		t.Errorf("WallHeight = %v", s.State().WallHeight)
	}
	if s.CanUndo() {
		t.Error("wall height is not part of history")
	}
}

func TestHitTesting(t *testing.T) {
	s := newSession(t)
	drop(t, s, "standard-pallet", 2, 2)

	if i, ok := s.VertexAt(geometry.Point{X: 39.6, Y: 0.3}, 1); !ok || i != 1 {
		t.Errorf("VertexAt = %d, %v; want 1", i, ok)
	}
	if _, ok := s.VertexAt(geometry.Point{X: 20, Y: 12}, 1); ok {
		t.Error("VertexAt matched in the middle of the floor")
	}
	if e, at, ok := s.EdgeAt(geometry.Point{X: 20, Y: 24.5}, 1); !ok || e != 2 || at.Y != 25 {
		t.Errorf("EdgeAt = %d %+v %v", e, at, ok)
	}
	if it, ok := s.ItemAt(geometry.Point{X: 3, Y: 3}); !ok || it.ID != "standard-pallet" {
		t.Errorf("ItemAt = %+v, %v", it, ok)
	}
}

func TestSuccessfulEditClearsNotice(t *testing.T) {
	s := newSession(t, WithState(floorplan.State{
		Vertices: []floorplan.Vertex{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 25}},
	}))
	if err := s.DeleteVertex(0); !errors.Is(err, apperr.ErrBlocked) {
		t.Fatalf("err = %v, want ErrBlocked", err)
	}
	if s.Notice() == "" {
		t.Fatal("blocked delete left no notice")
	}

	if err := s.InsertVertex(0, floorplan.Vertex{X: 15, Y: 0}); err != nil {
		t.Fatal(err)
	}
	if n := s.Notice(); n != "" {
		t.Errorf("notice after insert = %q, want empty", n)
	}

	if err := s.DeleteVertex(0); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteVertex(0); !errors.Is(err, apperr.ErrBlocked) {
		t.Fatalf("delete at three corners err = %v, want ErrBlocked", err)
	}
	if ok, err := s.Undo(); err != nil || !ok {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	if n := s.Notice(); n != "" {
		t.Errorf("notice after undo = %q, want empty", n)
	}
}

func TestNonFiniteInputRejected(t *testing.T) {
	s := newSession(t)
	p, _ := drop(t, s, "standard-pallet", 2, 2)
	id := p.Item.InstanceID
	nan, inf := math.NaN(), math.Inf(1)

	for _, h := range []float64{nan, inf, math.Inf(-1)} {
		if err := s.SetWallHeight(h); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("SetWallHeight(%v) err = %v, want ErrInvalidInput", h, err)
		}
	}
	if err := s.Move(id, nan, 3); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("Move err = %v", err)
	}
	if err := s.MoveVertex(1, floorplan.Vertex{X: inf, Y: 0}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("MoveVertex err = %v", err)
	}
	if err := s.InsertVertex(0, floorplan.Vertex{X: 10, Y: nan}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("InsertVertex err = %v", err)
	}
	if err := s.ResizeEdge(0, inf); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("ResizeEdge err = %v", err)
	}

	st := s.State()
	if st.WallHeight != floorplan.DefaultWallHeight {
		t.Errorf("WallHeight = %v", st.WallHeight)
	}
	if st.Items[0].X != 2 || st.Items[0].Y != 2 {
		t.Errorf("item moved to (%v,%v)", st.Items[0].X, st.Items[0].Y)
	}
	if !reflect.DeepEqual(st.Vertices, outline.DefaultOutline()) {
		t.Errorf("outline changed: %v", st.Vertices)
	}
	if _, err := json.Marshal(floorplan.NewDocument("p", st, time.Now())); err != nil {
		t.Errorf("document no longer encodes: %v", err)
	}
}

func TestVertexDragBackToStartLeavesHistory(t *testing.T) {
	s := newSession(t)
	if err := s.BeginVertexDrag(2); err != nil {
		t.Fatal(err)
	}
	if err := s.DragVertex(floorplan.Vertex{X: 44, Y: 25}); err != nil {
		t.Fatal(err)
	}
	if err := s.DragVertex(floorplan.Vertex{X: 40, Y: 25}); err != nil {
		t.Fatal(err)
	}
	if err := s.EndVertexDrag(); err != nil {
		t.Fatal(err)
	}
	if s.CanUndo() {
		t.Error("unmoved corner added an undo step")
	}
}

func TestCancelRevertsMoveAndVertexDrag(t *testing.T) {
	s := newSession(t)
	p, _ := drop(t, s, "standard-pallet", 2, 2)
	id := p.Item.InstanceID

	if err := s.BeginItemMove(id); err != nil {
		t.Fatal(err)
	}
	if _, err := s.MoveItem(10, 10); err != nil {
		t.Fatal(err)
	}
	if handled, err := s.HandleKey("esc", false); !handled || err != nil {
		t.Fatalf("esc = %v, %v", handled, err)
	}
	if s.Mode() != ModeIdle {
		t.Errorf("mode = %s after cancel", s.Mode())
	}
	if it := s.State().Items[0]; it.X != 2 || it.Y != 2 {
		t.Errorf("item at (%v,%v), want back at (2,2)", it.X, it.Y)
	}

	if err := s.BeginVertexDrag(2); err != nil {
		t.Fatal(err)
	}
	if err := s.DragVertex(floorplan.Vertex{X: 50, Y: 30}); err != nil {
		t.Fatal(err)
	}
	s.Cancel()
	if s.Mode() != ModeIdle {
		t.Errorf("mode = %s after cancel", s.Mode())
	}
	if got := s.State().Vertices[2]; got != (floorplan.Vertex{X: 40, Y: 25}) {
		t.Errorf("corner = %+v, want (40,25)", got)
	}
	s.Undo()
	if len(s.State().Items) != 0 {
		t.Error("cancelled drags should not add undo steps")
	}
}
