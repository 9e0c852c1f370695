package openings

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/catalog"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
)

func warehouse() []floorplan.Vertex {
	return []floorplan.Vertex{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 25}, {X: 0, Y: 25}}
}

var dockDoor = catalog.Entry{
	ID: "dock-door", Kind: catalog.KindWall, W: 10, H: 1,
	Wall: &catalog.WallSpec{Opening: catalog.OpeningDoor, MountHeight: 10},
}

var plainDoor = catalog.Entry{
	ID: "personnel-door", Kind: catalog.KindWall, W: 3, H: 1,
	Wall: &catalog.WallSpec{Opening: catalog.OpeningDoor},
}

func newManager() *Manager {
	n := 0
	return New(nil, warehouse(), WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("op-%d", n)
	}))
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestFindClosestWall(t *testing.T) {
	tests := []struct {
		name     string
		p        geometry.Point
		wantOK   bool
		wantEdge int
		wantPos  float64
	}{
		{"top wall center", geometry.Point{X: 20, Y: 1}, true, 0, 0.5},
		{"right wall", geometry.Point{X: 38.5, Y: 5}, true, 1, 0.2},
		{"too far", geometry.Point{X: 20, Y: 10}, false, 0, 0},
		{"exactly snap distance", geometry.Point{X: 20, Y: 3}, false, 0, 0},
		{"near corner clamps", geometry.Point{X: 1, Y: -1}, true, 0, MinPosition},
		{"outside the building", geometry.Point{X: 20, Y: 27}, true, 2, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := FindClosestWall(tt.p, warehouse())
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (hit %+v)", ok, tt.wantOK, hit)
			}
			if !ok {
				return
			}
			if hit.Edge != tt.wantEdge {
				t.Errorf("edge = %d, want %d", hit.Edge, tt.wantEdge)
			}
			if !near(hit.Position, tt.wantPos) {
				t.Errorf("position = %v, want %v", hit.Position, tt.wantPos)
			}
		})
	}
}

func TestFindClosestWallSkipsDegenerateEdges(t *testing.T) {
	outline := []floorplan.Vertex{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 25}, {X: 0, Y: 25}}
	hit, ok := FindClosestWall(geometry.Point{X: 0.5, Y: 0.5}, outline)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Edge == 0 {
		t.Error("zero-length edge matched")
	}
}

func TestCommitOpening(t *testing.T) {
	m := newManager()
	o, ok := m.Commit(dockDoor, geometry.Point{X: 20, Y: 1}, warehouse())
	if !ok {
		t.Fatal("opening rejected")
	}
	want := floorplan.WallOpening{ID: "op-1", WallIndex: 0, Type: "door", Position: 0.5, Width: 10, Height: 10}
	if o != want {
		t.Errorf("opening = %+v, want %+v", o, want)
	}

	o, ok = m.Commit(plainDoor, geometry.Point{X: 40, Y: 12.5}, warehouse())
	if !ok {
		t.Fatal("second opening rejected")
	}
	if o.Height != catalog.DefaultDoorHeight {
		t.Errorf("height = %v, want default %v", o.Height, catalog.DefaultDoorHeight)
	}
	if len(m.List()) != 2 {
		t.Errorf("len = %d, want 2", len(m.List()))
	}
}

func TestCommitOpeningRejections(t *testing.T) {
	m := newManager()
	if _, ok := m.Commit(dockDoor, geometry.Point{X: 20, Y: 12}, warehouse()); ok {
		t.Error("accepted a drop far from every wall")
	}
	if _, ok := m.Commit(dockDoor, geometry.Point{X: 1, Y: 0.5}, warehouse()); ok {
		t.Error("accepted a drop within 5% of a corner")
	}
	floor := catalog.Entry{ID: "rack", Kind: catalog.KindFloor, W: 8, H: 4}
	if _, ok := m.Commit(floor, geometry.Point{X: 20, Y: 1}, warehouse()); ok {
		t.Error("accepted a floor entry")
	}
	if len(m.List()) != 0 {
		t.Errorf("len = %d, want 0", len(m.List()))
	}
}

func TestCommitOpeningKeepsRawGateButStoresClamped(t *testing.T) {
	m := newManager()
	o, ok := m.Commit(dockDoor, geometry.Point{X: 3, Y: 1}, warehouse())
	if !ok {
		t.Fatal("drop at 7.5% rejected")
	}
	if o.Position != MinPosition {
		t.Errorf("position = %v, want %v", o.Position, MinPosition)
	}
}

func TestOverlappingOpeningsAllowed(t *testing.T) {
	m := newManager()
	m.Commit(dockDoor, geometry.Point{X: 20, Y: 1}, warehouse())
	if _, ok := m.Commit(dockDoor, geometry.Point{X: 21, Y: 1}, warehouse()); !ok {
		t.Error("second opening on the same spot rejected")
	}
}

func TestDelete(t *testing.T) {
	m := newManager()
	o, _ := m.Commit(dockDoor, geometry.Point{X: 20, Y: 1}, warehouse())
	if err := m.Delete(o.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete(o.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestSplitLeavesOpeningStale(t *testing.T) {
	m := newManager()
	outline := warehouse()
	o, ok := m.Commit(dockDoor, geometry.Point{X: 20, Y: 1}, outline)
	if !ok || o.WallIndex != 0 || o.Position != 0.5 {
		t.Fatalf("setup opening = %+v", o)
	}
	before, _ := Locate(o, outline)

	split := slices.Insert(slices.Clone(outline), 1, floorplan.Vertex{X: 10, Y: 0})

	got := m.List()[0]
	if got.WallIndex != 0 || got.Position != 0.5 {
		t.Errorf("opening rewritten to %+v", got)
	}
	after, _ := Locate(got, split)
	if after == before {
		t.Errorf("opening still at %+v after split; expected it to drift", after)
	}
	if stale := m.Stale(split); !slices.Equal(stale, []string{o.ID}) {
		t.Errorf("Stale = %v, want [%s]", stale, o.ID)
	}
	if stale := m.Stale(outline); len(stale) != 0 {
		t.Errorf("Stale on the original outline = %v, want none", stale)
	}
}

func TestStaleWhenEdgeDisappears(t *testing.T) {
	outline := warehouse()
	m := New([]floorplan.WallOpening{{ID: "x", WallIndex: 3, Type: "door", Position: 0.5}}, outline)
	triangle := outline[:3]
	if stale := m.Stale(triangle); !slices.Equal(stale, []string{"x"}) {
		t.Errorf("Stale = %v, want [x]", stale)
	}
	if _, ok := Locate(m.List()[0], triangle); ok {
		t.Error("Locate found a wall that no longer exists")
	}
}
