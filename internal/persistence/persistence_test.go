package persistence

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/storage"
)

func sampleState() floorplan.State {
	return floorplan.State{
		Vertices: []floorplan.Vertex{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 25}, {X: 0, Y: 25}},
		Items: []floorplan.PlacedItem{{
			ID: "selective-rack", Name: "Selective Pallet Rack", W: 8, H: 4,
			Color: "#2563eb", Pallets: 6, X: 2, Y: 2, InstanceID: "i-1",
		}},
		Openings: []floorplan.WallOpening{{
			ID: "o-1", WallIndex: 0, Type: "door", Position: 0.5, Width: 10, Height: 10,
		}},
		WallHeight: 24,
	}
}

func fileAdapter(t *testing.T) *Adapter {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return NewAdapter(NewFile(fs), WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
}

func TestRoundTrip(t *testing.T) {
	backends := map[string]*Adapter{
		"file":   fileAdapter(t),
		"memory": NewAdapter(NewMemory()),
	}
	for name, a := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleState()
			doc, err := a.Save(ctx, "dock-a", want)
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if doc.TotalArea != 1000 || doc.EquipmentArea != 32 || doc.PalletCapacity != 6 {
				t.Errorf("metrics = %v/%v/%v", doc.TotalArea, doc.EquipmentArea, doc.PalletCapacity)
			}
			if doc.Revision == "" {
				t.Error("missing revision")
			}

			got, found, err := a.Load(ctx, "dock-a")
			if err != nil || !found {
				t.Fatalf("Load: found=%v err=%v", found, err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("loaded %+v, want %+v", got, want)
			}
		})
	}
}

func TestLoadMissingIsNotAnError(t *testing.T) {
	a := fileAdapter(t)
	st, found, err := a.Load(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found {
		t.Error("found = true for a missing plan")
	}
	if len(st.Vertices) != 0 {
		t.Errorf("state = %+v, want zero", st)
	}
}

func TestInvalidPlanID(t *testing.T) {
	a := NewAdapter(NewMemory())
	for _, id := range []string{"", "../etc", "a/b", "-lead"} {
		if _, err := a.Save(context.Background(), id, sampleState()); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("Save(%q) err = %v, want ErrInvalidInput", id, err)
		}
	}
}

func TestRevisionTracksContent(t *testing.T) {
	a := NewAdapter(NewMemory())
	ctx := context.Background()
	d1, _ := a.Save(ctx, "p", sampleState())
	d2, _ := a.Save(ctx, "p", sampleState())
	if d1.Revision != d2.Revision {
		t.Errorf("same content, different revisions: %s vs %s", d1.Revision, d2.Revision)
	}
	st := sampleState()
	st.Items[0].X = 3
	d3, _ := a.Save(ctx, "p", st)
	if d3.Revision == d1.Revision {
		t.Error("revision unchanged after an edit")
	}
}

func TestFileListAndRevisions(t *testing.T) {
	a := fileAdapter(t)
	ctx := context.Background()
	_, _ = a.Save(ctx, "b-plan", sampleState())
	_, _ = a.Save(ctx, "a-plan", sampleState())
	st := sampleState()
	st.Items = nil
	_, _ = a.Save(ctx, "a-plan", st)

	list, err := a.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].PlanID != "a-plan" || list[1].PlanID != "b-plan" {
		t.Fatalf("list = %+v", list)
	}
	if list[0].ItemCount != 0 {
		t.Errorf("a-plan items = %d, want latest save", list[0].ItemCount)
	}

	revs, err := a.Revisions(ctx, "a-plan")
	if err != nil {
		t.Fatalf("Revisions: %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("revisions = %d, want 2", len(revs))
	}
	if revs[0].ItemCount != 0 {
		t.Error("revisions not newest first")
	}
}

func TestMemoryHasNoRevisions(t *testing.T) {
	a := NewAdapter(NewMemory())
	revs, err := a.Revisions(context.Background(), "p")
	if err != nil || len(revs) != 0 {
		t.Errorf("Revisions = %v, %v", revs, err)
	}
}

func TestMemoryIsolatesDocuments(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	doc := floorplan.NewDocument("p", sampleState(), time.Now())
	_ = m.Save(ctx, "p", doc)
	doc.Items[0].X = 99

	got, _ := m.Load(ctx, "p")
	if got.Items[0].X != 2 {
		t.Error("caller mutation leaked into the backend")
	}
}

func TestDelete(t *testing.T) {
	for name, a := range map[string]*Adapter{"file": fileAdapter(t), "memory": NewAdapter(NewMemory())} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, _ = a.Save(ctx, "p", sampleState())
			if err := a.Delete(ctx, "p"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, found, _ := a.Load(ctx, "p"); found {
				t.Error("plan still present")
			}
			if err := a.Delete(ctx, "p"); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("second delete err = %v, want ErrNotFound", err)
			}
		})
	}
}
