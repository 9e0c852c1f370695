package viewport

import (
	"math"
	"testing"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
)

func closeTo(a, b geometry.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestToScreen(t *testing.T) {
	tr := New(2, geometry.Point{X: 10, Y: 5})
	got := tr.ToScreen(geometry.Point{X: 3, Y: 4})
	want := geometry.Point{X: 3*GridSize*2 + 10, Y: 4*GridSize*2 + 5}
	if got != want {
		t.Errorf("ToScreen = %+v, want %+v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, tr := range []Transform{Identity(), New(0.5, geometry.Point{X: -30, Y: 12}), New(2.75, geometry.Point{X: 400, Y: -80})} {
		for _, p := range []geometry.Point{{X: 0, Y: 0}, {X: 40, Y: 25}, {X: -3.5, Y: 17.25}} {
			if got := tr.ToWorld(tr.ToScreen(p)); !closeTo(got, p) {
				t.Errorf("zoom %v: round trip %+v -> %+v", tr.Zoom, p, got)
			}
		}
	}
}

func TestZoomClamped(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0.1, MinZoom}, {1.5, 1.5}, {10, MaxZoom}, {math.NaN(), 1},
	}
	for _, tt := range tests {
		if got := New(tt.in, geometry.Point{}).Zoom; got != tt.want {
			t.Errorf("zoom(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	tr := New(1, geometry.Point{X: 50, Y: 50})
	anchor := geometry.Point{X: 300, Y: 200}
	before := tr.ToWorld(anchor)

	zoomed := tr.ZoomAt(2, anchor)
	if zoomed.Zoom != 2 {
		t.Fatalf("zoom = %v, want 2", zoomed.Zoom)
	}
	if after := zoomed.ToWorld(anchor); !closeTo(after, before) {
		t.Errorf("anchor moved from %+v to %+v", before, after)
	}

	capped := zoomed.ZoomAt(10, anchor)
	if capped.Zoom != MaxZoom {
		t.Errorf("zoom = %v, want %v", capped.Zoom, MaxZoom)
	}
}

func TestPanBy(t *testing.T) {
	tr := Identity().PanBy(geometry.Point{X: 5, Y: -5}).PanBy(geometry.Point{X: 1, Y: 1})
	if tr.Pan != (geometry.Point{X: 6, Y: -4}) {
		t.Errorf("pan = %+v", tr.Pan)
	}
}

func TestFitCentersBounds(t *testing.T) {
	b := geometry.Rect{X: 0, Y: 0, W: 40, H: 25}
	tr := Fit(b, 1000, 600, 20)
	center := tr.ToScreen(b.Center())
	if !closeTo(center, geometry.Point{X: 500, Y: 300}) {
		t.Errorf("center = %+v, want (500,300)", center)
	}
	if tr.Zoom < MinZoom || tr.Zoom > MaxZoom {
		t.Errorf("zoom %v out of range", tr.Zoom)
	}
	if Fit(geometry.Rect{}, 100, 100, 0) != Identity() {
		t.Error("degenerate bounds should fit to identity")
	}
}
