// Package render defines the read-only projection of an editor session that
// renderers consume, and the Renderer contract they implement.
package render

import (
	"io"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/viewport"
)

// DragPreview is the item following the pointer, with validity feedback.
type DragPreview struct {
	Name  string        `json:"name"`
	Color string        `json:"color"`
	Rect  geometry.Rect `json:"rect"`
	Wall  bool          `json:"wall"`
	Valid bool          `json:"valid"`
}

// Scene is a value copy of everything a renderer may draw. Renderers never
// see the session itself, so they cannot mutate it.
type Scene struct {
	State         floorplan.State   `json:"state"`
	Metrics       floorplan.Metrics `json:"metrics"`
	Drag          *DragPreview      `json:"drag,omitempty"`
	Selected      string            `json:"selected,omitempty"`
	StaleOpenings []string          `json:"staleOpenings,omitempty"`
}

// Renderer draws a scene through a view transform.
type Renderer interface {
	Render(w io.Writer, scene Scene, view viewport.Transform) error
}

// Format pairs a renderer with how its output is served.
type Format struct {
	Name        string
	ContentType string
	Ext         string
	Renderer    Renderer
}

// Span is the wall segment covered by an opening.
type Span struct {
	Opening floorplan.WallOpening
	A, B    geometry.Point
}

// OpeningSpans resolves each opening to the wall segment it covers, clipped
// to its edge. Openings whose edge no longer exists are skipped.
func OpeningSpans(s floorplan.State) []Span {
	var out []Span
	for _, o := range s.Openings {
		a, b, ok := geometry.Edge(s.Vertices, o.WallIndex)
		l := geometry.Distance(a, b)
		if !ok || l == 0 {
			continue
		}
		half := geometry.Clamp(o.Width/2/l, 0, 0.5)
		t0 := geometry.Clamp(o.Position-half, 0, 1)
		t1 := geometry.Clamp(o.Position+half, 0, 1)
		out = append(out, Span{Opening: o, A: geometry.Lerp(a, b, t0), B: geometry.Lerp(a, b, t1)})
	}
	return out
}

// IsStale reports whether id is in the scene's stale opening list.
func (s Scene) IsStale(id string) bool {
	for _, st := range s.StaleOpenings {
		if st == id {
			return true
		}
	}
	return false
}

// Bounds returns the world rectangle covering the outline, items and drag
// preview.
func Bounds(s Scene) geometry.Rect {
	pts := append([]geometry.Point(nil), s.State.Vertices...)
	for _, it := range s.State.Items {
		c := it.Rect().Corners()
		pts = append(pts, c[0], c[2])
	}
	if s.Drag != nil {
		c := s.Drag.Rect.Corners()
		pts = append(pts, c[0], c[2])
	}
	return geometry.Bounds(pts)
}

// FitMargin is the pixel border FitView leaves around the plan.
const FitMargin = 24

// FitView returns a transform showing the whole scene in a width x height
// surface.
func FitView(s Scene, width, height int) viewport.Transform {
	return viewport.Fit(Bounds(s), float64(width), float64(height), FitMargin)
}

// OpeningColor is the stroke color used for an opening type.
func OpeningColor(typ string) string {
	if typ == floorplan.OpeningWindow {
		return "#0ea5e9"
	}
	return "#ea580c"
}
