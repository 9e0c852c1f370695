// Package scene3d builds the 3D projection of a plan: extruded walls with
// door and window cut-outs, item boxes and the floor slab. It renders the
// projection as JSON for a browser viewer or as an ASCII STL mesh.
package scene3d

import (
	"encoding/json"
	"io"
	"math"
	"sort"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/viewport"
)

const (
	// WallThickness is the extruded wall depth in feet.
	WallThickness = 0.5
	// WindowSill is the height of a window's bottom edge above the floor.
	WindowSill = 3.0
	// ItemHeight is the box height of floor equipment.
	ItemHeight = 4.0
	// RackHeight is the box height of multi-pallet storage.
	RackHeight = 12.0
)

// Vec3 is a point in feet; Z is up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Cutout is an opening in a wall, measured along the wall from its start.
type Cutout struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
	Stale  bool    `json:"stale,omitempty"`
}

// Wall is one extruded outline edge.
type Wall struct {
	Edge      int            `json:"edge"`
	A         geometry.Point `json:"a"`
	B         geometry.Point `json:"b"`
	Length    float64        `json:"length"`
	Height    float64        `json:"height"`
	Thickness float64        `json:"thickness"`
	Cutouts   []Cutout       `json:"cutouts"`
}

// Box is an axis-aligned item volume.
type Box struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Min   Vec3   `json:"min"`
	Max   Vec3   `json:"max"`
	Ghost bool   `json:"ghost,omitempty"`
}

// Scene is the 3D projection of a plan.
type Scene struct {
	Units      string            `json:"units"`
	WallHeight float64           `json:"wallHeight"`
	Floor      []geometry.Point  `json:"floor"`
	Walls      []Wall            `json:"walls"`
	Items      []Box             `json:"items"`
	Metrics    floorplan.Metrics `json:"metrics"`
}

func itemHeight(it floorplan.PlacedItem, wall float64) float64 {
	h := ItemHeight
	if it.Pallets > 1 {
		h = RackHeight
	}
	return math.Min(h, wall)
}

// Build projects sc into 3D. Openings whose edge is gone are dropped; stale
// ones are kept and flagged.
func Build(sc render.Scene) Scene {
	st := sc.State
	h := st.WallHeight
	if h <= 0 {
		h = floorplan.DefaultWallHeight
	}
	out := Scene{
		Units:      "ft",
		WallHeight: h,
		Floor:      append([]geometry.Point{}, st.Vertices...),
		Walls:      make([]Wall, 0, len(st.Vertices)),
		Items:      make([]Box, 0, len(st.Items)),
		Metrics:    sc.Metrics,
	}

	cuts := make(map[int][]Cutout)
	for _, sp := range render.OpeningSpans(st) {
		a, _, _ := geometry.Edge(st.Vertices, sp.Opening.WallIndex)
		bottom := 0.0
		if sp.Opening.Type == floorplan.OpeningWindow {
			bottom = WindowSill
		}
		cuts[sp.Opening.WallIndex] = append(cuts[sp.Opening.WallIndex], Cutout{
			ID:     sp.Opening.ID,
			Type:   sp.Opening.Type,
			Start:  geometry.Distance(a, sp.A),
			End:    geometry.Distance(a, sp.B),
			Bottom: math.Min(bottom, h),
			Top:    math.Min(bottom+sp.Opening.Height, h),
			Stale:  sc.IsStale(sp.Opening.ID),
		})
	}

	for i := range st.Vertices {
		a, b, _ := geometry.Edge(st.Vertices, i)
		c := cuts[i]
		if c == nil {
			c = []Cutout{}
		}
		sort.Slice(c, func(x, y int) bool { return c[x].Start < c[y].Start })
		out.Walls = append(out.Walls, Wall{
			Edge: i, A: a, B: b,
			Length:    geometry.Distance(a, b),
			Height:    h,
			Thickness: WallThickness,
			Cutouts:   c,
		})
	}

	for _, it := range st.Items {
		out.Items = append(out.Items, Box{
			ID:    it.InstanceID,
			Name:  it.Name,
			Color: it.Color,
			Min:   Vec3{X: it.X, Y: it.Y},
			Max:   Vec3{X: it.X + it.W, Y: it.Y + it.H, Z: itemHeight(it, h)},
		})
	}
	if d := sc.Drag; d != nil && !d.Wall {
		out.Items = append(out.Items, Box{
			Name:  d.Name,
			Color: d.Color,
			Min:   Vec3{X: d.Rect.X, Y: d.Rect.Y},
			Max:   Vec3{X: d.Rect.X + d.Rect.W, Y: d.Rect.Y + d.Rect.H, Z: math.Min(ItemHeight, h)},
			Ghost: true,
		})
	}
	return out
}

// JSON renders the 3D scene as a JSON document. The view transform does not
// apply to 3D output.
type JSON struct{}

var _ render.Renderer = JSON{}

// Render implements render.Renderer.
func (JSON) Render(w io.Writer, sc render.Scene, _ viewport.Transform) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Build(sc))
}
