package export

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/viewport"
)

// Feature kinds, stored in the "kind" property.
const (
	KindOutline = "outline"
	KindItem    = "item"
	KindOpening = "opening"
)

// GeoJSON writes the plan as a FeatureCollection in a local planar frame.
// Coordinates are feet unless Meters is set.
type GeoJSON struct {
	Meters bool
}

func (g GeoJSON) scale() float64 {
	if g.Meters {
		return FeetToMeters
	}
	return 1
}

func (g GeoJSON) units() string {
	if g.Meters {
		return "m"
	}
	return "ft"
}

func (g GeoJSON) point(p geometry.Point) orb.Point {
	k := g.scale()
	return orb.Point{p.X * k, p.Y * k}
}

// ring closes pts as GeoJSON requires.
func (g GeoJSON) ring(pts []geometry.Point) orb.Ring {
	r := make(orb.Ring, 0, len(pts)+1)
	for _, p := range pts {
		r = append(r, g.point(p))
	}
	if len(r) > 0 && !r.Closed() {
		r = append(r, r[0])
	}
	return r
}

// Collection builds the feature collection for scene.
func (g GeoJSON) Collection(scene render.Scene) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	st := scene.State
	k := g.scale()

	if len(st.Vertices) >= 3 {
		f := geojson.NewFeature(orb.Polygon{g.ring(st.Vertices)})
		f.Properties["kind"] = KindOutline
		f.Properties["units"] = g.units()
		f.Properties["area"] = scene.Metrics.TotalArea * k * k
		f.Properties["wallHeight"] = st.WallHeight * k
		f.Properties["palletCapacity"] = scene.Metrics.PalletCapacity
		fc.Append(f)
	}

	for _, it := range st.Items {
		c := it.Rect().Corners()
		f := geojson.NewFeature(orb.Polygon{g.ring(c[:])})
		f.ID = it.InstanceID
		f.Properties["kind"] = KindItem
		f.Properties["catalogId"] = it.ID
		f.Properties["name"] = it.Name
		f.Properties["color"] = it.Color
		f.Properties["pallets"] = it.Pallets
		f.Properties["rotation"] = it.Rotation
		fc.Append(f)
	}

	for _, sp := range render.OpeningSpans(st) {
		o := sp.Opening
		f := geojson.NewFeature(orb.LineString{g.point(sp.A), g.point(sp.B)})
		f.ID = o.ID
		f.Properties["kind"] = KindOpening
		f.Properties["type"] = o.Type
		f.Properties["wallIndex"] = o.WallIndex
		f.Properties["position"] = o.Position
		f.Properties["width"] = o.Width * k
		f.Properties["height"] = o.Height * k
		f.Properties["stale"] = scene.IsStale(o.ID)
		fc.Append(f)
	}
	return fc
}

// Render implements render.Renderer. The view is ignored.
func (g GeoJSON) Render(w io.Writer, scene render.Scene, _ viewport.Transform) error {
	b, err := g.Collection(scene).MarshalJSON()
	if err != nil {
		return fmt.Errorf("geojson: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("geojson: %w", err)
	}
	return nil
}

var _ render.Renderer = GeoJSON{}
