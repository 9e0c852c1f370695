// Package viewport maps world feet to display pixels and back.
package viewport

import (
	"math"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
)

const (
	// GridSize is the number of pixels per foot at zoom 1. Every renderer
	// uses it so exported images and on-screen measurements agree.
	GridSize = 20.0

	MinZoom = 0.5
	MaxZoom = 3.0
)

// Transform is screen = world*GridSize*Zoom + Pan. The zero value is not
// usable; start from Identity.
type Transform struct {
	Zoom float64        `json:"zoom"`
	Pan  geometry.Point `json:"pan"`
}

// Identity returns zoom 1 and no pan.
func Identity() Transform { return Transform{Zoom: 1} }

// New returns a transform with zoom clamped to [MinZoom, MaxZoom].
func New(zoom float64, pan geometry.Point) Transform {
	return Transform{Zoom: ClampZoom(zoom), Pan: pan}
}

// ClampZoom limits z to [MinZoom, MaxZoom]. NaN maps to 1.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return geometry.Clamp(z, MinZoom, MaxZoom)
}

// Scale returns the pixels per foot at the current zoom.
func (t Transform) Scale() float64 { return GridSize * t.Zoom }

// ToScreen maps a world point to screen pixels.
func (t Transform) ToScreen(p geometry.Point) geometry.Point {
	s := t.Scale()
	return geometry.Point{X: p.X*s + t.Pan.X, Y: p.Y*s + t.Pan.Y}
}

// ToWorld maps screen pixels back to world feet.
func (t Transform) ToWorld(p geometry.Point) geometry.Point {
	s := t.Scale()
	if s == 0 {
		return geometry.Point{}
	}
	return geometry.Point{X: (p.X - t.Pan.X) / s, Y: (p.Y - t.Pan.Y) / s}
}

// Length maps a world distance to pixels.
func (t Transform) Length(feet float64) float64 { return feet * t.Scale() }

// WithZoom returns t at zoom z (clamped), keeping the pan.
func (t Transform) WithZoom(z float64) Transform {
	t.Zoom = ClampZoom(z)
	return t
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// the screen anchor fixed.
func (t Transform) ZoomAt(factor float64, anchor geometry.Point) Transform {
	world := t.ToWorld(anchor)
	t.Zoom = ClampZoom(t.Zoom * factor)
	s := t.Scale()
	t.Pan = geometry.Point{X: anchor.X - world.X*s, Y: anchor.Y - world.Y*s}
	return t
}

// PanBy shifts the view by d pixels.
func (t Transform) PanBy(d geometry.Point) Transform {
	t.Pan = t.Pan.Add(d)
	return t
}

// Fit returns a transform that centers bounds in a width x height surface
// with margin pixels on each side, zoom clamped as usual.
func Fit(bounds geometry.Rect, width, height, margin float64) Transform {
	if bounds.W <= 0 || bounds.H <= 0 {
		return Identity()
	}
	availW := math.Max(width-2*margin, 1)
	availH := math.Max(height-2*margin, 1)
	zoom := ClampZoom(math.Min(availW/(bounds.W*GridSize), availH/(bounds.H*GridSize)))
	s := GridSize * zoom
	return Transform{
		Zoom: zoom,
		Pan: geometry.Point{
			X: (width-bounds.W*s)/2 - bounds.X*s,
			Y: (height-bounds.H*s)/2 - bounds.Y*s,
		},
	}
}
