// Package raster renders a plan scene to PNG with the gg 2D rasterizer.
package raster

import (
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/viewport"
)

// Renderer draws the 2D plan view as a PNG image.
type Renderer struct {
	Width, Height int
	// GridStep is the spacing of grid lines in feet; zero disables the grid.
	GridStep float64
}

var _ render.Renderer = Renderer{}

// New returns a renderer for a width x height image with a 5 ft grid.
func New(width, height int) Renderer {
	return Renderer{Width: width, Height: height, GridStep: 5}
}

// Render implements render.Renderer.
func (r Renderer) Render(w io.Writer, scene render.Scene, view viewport.Transform) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("raster: invalid size %dx%d", r.Width, r.Height)
	}
	dc := gg.NewContext(r.Width, r.Height)
	defer dc.Close()

	dc.ClearWithColor(gg.White)
	r.grid(dc, view)

	st := scene.State
	if len(st.Vertices) > 0 {
		path(dc, view, st.Vertices)
		dc.SetHexColor("#f8fafc")
		if err := dc.FillPreserve(); err != nil {
			return fmt.Errorf("raster: fill outline: %w", err)
		}
		dc.SetHexColor("#0f172a")
		dc.SetLineWidth(3)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("raster: stroke outline: %w", err)
		}
	}

	for _, it := range st.Items {
		rect(dc, view, it.Rect())
		c := gg.Hex(it.Color)
		dc.SetRGBA(c.R, c.G, c.B, 0.85)
		if err := dc.FillPreserve(); err != nil {
			return fmt.Errorf("raster: fill item: %w", err)
		}
		if it.InstanceID == scene.Selected {
			dc.SetHexColor("#facc15")
			dc.SetLineWidth(3)
		} else {
			dc.SetHexColor("#1e293b")
			dc.SetLineWidth(1)
		}
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("raster: stroke item: %w", err)
		}
	}

	dc.SetLineWidth(6)
	for _, sp := range render.OpeningSpans(st) {
		a, b := view.ToScreen(sp.A), view.ToScreen(sp.B)
		if scene.IsStale(sp.Opening.ID) {
			dc.SetDash(6, 4)
		}
		dc.SetHexColor(render.OpeningColor(sp.Opening.Type))
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("raster: stroke opening: %w", err)
		}
		dc.SetDash()
	}

	if d := scene.Drag; d != nil {
		rect(dc, view, d.Rect)
		c := gg.Hex(d.Color)
		dc.SetRGBA(c.R, c.G, c.B, 0.5)
		if err := dc.FillPreserve(); err != nil {
			return fmt.Errorf("raster: fill drag: %w", err)
		}
		if d.Valid {
			dc.SetHexColor("#16a34a")
		} else {
			dc.SetHexColor("#dc2626")
		}
		dc.SetLineWidth(2)
		dc.SetDash(4, 3)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("raster: stroke drag: %w", err)
		}
		dc.SetDash()
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("raster: encode: %w", err)
	}
	return nil
}

func path(dc *gg.Context, view viewport.Transform, pts []geometry.Point) {
	dc.NewSubPath()
	for i, p := range pts {
		s := view.ToScreen(p)
		if i == 0 {
			dc.MoveTo(s.X, s.Y)
			continue
		}
		dc.LineTo(s.X, s.Y)
	}
	dc.ClosePath()
}

func rect(dc *gg.Context, view viewport.Transform, r geometry.Rect) {
	s := view.ToScreen(geometry.Point{X: r.X, Y: r.Y})
	dc.DrawRectangle(s.X, s.Y, view.Length(r.W), view.Length(r.H))
}

func (r Renderer) grid(dc *gg.Context, view viewport.Transform) {
	if r.GridStep <= 0 {
		return
	}
	step := view.Length(r.GridStep)
	if step < 4 {
		return
	}
	origin := view.ToScreen(geometry.Point{})
	dc.SetHexColor("#e2e8f0")
	dc.SetLineWidth(1)
	for x := math.Mod(origin.X, step); x < float64(r.Width); x += step {
		dc.DrawLine(x, 0, x, float64(r.Height))
	}
	for y := math.Mod(origin.Y, step); y < float64(r.Height); y += step {
		dc.DrawLine(0, y, float64(r.Width), y)
	}
	_ = dc.Stroke()
}
