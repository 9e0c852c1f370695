// Package svgview renders a plan scene as an SVG document.
package svgview

import (
	"bytes"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/viewport"
)

// Renderer draws the 2D plan view.
type Renderer struct {
	Width, Height int
	// GridStep is the spacing of grid lines in feet; zero disables the grid.
	GridStep float64
}

var _ render.Renderer = Renderer{}

// New returns a renderer for a width x height canvas with a 5 ft grid.
func New(width, height int) Renderer {
	return Renderer{Width: width, Height: height, GridStep: 5}
}

func px(v float64) int { return int(math.Round(v)) }

func screen(view viewport.Transform, p geometry.Point) (int, int) {
	s := view.ToScreen(p)
	return px(s.X), px(s.Y)
}

// Render implements render.Renderer.
func (r Renderer) Render(w io.Writer, scene render.Scene, view viewport.Transform) error {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(r.Width, r.Height)
	canvas.Rect(0, 0, r.Width, r.Height, "fill:#ffffff")

	r.grid(canvas, view)

	st := scene.State
	if len(st.Vertices) > 0 {
		xs := make([]int, len(st.Vertices))
		ys := make([]int, len(st.Vertices))
		for i, v := range st.Vertices {
			xs[i], ys[i] = screen(view, v)
		}
		canvas.Gid("outline")
		canvas.Polygon(xs, ys, "fill:#f8fafc;stroke:#0f172a;stroke-width:3")
		for i := range st.Vertices {
			canvas.Circle(xs[i], ys[i], 4, "fill:#0f172a")
		}
		canvas.Gend()
	}

	canvas.Gid("items")
	for _, it := range st.Items {
		x, y := screen(view, geometry.Point{X: it.X, Y: it.Y})
		wpx, hpx := px(view.Length(it.W)), px(view.Length(it.H))
		style := fmt.Sprintf("fill:%s;fill-opacity:0.85;stroke:#1e293b;stroke-width:1", it.Color)
		if it.InstanceID == scene.Selected {
			style = fmt.Sprintf("fill:%s;fill-opacity:0.85;stroke:#facc15;stroke-width:3", it.Color)
		}
		canvas.Rect(x, y, wpx, hpx, style)
		canvas.Text(x+wpx/2, y+hpx/2+4, it.Name, "text-anchor:middle;font-size:10px;fill:#0f172a")
	}
	canvas.Gend()

	canvas.Gid("openings")
	for _, sp := range render.OpeningSpans(st) {
		x1, y1 := screen(view, sp.A)
		x2, y2 := screen(view, sp.B)
		style := fmt.Sprintf("stroke:%s;stroke-width:6;stroke-linecap:butt", render.OpeningColor(sp.Opening.Type))
		if scene.IsStale(sp.Opening.ID) {
			style += ";stroke-dasharray:6,4"
		}
		canvas.Line(x1, y1, x2, y2, style)
	}
	canvas.Gend()

	if d := scene.Drag; d != nil {
		x, y := screen(view, geometry.Point{X: d.Rect.X, Y: d.Rect.Y})
		stroke := "#16a34a"
		if !d.Valid {
			stroke = "#dc2626"
		}
		canvas.Rect(x, y, px(view.Length(d.Rect.W)), px(view.Length(d.Rect.H)),
			fmt.Sprintf("fill:%s;fill-opacity:0.5;stroke:%s;stroke-width:2;stroke-dasharray:4,3", d.Color, stroke))
	}

	m := scene.Metrics
	canvas.Text(8, r.Height-8,
		fmt.Sprintf("%.0f sq ft · %.1f%% used · %d pallets", m.TotalArea, m.Utilization, m.PalletCapacity),
		"font-size:12px;fill:#334155")
	canvas.End()

	_, err := w.Write(buf.Bytes())
	return err
}

func (r Renderer) grid(canvas *svg.SVG, view viewport.Transform) {
	if r.GridStep <= 0 {
		return
	}
	step := view.Length(r.GridStep)
	if step < 4 {
		return
	}
	origin := view.ToScreen(geometry.Point{})
	canvas.Gid("grid")
	for x := math.Mod(origin.X, step); x < float64(r.Width); x += step {
		canvas.Line(px(x), 0, px(x), r.Height, "stroke:#e2e8f0;stroke-width:1")
	}
	for y := math.Mod(origin.Y, step); y < float64(r.Height); y += step {
		canvas.Line(0, px(y), r.Width, px(y), "stroke:#e2e8f0;stroke-width:1")
	}
	canvas.Gend()
}
