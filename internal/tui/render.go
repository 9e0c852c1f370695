package tui

import (
	"math"
	"strings"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render"
)

// projection maps feet to braille dots. Dots are close to square, so one
// scale serves both axes.
type projection struct {
	scale  float64
	origin geometry.Point // world point at dot (0, 0)
}

// fitProjection centers bounds in a w x h cell canvas, then applies the
// user zoom around the canvas center and the pan, in feet.
func fitProjection(b geometry.Rect, w, h int, zoom float64, pan geometry.Point) projection {
	dw, dh := float64(w*2), float64(h*4)
	if b.W <= 0 || b.H <= 0 {
		b = geometry.Rect{W: 1, H: 1}
	}
	const margin = 2.0
	scale := math.Min((dw-2*margin)/b.W, (dh-2*margin)/b.H) * zoom
	if scale <= 0 {
		scale = 1
	}
	c := b.Center().Sub(pan)
	return projection{
		scale:  scale,
		origin: geometry.Point{X: c.X - dw/2/scale, Y: c.Y - dh/2/scale},
	}
}

func (p projection) dot(q geometry.Point) (int, int) {
	return int(math.Round((q.X - p.origin.X) * p.scale)), int(math.Round((q.Y - p.origin.Y) * p.scale))
}

func (p projection) rect(b *brailleBuf, r geometry.Rect, dashed bool) {
	c := r.Corners()
	for i := range c {
		x0, y0 := p.dot(c[i])
		x1, y1 := p.dot(c[(i+1)%4])
		if dashed {
			b.dashed(x0, y0, x1, y1)
		} else {
			b.line(x0, y0, x1, y1)
		}
	}
}

// renderCanvas draws the scene as braille text with the cursor overlaid.
func renderCanvas(sc render.Scene, cursor geometry.Point, w, h int, zoom float64, pan geometry.Point) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	bounds := geometry.Bounds(sc.State.Vertices)
	p := fitProjection(bounds, w, h, zoom, pan)
	b := newBrailleBuf(w, h)

	vs := sc.State.Vertices
	for i := range vs {
		x0, y0 := p.dot(vs[i])
		x1, y1 := p.dot(vs[(i+1)%len(vs)])
		b.line(x0, y0, x1, y1)
	}

	for _, sp := range render.OpeningSpans(sc.State) {
		x0, y0 := p.dot(sp.A)
		x1, y1 := p.dot(sp.B)
		if sc.IsStale(sp.Opening.ID) {
			b.dashed(x0, y0, x1, y1)
			continue
		}
		// Doors and windows read as a thick band across the wall.
		b.fill(x0-1, y0-1, x1+1, y1+1)
	}

	for _, it := range sc.State.Items {
		r := it.Rect()
		if it.InstanceID == sc.Selected {
			x0, y0 := p.dot(geometry.Point{X: r.X, Y: r.Y})
			x1, y1 := p.dot(geometry.Point{X: r.X + r.W, Y: r.Y + r.H})
			b.fill(x0, y0, x1, y1)
			continue
		}
		p.rect(b, r, false)
	}

	if d := sc.Drag; d != nil {
		p.rect(b, d.Rect, true)
	}

	rows := b.lines()
	cx, cy := p.dot(cursor)
	cx, cy = cx/2, cy/4
	if cy >= 0 && cy < len(rows) && cx >= 0 && cx < w {
		row := []rune(rows[cy])
		rows[cy] = string(row[:cx]) + cursorStyle.Render("+") + string(row[cx+1:])
	}
	return strings.Join(rows, "\n")
}
