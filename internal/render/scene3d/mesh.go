package scene3d

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/viewport"
)

// Triangle is one mesh facet.
type Triangle [3]Vec3

// Normal returns the unit facet normal, or zero for a degenerate facet.
func (t Triangle) Normal() Vec3 {
	ux, uy, uz := t[1].X-t[0].X, t[1].Y-t[0].Y, t[1].Z-t[0].Z
	vx, vy, vz := t[2].X-t[0].X, t[2].Y-t[0].Y, t[2].Z-t[0].Z
	n := Vec3{X: uy*vz - uz*vy, Y: uz*vx - ux*vz, Z: ux*vy - uy*vx}
	l := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
	if l == 0 {
		return Vec3{}
	}
	return Vec3{X: n.X / l, Y: n.Y / l, Z: n.Z / l}
}

// Triangulate splits a simple polygon of either winding into triangles by
// ear clipping. Degenerate input yields fewer triangles, never a panic.
func Triangulate(poly []geometry.Point) [][3]geometry.Point {
	n := len(poly)
	if n < 3 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sign := 1.0
	if geometry.SignedArea(poly) < 0 {
		sign = -1
	}
	cross := func(a, b, c geometry.Point) float64 {
		return ((b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)) * sign
	}

	var out [][3]geometry.Point
	for guard := 0; len(idx) > 3 && guard < n*n; guard++ {
		clipped := false
		for i := range idx {
			ia, ib, ic := idx[(i+len(idx)-1)%len(idx)], idx[i], idx[(i+1)%len(idx)]
			a, b, c := poly[ia], poly[ib], poly[ic]
			if cross(a, b, c) <= 0 {
				continue
			}
			ear := true
			for _, j := range idx {
				if j == ia || j == ib || j == ic {
					continue
				}
				p := poly[j]
				if cross(a, b, p) >= 0 && cross(b, c, p) >= 0 && cross(c, a, p) >= 0 {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}
			out = append(out, [3]geometry.Point{a, b, c})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			break
		}
	}
	if len(idx) == 3 {
		out = append(out, [3]geometry.Point{poly[idx[0]], poly[idx[1]], poly[idx[2]]})
	}
	return out
}

// prism returns the 12 facets of a quad base extruded from z0 to z1.
func prism(base [4]geometry.Point, z0, z1 float64) []Triangle {
	if z1 <= z0 {
		return nil
	}
	lo := func(i int) Vec3 { return Vec3{X: base[i].X, Y: base[i].Y, Z: z0} }
	hi := func(i int) Vec3 { return Vec3{X: base[i].X, Y: base[i].Y, Z: z1} }
	out := []Triangle{
		{lo(0), lo(2), lo(1)}, {lo(0), lo(3), lo(2)},
		{hi(0), hi(1), hi(2)}, {hi(0), hi(2), hi(3)},
	}
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		out = append(out, Triangle{lo(i), lo(j), hi(j)}, Triangle{lo(i), hi(j), hi(i)})
	}
	return out
}

// wallSlab returns the footprint of the wall section between s and e feet
// along w.
func wallSlab(w Wall, s, e float64) [4]geometry.Point {
	dir := w.B.Sub(w.A).Scale(1 / w.Length)
	n := geometry.SegmentNormal(w.A, w.B).Scale(w.Thickness / 2)
	p0 := w.A.Add(dir.Scale(s))
	p1 := w.A.Add(dir.Scale(e))
	return [4]geometry.Point{p0.Sub(n), p1.Sub(n), p1.Add(n), p0.Add(n)}
}

// Mesh returns the facets of the whole scene: floor, walls split around
// their cut-outs, and item boxes.
func (s Scene) Mesh() []Triangle {
	var out []Triangle
	for _, t := range Triangulate(s.Floor) {
		out = append(out, Triangle{
			{X: t[0].X, Y: t[0].Y}, {X: t[1].X, Y: t[1].Y}, {X: t[2].X, Y: t[2].Y},
		})
	}
	for _, w := range s.Walls {
		if w.Length == 0 {
			continue
		}
		pos := 0.0
		for _, c := range w.Cutouts {
			if c.Start > pos {
				out = append(out, prism(wallSlab(w, pos, c.Start), 0, w.Height)...)
			}
			slab := wallSlab(w, c.Start, c.End)
			out = append(out, prism(slab, 0, c.Bottom)...)
			out = append(out, prism(slab, c.Top, w.Height)...)
			pos = math.Max(pos, c.End)
		}
		if pos < w.Length {
			out = append(out, prism(wallSlab(w, pos, w.Length), 0, w.Height)...)
		}
	}
	for _, b := range s.Items {
		if b.Ghost {
			continue
		}
		base := [4]geometry.Point{
			{X: b.Min.X, Y: b.Min.Y}, {X: b.Max.X, Y: b.Min.Y},
			{X: b.Max.X, Y: b.Max.Y}, {X: b.Min.X, Y: b.Max.Y},
		}
		out = append(out, prism(base, b.Min.Z, b.Max.Z)...)
	}
	return out
}

// STL renders the 3D scene as an ASCII STL mesh in feet.
type STL struct {
	Name string
}

var _ render.Renderer = STL{}

// Render implements render.Renderer.
func (r STL) Render(w io.Writer, sc render.Scene, _ viewport.Transform) error {
	name := r.Name
	if name == "" {
		name = "floorplan"
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, t := range Build(sc).Mesh() {
		n := t.Normal()
		fmt.Fprintf(bw, "  facet normal %g %g %g\n    outer loop\n", n.X, n.Y, n.Z)
		for _, v := range t {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprint(bw, "    endloop\n  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}
