package geometry

// Projection is the result of projecting a point onto a segment.
type Projection struct {
	// T is the parameter along the segment clamped to [0,1].
	T float64
	// Raw is the unclamped parameter.
	Raw float64
	// Point is the closest point on the segment.
	Point Point
	// Distance is the distance from the query point to Point.
	Distance float64
}

// ClosestPointOnSegment projects p onto v1->v2. A zero-length segment yields
// the projection onto v1 and ok=false.
func ClosestPointOnSegment(p, v1, v2 Point) (Projection, bool) {
	d := v2.Sub(v1)
	l2 := d.Dot(d)
	if l2 <= eps*eps {
		return Projection{Point: v1, Distance: Distance(p, v1)}, false
	}
	raw := p.Sub(v1).Dot(d) / l2
	t := Clamp(raw, 0, 1)
	q := v1.Add(d.Scale(t))
	return Projection{T: t, Raw: raw, Point: q, Distance: Distance(p, q)}, true
}

// SegmentNormal returns the unit normal of v1->v2: the direction rotated by
// -90 degrees, (dy, -dx)/len. A zero-length segment yields the zero vector.
func SegmentNormal(v1, v2 Point) Point {
	d := v2.Sub(v1)
	l := d.Len()
	if l <= eps {
		return Point{}
	}
	return Point{X: d.Y / l, Y: -d.X / l}
}

// Edge returns the endpoints of edge i of outline (vertex i to vertex i+1 mod n).
func Edge(outline []Point, i int) (Point, Point, bool) {
	n := len(outline)
	if n < 2 || i < 0 || i >= n {
		return Point{}, Point{}, false
	}
	return outline[i], outline[(i+1)%n], true
}

// EdgeLength returns the length of edge i, or 0 when it does not exist.
func EdgeLength(outline []Point, i int) float64 {
	a, b, ok := Edge(outline, i)
	if !ok {
		return 0
	}
	return Distance(a, b)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
