package geometry

import "math"

// SignedArea returns half the raw shoelace sum. The sign depends on winding:
// positive for outlines that run clockwise on a y-down screen.
func SignedArea(outline []Point) float64 {
	n := len(outline)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := range n {
		a, b := outline[i], outline[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// PolygonArea returns the enclosed area in square feet for either winding.
func PolygonArea(outline []Point) float64 {
	return math.Abs(SignedArea(outline))
}

// PointInPolygon reports whether p lies inside outline using the even-odd
// rule. Points on an edge count as inside, so rectangles flush against a wall
// are accepted regardless of which wall it is.
func PointInPolygon(p Point, outline []Point) bool {
	n := len(outline)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := outline[i], outline[j]
		if onSegment(p, a, b) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(p, a, b Point) bool {
	proj, ok := ClosestPointOnSegment(p, a, b)
	return ok && proj.Distance <= eps
}

// RectangleInsidePolygon reports whether all four corners of r are inside
// outline. It is a corner test: a rectangle straddling a thin concave notch
// between its corners still passes.
func RectangleInsidePolygon(r Rect, outline []Point) bool {
	for _, c := range r.Corners() {
		if !PointInPolygon(c, outline) {
			return false
		}
	}
	return true
}

// RectanglesOverlap reports whether a and b share a positive-area region.
// Touching edges do not overlap.
func RectanglesOverlap(a, b Rect) bool {
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

// Reverse returns a copy of outline in the opposite winding.
func Reverse(outline []Point) []Point {
	out := make([]Point, len(outline))
	for i, p := range outline {
		out[len(outline)-1-i] = p
	}
	return out
}
