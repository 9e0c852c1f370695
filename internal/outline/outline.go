// Package outline edits the ordered vertex list that forms the building
// outline. Edge i runs from vertex i to vertex (i+1) mod n.
package outline

import (
	"fmt"
	"math"
	"slices"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
)

const (
	// MinVertices is the smallest outline the editor allows.
	MinVertices = 3
	// MinFeatureEdge is the shortest edge, in feet, that accepts an indent or bump.
	MinFeatureEdge = 8.0
	// FeatureDepth is how far an indent or bump reaches from its edge.
	FeatureDepth = 4.0
	// MaxFeatureHalfWidth caps the half-width of an indent or bump.
	MaxFeatureHalfWidth = 4.0
)

// Editor owns the outline vertices. It is not safe for concurrent use.
type Editor struct {
	vertices []floorplan.Vertex
}

// New returns an editor over a copy of vertices.
func New(vertices []floorplan.Vertex) (*Editor, error) {
	e := &Editor{}
	if err := e.Replace(vertices); err != nil {
		return nil, err
	}
	return e, nil
}

// Vertices returns a copy of the outline.
func (e *Editor) Vertices() []floorplan.Vertex {
	return slices.Clone(e.vertices)
}

// Len returns the vertex count, which is also the edge count.
func (e *Editor) Len() int { return len(e.vertices) }

// Replace swaps in a whole new outline.
func (e *Editor) Replace(vertices []floorplan.Vertex) error {
	if len(vertices) < MinVertices {
		return fmt.Errorf("outline: %w: need at least %d vertices, got %d", apperr.ErrInvalidInput, MinVertices, len(vertices))
	}
	e.vertices = slices.Clone(vertices)
	return nil
}

func (e *Editor) checkVertex(i int) error {
	if i < 0 || i >= len(e.vertices) {
		return fmt.Errorf("outline: %w: vertex %d out of range [0,%d)", apperr.ErrInvalidInput, i, len(e.vertices))
	}
	return nil
}

func (e *Editor) checkEdge(i int) error {
	if i < 0 || i >= len(e.vertices) {
		return fmt.Errorf("outline: %w: edge %d out of range [0,%d)", apperr.ErrInvalidInput, i, len(e.vertices))
	}
	return nil
}

// MoveVertex places vertex i at p. Self-intersection is not checked.
func (e *Editor) MoveVertex(i int, p floorplan.Vertex) error {
	if err := e.checkVertex(i); err != nil {
		return err
	}
	e.vertices[i] = p
	return nil
}

// InsertVertexOnEdge splits edge by inserting p right after vertex edge.
func (e *Editor) InsertVertexOnEdge(edge int, p floorplan.Vertex) error {
	if err := e.checkEdge(edge); err != nil {
		return err
	}
	e.vertices = slices.Insert(e.vertices, edge+1, p)
	return nil
}

// DeleteVertex removes vertex i unless that would leave fewer than
// MinVertices, in which case it returns an error wrapping apperr.ErrBlocked.
func (e *Editor) DeleteVertex(i int) error {
	if err := e.checkVertex(i); err != nil {
		return err
	}
	if len(e.vertices) <= MinVertices {
		return fmt.Errorf("outline: %w: an outline needs at least %d corners", apperr.ErrBlocked, MinVertices)
	}
	e.vertices = slices.Delete(e.vertices, i, i+1)
	return nil
}

// ResizeEdge moves the second endpoint of edge along the edge direction so the
// edge becomes newLength long. The rest of the outline is left alone.
func (e *Editor) ResizeEdge(edge int, newLength float64) error {
	if err := e.checkEdge(edge); err != nil {
		return err
	}
	if newLength <= 0 || math.IsNaN(newLength) || math.IsInf(newLength, 0) {
		return fmt.Errorf("outline: %w: length must be positive", apperr.ErrInvalidInput)
	}
	a, b, _ := geometry.Edge(e.vertices, edge)
	cur := geometry.Distance(a, b)
	if cur == 0 {
		return fmt.Errorf("outline: %w: edge %d has zero length", apperr.ErrBlocked, edge)
	}
	end := geometry.Lerp(a, b, newLength/cur)
	e.vertices[(edge+1)%len(e.vertices)] = end
	return nil
}

// AddIndent cuts a centered rectangular notch into the building along edge.
func (e *Editor) AddIndent(edge int) error {
	return e.addFeature(edge, true)
}

// AddBump pushes a centered rectangular bay out of the building along edge.
func (e *Editor) AddBump(edge int) error {
	return e.addFeature(edge, false)
}

// addFeature replaces edge with five edges forming a notch of depth
// FeatureDepth. The inward side is derived from the outline's winding, so
// an indent always shrinks the area and a bump always grows it.
func (e *Editor) addFeature(edge int, inward bool) error {
	if err := e.checkEdge(edge); err != nil {
		return err
	}
	a, b, _ := geometry.Edge(e.vertices, edge)
	l := geometry.Distance(a, b)
	if l < MinFeatureEdge {
		return fmt.Errorf("outline: %w: wall %d is %.1f ft, at least %.0f ft is needed", apperr.ErrBlocked, edge, l, MinFeatureEdge)
	}

	dir := b.Sub(a).Scale(1 / l)
	half := math.Min(l/4, MaxFeatureHalfWidth)
	mid := geometry.Lerp(a, b, 0.5)

	in := InwardNormal(e.vertices, edge)
	offset := in.Scale(FeatureDepth)
	if !inward {
		offset = offset.Scale(-1)
	}

	start := mid.Sub(dir.Scale(half))
	end := mid.Add(dir.Scale(half))
	e.vertices = slices.Insert(e.vertices, edge+1,
		start,
		start.Add(offset),
		end.Add(offset),
		end,
	)
	return nil
}

// InwardNormal returns the unit normal of edge pointing into the outline.
// geometry.SegmentNormal points outward for outlines with a positive signed
// area, so the sign is flipped for those.
func InwardNormal(vertices []floorplan.Vertex, edge int) geometry.Point {
	a, b, ok := geometry.Edge(vertices, edge)
	if !ok {
		return geometry.Point{}
	}
	n := geometry.SegmentNormal(a, b)
	if geometry.SignedArea(vertices) >= 0 {
		return n.Scale(-1)
	}
	return n
}
