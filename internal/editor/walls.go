package editor

import (
	"fmt"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
)

// structural runs a topology edit and commits it to history. Edits are refused
// while an item or entry drag is active.
func (s *Session) structural(op func() error) error {
	if err := s.idle(); err != nil {
		return err
	}
	if err := op(); err != nil {
		return s.fail(err)
	}
	s.commit()
	return nil
}

// MoveVertex places corner i at p in one committed step.
func (s *Session) MoveVertex(i int, p floorplan.Vertex) error {
	if !finite(p.X, p.Y) {
		return errNotFinite("corner position")
	}
	return s.structural(func() error { return s.outline.MoveVertex(i, p) })
}

// BeginVertexDrag starts dragging corner i.
func (s *Session) BeginVertexDrag(i int) error {
	if err := s.idle(); err != nil {
		return err
	}
	if i < 0 || i >= s.outline.Len() {
		return fmt.Errorf("editor: %w: vertex %d", apperr.ErrInvalidInput, i)
	}
	s.mode = ModeDraggingVertex
	s.dragVertex = i
	s.dragOrigin = s.outline.Vertices()[i]
	return nil
}

// DragVertex moves the dragged corner. Frames are not committed.
func (s *Session) DragVertex(p floorplan.Vertex) error {
	if s.mode != ModeDraggingVertex {
		return fmt.Errorf("editor: %w: no vertex drag in progress", apperr.ErrInvalidInput)
	}
	if !finite(p.X, p.Y) {
		return errNotFinite("corner position")
	}
	if err := s.outline.MoveVertex(s.dragVertex, p); err != nil {
		return err
	}
	s.touch()
	return nil
}

// EndVertexDrag commits the dragged corner's final position. A corner
// dropped where it started leaves history alone.
func (s *Session) EndVertexDrag() error {
	if s.mode != ModeDraggingVertex {
		return fmt.Errorf("editor: %w: no vertex drag in progress", apperr.ErrInvalidInput)
	}
	i := s.dragVertex
	s.mode = ModeIdle
	s.dragVertex = -1
	if s.outline.Vertices()[i] != s.dragOrigin {
		s.commit()
	}
	return nil
}

// CancelVertexDrag puts the dragged corner back where the drag started.
func (s *Session) CancelVertexDrag() {
	if s.mode != ModeDraggingVertex {
		return
	}
	_ = s.outline.MoveVertex(s.dragVertex, s.dragOrigin)
	s.mode = ModeIdle
	s.dragVertex = -1
	s.touch()
}

// InsertVertex splits edge by adding a corner at p.
func (s *Session) InsertVertex(edge int, p floorplan.Vertex) error {
	if !finite(p.X, p.Y) {
		return errNotFinite("corner position")
	}
	return s.structural(func() error { return s.outline.InsertVertexOnEdge(edge, p) })
}

// DeleteVertex removes corner i. It is blocked on a three-corner outline.
func (s *Session) DeleteVertex(i int) error {
	return s.structural(func() error { return s.outline.DeleteVertex(i) })
}

// ResizeEdge sets edge to length feet by moving its second endpoint.
func (s *Session) ResizeEdge(edge int, length float64) error {
	if !finite(length) {
		return errNotFinite("edge length")
	}
	return s.structural(func() error { return s.outline.ResizeEdge(edge, length) })
}

// AddIndent notches edge inward. Edges shorter than 8 ft are blocked.
func (s *Session) AddIndent(edge int) error {
	return s.structural(func() error { return s.outline.AddIndent(edge) })
}

// AddBump pushes edge outward. Edges shorter than 8 ft are blocked.
func (s *Session) AddBump(edge int) error {
	return s.structural(func() error { return s.outline.AddBump(edge) })
}

// ApplyTemplate replaces the outline with a named preset.
func (s *Session) ApplyTemplate(name string) error {
	return s.structural(func() error { return s.outline.ApplyTemplate(name) })
}

// VertexAt returns the corner within tol feet of p.
func (s *Session) VertexAt(p geometry.Point, tol float64) (int, bool) {
	best, bestDist := -1, tol
	for i, v := range s.outline.Vertices() {
		if d := geometry.Distance(p, v); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// EdgeAt returns the edge within tol feet of p and the projection on it.
func (s *Session) EdgeAt(p geometry.Point, tol float64) (int, geometry.Point, bool) {
	vs := s.outline.Vertices()
	best, bestDist := -1, tol
	var at geometry.Point
	for i := range vs {
		a, b, _ := geometry.Edge(vs, i)
		proj, ok := geometry.ClosestPointOnSegment(p, a, b)
		if ok && proj.Distance <= bestDist {
			best, bestDist, at = i, proj.Distance, proj.Point
		}
	}
	return best, at, best >= 0
}
