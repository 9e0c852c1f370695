// Package openings attaches doors and windows to outline edges.
//
// An opening refers to its wall by edge index and fractional offset. The
// reference is positional: splitting, indenting, bumping or deleting corners
// before or on that edge leaves the opening pointing at whatever edge now has
// that index. Stale reports such openings; nothing rewrites them.
package openings

import (
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/catalog"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
)

const (
	// SnapDistance is the farthest, in feet, a drop may be from a wall.
	SnapDistance = 3.0

	// MinPosition and MaxPosition keep snapped openings off the corners.
	MinPosition = 0.1
	MaxPosition = 0.9

	// MinOffset and MaxOffset bound the unclamped offset a drop must have to
	// create an opening.
	MinOffset = 0.05
	MaxOffset = 0.95
)

const anchorTolerance = 1e-6

// Hit is the wall nearest to a point.
type Hit struct {
	Edge int
	// Position is the offset along the edge clamped to [MinPosition, MaxPosition].
	Position float64
	// Raw is the unclamped projection parameter.
	Raw      float64
	Distance float64
}

// FindClosestWall returns the edge nearest to p if it is within SnapDistance.
// Zero-length edges never match.
func FindClosestWall(p geometry.Point, outline []floorplan.Vertex) (Hit, bool) {
	best := Hit{Edge: -1, Distance: math.Inf(1)}
	for i := range outline {
		a, b, _ := geometry.Edge(outline, i)
		proj, ok := geometry.ClosestPointOnSegment(p, a, b)
		if !ok {
			continue
		}
		if proj.Distance < best.Distance {
			best = Hit{Edge: i, Raw: proj.Raw, Distance: proj.Distance}
		}
	}
	if best.Edge < 0 || best.Distance >= SnapDistance {
		return Hit{}, false
	}
	best.Position = geometry.Clamp(best.Raw, MinPosition, MaxPosition)
	return best, true
}

// Locate returns the world position of o on outline. ok is false when the
// referenced edge does not exist.
func Locate(o floorplan.WallOpening, outline []floorplan.Vertex) (geometry.Point, bool) {
	a, b, ok := geometry.Edge(outline, o.WallIndex)
	if !ok {
		return geometry.Point{}, false
	}
	return geometry.Lerp(a, b, o.Position), true
}

// Option configures a Manager.
type Option func(*Manager)

// WithIDGenerator overrides how opening ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

type anchor struct {
	a, b geometry.Point
}

// Manager owns the wall openings of one plan.
type Manager struct {
	openings []floorplan.WallOpening
	anchors  map[string]anchor
	newID    func() string
}

// New returns a manager holding openings, anchored to the walls they
// currently reference in outline.
func New(openings []floorplan.WallOpening, outline []floorplan.Vertex, opts ...Option) *Manager {
	m := &Manager{newID: uuid.NewString}
	for _, opt := range opts {
		opt(m)
	}
	m.Replace(openings, outline)
	return m
}

// Replace swaps in a whole new opening set.
func (m *Manager) Replace(openings []floorplan.WallOpening, outline []floorplan.Vertex) {
	m.openings = slices.Clone(openings)
	m.anchors = make(map[string]anchor, len(openings))
	for _, o := range m.openings {
		m.anchor(o, outline)
	}
}

func (m *Manager) anchor(o floorplan.WallOpening, outline []floorplan.Vertex) {
	if a, b, ok := geometry.Edge(outline, o.WallIndex); ok {
		m.anchors[o.ID] = anchor{a: a, b: b}
	}
}

// List returns a copy of the openings.
func (m *Manager) List() []floorplan.WallOpening {
	if m.openings == nil {
		return []floorplan.WallOpening{}
	}
	return slices.Clone(m.openings)
}

// Commit attaches a wall entry dropped at p. The drop is ignored (ok=false)
// when no wall is within SnapDistance or the drop is too close to a corner.
// Openings on the same wall may overlap.
func (m *Manager) Commit(entry catalog.Entry, p geometry.Point, outline []floorplan.Vertex) (floorplan.WallOpening, bool) {
	if !entry.IsWall() {
		return floorplan.WallOpening{}, false
	}
	hit, ok := FindClosestWall(p, outline)
	if !ok || hit.Raw < MinOffset || hit.Raw > MaxOffset {
		return floorplan.WallOpening{}, false
	}
	o := floorplan.WallOpening{
		ID:        m.newID(),
		WallIndex: hit.Edge,
		Type:      string(entry.Wall.Opening),
		Position:  hit.Position,
		Width:     entry.W,
		Height:    entry.DoorHeight(),
	}
	m.openings = append(m.openings, o)
	m.anchor(o, outline)
	return o, true
}

// Delete removes an opening.
func (m *Manager) Delete(id string) error {
	i := slices.IndexFunc(m.openings, func(o floorplan.WallOpening) bool { return o.ID == id })
	if i < 0 {
		return fmt.Errorf("openings: %s: %w", id, apperr.ErrNotFound)
	}
	m.openings = slices.Delete(m.openings, i, i+1)
	delete(m.anchors, id)
	return nil
}

// Stale returns the ids of openings whose edge index no longer exists or no
// longer names the wall they were attached to.
func (m *Manager) Stale(outline []floorplan.Vertex) []string {
	var out []string
	for _, o := range m.openings {
		a, b, ok := geometry.Edge(outline, o.WallIndex)
		if !ok {
			out = append(out, o.ID)
			continue
		}
		if anc, known := m.anchors[o.ID]; known {
			if geometry.Distance(a, anc.a) > anchorTolerance || geometry.Distance(b, anc.b) > anchorTolerance {
				out = append(out, o.ID)
			}
		}
	}
	return out
}
