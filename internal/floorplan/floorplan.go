// Package floorplan defines the floor-plan state shared by the editor
// components, the renderers and the persistence backends.
package floorplan

import (
	"slices"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
)

// DefaultWallHeight is the wall height, in feet, of a new plan.
const DefaultWallHeight = 20.0

// Vertex is an outline corner in feet.
type Vertex = geometry.Point

// PlacedItem is a catalog entry instantiated on the floor.
type PlacedItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
	Color      string  `json:"color"`
	Pallets    int     `json:"pallets"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Rotation   int     `json:"rotation"`
	InstanceID string  `json:"instanceId"`
}

// Rect returns the item's footprint.
func (p PlacedItem) Rect() geometry.Rect {
	return geometry.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// WallOpening is a door or window anchored to outline edge WallIndex at the
// fractional offset Position. WallIndex is positional: it is not updated when
// the outline topology changes.
type WallOpening struct {
	ID        string  `json:"id"`
	WallIndex int     `json:"wallIndex"`
	Type      string  `json:"type"`
	Position  float64 `json:"position"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// Snapshot is the part of the state tracked by undo/redo.
type Snapshot struct {
	Vertices []Vertex     `json:"vertices"`
	Items    []PlacedItem `json:"items"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Vertices: cloneOrEmpty(s.Vertices),
		Items:    cloneOrEmpty(s.Items),
	}
}

// State is the whole editable floor plan.
type State struct {
	Vertices   []Vertex      `json:"vertices"`
	Items      []PlacedItem  `json:"items"`
	Openings   []WallOpening `json:"wallOpenings"`
	WallHeight float64       `json:"wallHeight"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{
		Vertices:   cloneOrEmpty(s.Vertices),
		Items:      cloneOrEmpty(s.Items),
		Openings:   cloneOrEmpty(s.Openings),
		WallHeight: s.WallHeight,
	}
}

// Snapshot returns the history-tracked part of s.
func (s State) Snapshot() Snapshot {
	return Snapshot{Vertices: s.Vertices, Items: s.Items}.Clone()
}

func cloneOrEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}
