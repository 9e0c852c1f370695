// Package placement owns the equipment placed on the floor and the
// drag-then-commit cycle that creates it.
package placement

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/catalog"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
)

// NoIgnore is passed to IsValidPlacement when no existing item is exempt.
const NoIgnore = -1

// DuplicateOffset is how far, in feet on each axis, a duplicate lands from
// its original.
const DuplicateOffset = 2.0

// Outline supplies the current building outline.
type Outline interface {
	Vertices() []floorplan.Vertex
}

// Route tells the caller where a committed drag ended up.
type Route int

const (
	RouteFloor Route = iota + 1
	RouteWall
)

// DragItem is the ephemeral item following the pointer.
type DragItem struct {
	Entry catalog.Entry `json:"entry"`
	X     float64       `json:"x"`
	Y     float64       `json:"y"`
}

// Rect returns the drag footprint.
func (d DragItem) Rect() geometry.Rect {
	return geometry.Rect{X: d.X, Y: d.Y, W: d.Entry.W, H: d.Entry.H}
}

// Point returns the drag position.
func (d DragItem) Point() geometry.Point {
	return geometry.Point{X: d.X, Y: d.Y}
}

// Result describes a successful CommitDrag.
type Result struct {
	Route Route
	// Item is set for RouteFloor.
	Item floorplan.PlacedItem
	// Drag is the released drag; wall entries are forwarded from it.
	Drag DragItem
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator overrides how instance ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// Engine validates and applies item placements. It is not safe for
// concurrent use.
type Engine struct {
	outline Outline
	items   []floorplan.PlacedItem
	drag    *DragItem
	newID   func() string
}

// New returns an engine placing items inside outline.
func New(outline Outline, items []floorplan.PlacedItem, opts ...Option) *Engine {
	e := &Engine{
		outline: outline,
		items:   slices.Clone(items),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Items returns a copy of the placed items.
func (e *Engine) Items() []floorplan.PlacedItem {
	if e.items == nil {
		return []floorplan.PlacedItem{}
	}
	return slices.Clone(e.items)
}

// Replace swaps in a whole new item set, e.g. when restoring history.
func (e *Engine) Replace(items []floorplan.PlacedItem) {
	e.items = slices.Clone(items)
}

// Index returns the position of the item with instanceID, or -1.
func (e *Engine) Index(instanceID string) int {
	return slices.IndexFunc(e.items, func(it floorplan.PlacedItem) bool {
		return it.InstanceID == instanceID
	})
}

// Item returns the item with instanceID.
func (e *Engine) Item(instanceID string) (floorplan.PlacedItem, bool) {
	i := e.Index(instanceID)
	if i < 0 {
		return floorplan.PlacedItem{}, false
	}
	return e.items[i], true
}

// IsValidPlacement reports whether r lies inside the outline and overlaps no
// placed item other than the one at ignoreIndex.
func (e *Engine) IsValidPlacement(r geometry.Rect, ignoreIndex int) bool {
	if !geometry.RectangleInsidePolygon(r, e.outline.Vertices()) {
		return false
	}
	for i, other := range e.items {
		if i == ignoreIndex {
			continue
		}
		if geometry.RectanglesOverlap(r, other.Rect()) {
			return false
		}
	}
	return true
}

// BeginDrag starts dragging entry from the origin. Any previous drag is dropped.
func (e *Engine) BeginDrag(entry catalog.Entry) {
	e.drag = &DragItem{Entry: entry}
}

// UpdateDragPosition moves the drag item. Committed items are untouched.
func (e *Engine) UpdateDragPosition(x, y float64) error {
	if e.drag == nil {
		return fmt.Errorf("placement: %w: no drag in progress", apperr.ErrInvalidInput)
	}
	e.drag.X, e.drag.Y = x, y
	return nil
}

// Drag returns the active drag item, if any.
func (e *Engine) Drag() (DragItem, bool) {
	if e.drag == nil {
		return DragItem{}, false
	}
	return *e.drag, true
}

// DragValid reports whether releasing the drag now would place it. Wall
// entries are always forwarded, so they report true here and are checked
// against the walls by the caller.
func (e *Engine) DragValid() bool {
	if e.drag == nil {
		return false
	}
	if e.drag.Entry.IsWall() {
		return true
	}
	return e.IsValidPlacement(e.drag.Rect(), NoIgnore)
}

// CancelDrag drops the drag item.
func (e *Engine) CancelDrag() { e.drag = nil }

// CommitDrag releases the drag. A floor entry at a valid spot becomes a new
// PlacedItem; an invalid one is discarded and ok is false. Wall entries are
// returned with RouteWall for the caller to attach to a wall.
func (e *Engine) CommitDrag() (Result, bool) {
	if e.drag == nil {
		return Result{}, false
	}
	d := *e.drag
	e.drag = nil

	if d.Entry.IsWall() {
		return Result{Route: RouteWall, Drag: d}, true
	}
	if !e.IsValidPlacement(d.Rect(), NoIgnore) {
		return Result{}, false
	}
	item := floorplan.PlacedItem{
		ID:         d.Entry.ID,
		Name:       d.Entry.Name,
		W:          d.Entry.W,
		H:          d.Entry.H,
		Color:      d.Entry.Color,
		Pallets:    d.Entry.Pallets,
		X:          d.X,
		Y:          d.Y,
		InstanceID: e.newID(),
	}
	e.items = append(e.items, item)
	return Result{Route: RouteFloor, Item: item, Drag: d}, true
}

func (e *Engine) lookup(instanceID string) (int, error) {
	i := e.Index(instanceID)
	if i < 0 {
		return -1, fmt.Errorf("placement: item %s: %w", instanceID, apperr.ErrNotFound)
	}
	return i, nil
}

// Move repositions an item without validating it.
func (e *Engine) Move(instanceID string, x, y float64) error {
	i, err := e.lookup(instanceID)
	if err != nil {
		return err
	}
	e.items[i].X, e.items[i].Y = x, y
	return nil
}

// Rotate turns an item a quarter turn by swapping its footprint.
func (e *Engine) Rotate(instanceID string) error {
	i, err := e.lookup(instanceID)
	if err != nil {
		return err
	}
	it := &e.items[i]
	it.W, it.H = it.H, it.W
	it.Rotation = (it.Rotation + 90) % 360
	return nil
}

// Duplicate clones an item DuplicateOffset feet down and right. The copy is
// not validated and may overlap.
func (e *Engine) Duplicate(instanceID string) (floorplan.PlacedItem, error) {
	i, err := e.lookup(instanceID)
	if err != nil {
		return floorplan.PlacedItem{}, err
	}
	dup := e.items[i]
	dup.InstanceID = e.newID()
	dup.X += DuplicateOffset
	dup.Y += DuplicateOffset
	e.items = append(e.items, dup)
	return dup, nil
}

// Delete removes an item.
func (e *Engine) Delete(instanceID string) error {
	i, err := e.lookup(instanceID)
	if err != nil {
		return err
	}
	e.items = slices.Delete(e.items, i, i+1)
	return nil
}
