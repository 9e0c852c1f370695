package editor

import (
	"fmt"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/openings"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/placement"
)

// Placement is what a released catalog drag produced: exactly one of the
// fields is set.
type Placement struct {
	Item    *floorplan.PlacedItem  `json:"item,omitempty"`
	Opening *floorplan.WallOpening `json:"opening,omitempty"`
}

// BeginDrag starts dragging the catalog entry entryID.
func (s *Session) BeginDrag(entryID string) error {
	if err := s.idle(); err != nil {
		return err
	}
	entry, ok := s.catalog.Lookup(entryID)
	if !ok {
		return fmt.Errorf("editor: catalog entry %q: %w", entryID, apperr.ErrNotFound)
	}
	s.items.BeginDrag(entry)
	s.mode = ModeDraggingEntry
	return nil
}

// UpdateDrag moves the dragged entry and reports whether releasing it here
// would place it.
func (s *Session) UpdateDrag(x, y float64) (bool, error) {
	if s.mode != ModeDraggingEntry {
		return false, fmt.Errorf("editor: %w: no catalog drag in progress", apperr.ErrInvalidInput)
	}
	if !finite(x, y) {
		return false, errNotFinite("drag position")
	}
	if err := s.items.UpdateDragPosition(x, y); err != nil {
		return false, err
	}
	d, _ := s.items.Drag()
	return s.dragValid(d), nil
}

func (s *Session) dragValid(d placement.DragItem) bool {
	if !d.Entry.IsWall() {
		return s.items.DragValid()
	}
	hit, ok := openings.FindClosestWall(d.Point(), s.outline.Vertices())
	return ok && hit.Raw >= openings.MinOffset && hit.Raw <= openings.MaxOffset
}

// CommitDrag releases the dragged entry. Floor entries are placed if valid;
// wall entries become openings if they are near a wall. A rejected drop
// returns ok=false and is not an error.
func (s *Session) CommitDrag() (Placement, bool) {
	s.notice = ""
	if s.mode != ModeDraggingEntry {
		return Placement{}, false
	}
	s.mode = ModeIdle
	res, ok := s.items.CommitDrag()
	if !ok {
		return Placement{}, false
	}
	switch res.Route {
	case placement.RouteWall:
		o, ok := s.openings.Commit(res.Drag.Entry, res.Drag.Point(), s.outline.Vertices())
		if !ok {
			return Placement{}, false
		}
		s.touch()
		return Placement{Opening: &o}, true
	default:
		s.selected = res.Item.InstanceID
		s.commit()
		return Placement{Item: &res.Item}, true
	}
}

// CancelDrag drops the dragged entry without placing it.
func (s *Session) CancelDrag() {
	s.notice = ""
	if s.mode == ModeDraggingEntry {
		s.items.CancelDrag()
		s.mode = ModeIdle
	}
}

// Move repositions an item without validation or history. It backs free
// dragging in views that do not enforce placement rules.
func (s *Session) Move(instanceID string, x, y float64) error {
	s.notice = ""
	if !finite(x, y) {
		return errNotFinite("item position")
	}
	if s.mode == ModeDraggingEntry || s.mode == ModeDraggingVertex {
		return s.fail(fmt.Errorf("editor: %w: finish the current %s first", apperr.ErrBusy, s.mode))
	}
	if err := s.items.Move(instanceID, x, y); err != nil {
		return err
	}
	s.touch()
	return nil
}

// BeginItemMove starts the validated 2D move of a placed item.
func (s *Session) BeginItemMove(instanceID string) error {
	if err := s.idle(); err != nil {
		return err
	}
	it, ok := s.items.Item(instanceID)
	if !ok {
		return fmt.Errorf("editor: item %s: %w", instanceID, apperr.ErrNotFound)
	}
	s.mode = ModeMovingItem
	s.moveID = instanceID
	s.moveOrigin = geometry.Point{X: it.X, Y: it.Y}
	s.selected = instanceID
	return nil
}

// MoveItem drags the moving item to (x, y) and reports whether dropping it
// there would be valid.
func (s *Session) MoveItem(x, y float64) (bool, error) {
	if s.mode != ModeMovingItem {
		return false, fmt.Errorf("editor: %w: no item move in progress", apperr.ErrInvalidInput)
	}
	if !finite(x, y) {
		return false, errNotFinite("item position")
	}
	if err := s.items.Move(s.moveID, x, y); err != nil {
		return false, err
	}
	s.touch()
	return s.moveValid(s.moveID), nil
}

// moveValid checks the item's current footprint, ignoring the item itself.
func (s *Session) moveValid(id string) bool {
	i := s.items.Index(id)
	if i < 0 {
		return false
	}
	it, _ := s.items.Item(id)
	return s.items.IsValidPlacement(it.Rect(), i)
}

// EndItemMove drops the moving item. An invalid drop puts the item back
// where the move started and returns false.
func (s *Session) EndItemMove() (bool, error) {
	s.notice = ""
	if s.mode != ModeMovingItem {
		return false, fmt.Errorf("editor: %w: no item move in progress", apperr.ErrInvalidInput)
	}
	id, origin := s.moveID, s.moveOrigin
	s.mode = ModeIdle
	s.moveID = ""

	it, ok := s.items.Item(id)
	if !ok {
		return false, nil
	}
	if !s.moveValid(id) {
		_ = s.items.Move(id, origin.X, origin.Y)
		s.touch()
		return false, nil
	}
	if it.X != origin.X || it.Y != origin.Y {
		s.commit()
	}
	return true, nil
}

// CancelItemMove puts the moving item back where the move started.
func (s *Session) CancelItemMove() {
	if s.mode != ModeMovingItem {
		return
	}
	_ = s.items.Move(s.moveID, s.moveOrigin.X, s.moveOrigin.Y)
	s.mode = ModeIdle
	s.moveID = ""
	s.touch()
}

// Cancel abandons whatever drag is active: a catalog drag is dropped, and a
// moved item or dragged corner returns to where it started.
func (s *Session) Cancel() {
	switch s.mode {
	case ModeDraggingEntry:
		s.CancelDrag()
	case ModeMovingItem:
		s.CancelItemMove()
	case ModeDraggingVertex:
		s.CancelVertexDrag()
	}
}

// Rotate turns an item a quarter turn.
func (s *Session) Rotate(instanceID string) error {
	return s.structural(func() error { return s.items.Rotate(instanceID) })
}

// Duplicate copies an item two feet down and right and selects the copy.
func (s *Session) Duplicate(instanceID string) (floorplan.PlacedItem, error) {
	var dup floorplan.PlacedItem
	err := s.structural(func() error {
		var err error
		dup, err = s.items.Duplicate(instanceID)
		return err
	})
	if err == nil {
		s.selected = dup.InstanceID
	}
	return dup, err
}

// DeleteItem removes a placed item.
func (s *Session) DeleteItem(instanceID string) error {
	err := s.structural(func() error { return s.items.Delete(instanceID) })
	if err == nil && s.selected == instanceID {
		s.selected = ""
	}
	return err
}

// Select marks an item as the target of keyboard shortcuts. An empty id
// clears the selection.
func (s *Session) Select(instanceID string) error {
	if instanceID != "" && s.items.Index(instanceID) < 0 {
		return fmt.Errorf("editor: item %s: %w", instanceID, apperr.ErrNotFound)
	}
	s.selected = instanceID
	return nil
}

// Selected returns the selected item id, or "".
func (s *Session) Selected() string { return s.selected }

// ItemAt returns the topmost item containing p.
func (s *Session) ItemAt(p geometry.Point) (floorplan.PlacedItem, bool) {
	items := s.items.Items()
	for i := len(items) - 1; i >= 0; i-- {
		r := items[i].Rect()
		if p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H {
			return items[i], true
		}
	}
	return floorplan.PlacedItem{}, false
}

// DeleteOpening removes a wall opening. Openings are outside undo history.
func (s *Session) DeleteOpening(id string) error {
	s.notice = ""
	if err := s.openings.Delete(id); err != nil {
		return err
	}
	s.touch()
	return nil
}

// StaleOpenings lists openings whose wall reference no longer matches the
// wall they were attached to.
func (s *Session) StaleOpenings() []string {
	return s.openings.Stale(s.outline.Vertices())
}
