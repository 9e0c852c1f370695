// Package editor wires the outline, placement, opening and history
// components into one EditorSession, the single entry point for every
// mutation of a floor plan.
package editor

import (
	"errors"
	"fmt"
	"math"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/catalog"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/history"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/openings"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/outline"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/placement"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/viewport"
)

// Mode is the modal interaction state. Only one drag may be active.
type Mode int

const (
	ModeIdle Mode = iota
	// ModeDraggingEntry: a catalog entry follows the pointer.
	ModeDraggingEntry
	// ModeMovingItem: a placed item is being dragged.
	ModeMovingItem
	// ModeDraggingVertex: an outline corner is being dragged.
	ModeDraggingVertex
)

func (m Mode) String() string {
	switch m {
	case ModeDraggingEntry:
		return "dragging-entry"
	case ModeMovingItem:
		return "moving-item"
	case ModeDraggingVertex:
		return "dragging-vertex"
	default:
		return "idle"
	}
}

// Option configures a Session.
type Option func(*config)

type config struct {
	state        *floorplan.State
	historyLimit int
	newID        func() string
	view         viewport.Transform
}

// WithState starts the session from a loaded plan instead of the default
// rectangle.
func WithState(s floorplan.State) Option {
	return func(c *config) { c.state = &s }
}

// WithHistoryLimit overrides history.DefaultLimit.
func WithHistoryLimit(n int) Option {
	return func(c *config) { c.historyLimit = n }
}

// WithIDGenerator overrides how instance and opening ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(c *config) { c.newID = fn }
}

// WithView sets the initial view transform.
func WithView(t viewport.Transform) Option {
	return func(c *config) { c.view = t }
}

// Session is one editing session over one floor plan. It is single-threaded:
// callers must not use it from several goroutines at once.
type Session struct {
	catalog  catalog.Source
	outline  *outline.Editor
	items    *placement.Engine
	openings *openings.Manager
	history  *history.Manager

	view       viewport.Transform
	wallHeight float64

	mode       Mode
	selected   string
	moveID     string
	moveOrigin floorplan.Vertex
	dragVertex int
	dragOrigin floorplan.Vertex

	notice  string
	version uint64
}

// New creates a session drawing entries from cat.
func New(cat catalog.Source, opts ...Option) (*Session, error) {
	if cat == nil {
		return nil, errors.New("editor: catalog is required")
	}
	cfg := config{historyLimit: history.DefaultLimit, view: viewport.Identity()}
	for _, opt := range opts {
		opt(&cfg)
	}

	st := floorplan.State{
		Vertices:   outline.DefaultOutline(),
		WallHeight: floorplan.DefaultWallHeight,
	}
	if cfg.state != nil {
		st = cfg.state.Clone()
		if st.WallHeight <= 0 {
			st.WallHeight = floorplan.DefaultWallHeight
		}
	}

	ol, err := outline.New(st.Vertices)
	if err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}

	var placementOpts []placement.Option
	var openingOpts []openings.Option
	if cfg.newID != nil {
		placementOpts = append(placementOpts, placement.WithIDGenerator(cfg.newID))
		openingOpts = append(openingOpts, openings.WithIDGenerator(cfg.newID))
	}

	s := &Session{
		catalog:    cat,
		outline:    ol,
		items:      placement.New(ol, st.Items, placementOpts...),
		openings:   openings.New(st.Openings, st.Vertices, openingOpts...),
		view:       cfg.view,
		wallHeight: st.WallHeight,
		dragVertex: -1,
	}
	s.history = history.New(s.snapshot(), cfg.historyLimit)
	return s, nil
}

func (s *Session) snapshot() floorplan.Snapshot {
	return floorplan.Snapshot{Vertices: s.outline.Vertices(), Items: s.items.Items()}
}

// commit records the current outline and items in history.
func (s *Session) commit() {
	s.history.Commit(s.snapshot())
	s.touch()
}

// touch marks a change that is not part of history.
func (s *Session) touch() { s.version++ }

// finite reports whether every value is a usable coordinate or length.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func errNotFinite(what string) error {
	return fmt.Errorf("editor: %w: %s must be a finite number", apperr.ErrInvalidInput, what)
}

// fail records blocked edits as the current notice and passes err through.
func (s *Session) fail(err error) error {
	if errors.Is(err, apperr.ErrBlocked) || errors.Is(err, apperr.ErrBusy) {
		s.notice = err.Error()
	}
	return err
}

// State returns a deep copy of the whole plan.
func (s *Session) State() floorplan.State {
	return floorplan.State{
		Vertices:   s.outline.Vertices(),
		Items:      s.items.Items(),
		Openings:   s.openings.List(),
		WallHeight: s.wallHeight,
	}
}

// Metrics derives area, utilization and counts from the current plan.
func (s *Session) Metrics() floorplan.Metrics {
	return floorplan.ComputeMetrics(s.State())
}

// Scene returns the read-only projection renderers draw from.
func (s *Session) Scene() render.Scene {
	st := s.State()
	sc := render.Scene{
		State:         st,
		Metrics:       floorplan.ComputeMetrics(st),
		Selected:      s.selected,
		StaleOpenings: s.openings.Stale(st.Vertices),
	}
	if d, ok := s.items.Drag(); ok {
		sc.Drag = &render.DragPreview{
			Name:  d.Entry.Name,
			Color: d.Entry.Color,
			Rect:  d.Rect(),
			Wall:  d.Entry.IsWall(),
			Valid: s.dragValid(d),
		}
	}
	return sc
}

// Mode returns the current interaction mode.
func (s *Session) Mode() Mode { return s.mode }

// Version increases on every change to the plan, committed or not.
func (s *Session) Version() uint64 { return s.version }

// Notice returns the message of the last blocked action, if any.
func (s *Session) Notice() string { return s.notice }

// ClearNotice dismisses the current notice.
func (s *Session) ClearNotice() { s.notice = "" }

// View returns the session's view transform.
func (s *Session) View() viewport.Transform { return s.view }

// SetView replaces the view transform. Zoom is clamped.
func (s *Session) SetView(t viewport.Transform) {
	s.view = viewport.New(t.Zoom, t.Pan)
}

// WallHeight returns the 3D wall height in feet.
func (s *Session) WallHeight() float64 { return s.wallHeight }

// SetWallHeight changes the 3D wall height. Like openings, it is not part of
// undo history.
func (s *Session) SetWallHeight(h float64) error {
	s.notice = ""
	if !finite(h) || h <= 0 {
		return fmt.Errorf("editor: %w: wall height must be a positive number", apperr.ErrInvalidInput)
	}
	s.wallHeight = h
	s.touch()
	return nil
}

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Undo restores the previous committed outline and items. Openings are not
// tracked by history and stay as they are. It is refused during a drag.
func (s *Session) Undo() (bool, error) {
	if err := s.idle(); err != nil {
		return false, err
	}
	snap, ok := s.history.Undo()
	if !ok {
		return false, nil
	}
	s.restore(snap)
	return true, nil
}

// Redo re-applies the next committed outline and items.
func (s *Session) Redo() (bool, error) {
	if err := s.idle(); err != nil {
		return false, err
	}
	snap, ok := s.history.Redo()
	if !ok {
		return false, nil
	}
	s.restore(snap)
	return true, nil
}

func (s *Session) restore(snap floorplan.Snapshot) {
	// Snapshots always hold a valid outline, so Replace cannot fail here.
	_ = s.outline.Replace(snap.Vertices)
	s.items.Replace(snap.Items)
	if s.items.Index(s.selected) < 0 {
		s.selected = ""
	}
	s.touch()
}

// idle starts every edit that needs the session at rest. It also dismisses
// the previous notice, so a notice always describes the latest refusal.
func (s *Session) idle() error {
	s.notice = ""
	if s.mode != ModeIdle {
		return s.fail(fmt.Errorf("editor: %w: finish the current %s first", apperr.ErrBusy, s.mode))
	}
	return nil
}
