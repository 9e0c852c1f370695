package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/editor"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
)

// cursorStep is how far, in feet, an arrow key moves the cursor.
const cursorStep = 1.0

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.catalog.SetSize(sidebarWidth-2, max(4, m.height-5))
		m.input.Width = max(10, m.width-4)
	case saveDoneMsg:
		m.saving = false
		if msg.err != nil {
			m.setErr("save failed: " + msg.err.Error())
		} else {
			m.setStatus("saved revision " + msg.revision)
		}
	case tea.KeyMsg:
		switch m.focus {
		case focusCommand:
			return m.updateCommand(msg)
		case focusCatalog:
			return m.updateCatalog(msg)
		}
		return m.updateCanvas(msg)
	}
	return m, nil
}

func (m *Model) setStatus(s string) { m.status, m.statusErr = s, false }
func (m *Model) setErr(s string)    { m.status, m.statusErr = s, true }

// apply runs fn on the session and refreshes the view. Refused edits show
// their notice.
func (m *Model) apply(fn func(*editor.Session) error) bool {
	v, err := m.svc.Apply(m.ctx, m.planID, fn)
	notice := ""
	if (errors.Is(err, apperr.ErrBlocked) || errors.Is(err, apperr.ErrBusy)) && v.Notice != "" {
		notice = v.Notice
		_, _ = m.svc.Apply(m.ctx, m.planID, func(s *editor.Session) error { s.ClearNotice(); return nil })
	}
	if rerr := m.refresh(); rerr != nil && err == nil {
		err = rerr
	}
	switch {
	case notice != "":
		m.setErr(notice)
	case err != nil:
		m.setErr(err.Error())
	default:
		return true
	}
	return false
}

func (m Model) updateCommand(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusCanvas
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case "enter":
		line := strings.TrimSpace(m.input.Value())
		m.focus = focusCanvas
		m.input.Blur()
		m.input.SetValue("")
		return m.runCommand(line)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.catalog.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.catalog, cmd = m.catalog.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "tab", "esc":
		m.focus = focusCanvas
		return m, nil
	case "enter":
		it, ok := m.catalog.SelectedItem().(entryItem)
		if !ok {
			return m, nil
		}
		m.focus = focusCanvas
		c := m.cursor
		if m.apply(func(s *editor.Session) error {
			if err := s.BeginDrag(it.e.ID); err != nil {
				return err
			}
			_, err := s.UpdateDrag(c.X, c.Y)
			return err
		}) {
			m.setStatus("placing " + it.e.Name + ": arrows to move, enter to drop, esc to cancel")
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.catalog, cmd = m.catalog.Update(msg)
	return m, cmd
}

func (m Model) updateCanvas(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.focus = focusCatalog
		return m, nil
	case ":":
		m.focus = focusCommand
		cmd := m.input.Focus()
		return m, cmd
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "+", "=":
		m.zoom = min(m.zoom*1.25, 8)
		return m, nil
	case "-", "_":
		m.zoom = max(m.zoom/1.25, 0.25)
		return m, nil
	case "0":
		m.zoom, m.pan = 1, geometry.Point{}
		return m, nil
	case "ctrl+s":
		if m.saving {
			return m, nil
		}
		m.saving = true
		m.setStatus("saving...")
		return m, m.saveCmd()
	case "alt+up":
		m.pan.Y += 5
		return m, nil
	case "alt+down":
		m.pan.Y -= 5
		return m, nil
	case "alt+left":
		m.pan.X += 5
		return m, nil
	case "alt+right":
		m.pan.X -= 5
		return m, nil
	case "up", "down", "left", "right", "shift+up", "shift+down", "shift+left", "shift+right":
		m.moveCursor(key)
		return m, nil
	case "enter", " ":
		m.release()
		return m, nil
	case "m":
		m.beginMove()
		return m, nil
	case "v":
		m.beginVertexDrag()
		return m, nil
	}

	var handled bool
	ok := m.apply(func(s *editor.Session) error {
		var err error
		handled, err = s.HandleKey(key, m.input.Focused())
		return err
	})
	if ok && handled {
		m.setStatus(key)
	}
	return m, nil
}

func (m *Model) moveCursor(key string) {
	step := cursorStep
	if strings.HasPrefix(key, "shift+") {
		step *= 5
		key = strings.TrimPrefix(key, "shift+")
	}
	switch key {
	case "up":
		m.cursor.Y -= step
	case "down":
		m.cursor.Y += step
	case "left":
		m.cursor.X -= step
	case "right":
		m.cursor.X += step
	}

	c, grab := m.cursor, m.grab
	switch m.plan.Mode {
	case editor.ModeDraggingEntry.String():
		m.apply(func(s *editor.Session) error {
			_, err := s.UpdateDrag(c.X, c.Y)
			return err
		})
	case editor.ModeMovingItem.String():
		m.apply(func(s *editor.Session) error {
			_, err := s.MoveItem(c.X-grab.X, c.Y-grab.Y)
			return err
		})
	case editor.ModeDraggingVertex.String():
		m.apply(func(s *editor.Session) error { return s.DragVertex(c) })
	}
}

// release finishes whatever the cursor is carrying, or selects the item
// under it.
func (m *Model) release() {
	c := m.cursor
	switch m.plan.Mode {
	case editor.ModeDraggingEntry.String():
		var placed bool
		m.apply(func(s *editor.Session) error {
			_, placed = s.CommitDrag()
			return nil
		})
		if placed {
			m.setStatus("placed")
		} else {
			m.setErr("cannot place here")
		}
	case editor.ModeMovingItem.String():
		var valid bool
		m.apply(func(s *editor.Session) error {
			var err error
			valid, err = s.EndItemMove()
			return err
		})
		if valid {
			m.setStatus("moved")
		} else {
			m.setErr("invalid spot: item returned")
		}
	case editor.ModeDraggingVertex.String():
		m.apply(func(s *editor.Session) error { return s.EndVertexDrag() })
		m.setStatus("corner moved")
	default:
		var name string
		m.apply(func(s *editor.Session) error {
			it, ok := s.ItemAt(c)
			name = it.Name
			if !ok {
				return s.Select("")
			}
			return s.Select(it.InstanceID)
		})
		if name != "" {
			m.setStatus("selected " + name)
		}
	}
}

func (m *Model) beginMove() {
	c := m.cursor
	var name string
	ok := m.apply(func(s *editor.Session) error {
		it, found := s.ItemAt(c)
		if !found {
			return fmt.Errorf("tui: %w: no item under the cursor", apperr.ErrNotFound)
		}
		name = it.Name
		m.grab = geometry.Point{X: c.X - it.X, Y: c.Y - it.Y}
		_ = s.Select(it.InstanceID)
		return s.BeginItemMove(it.InstanceID)
	})
	if ok {
		m.setStatus("moving " + name + ": enter to drop, esc to cancel")
	}
}

func (m *Model) beginVertexDrag() {
	c := m.cursor
	tol := 1.5 / m.zoom
	if m.apply(func(s *editor.Session) error {
		i, found := s.VertexAt(c, tol)
		if !found {
			return fmt.Errorf("tui: %w: no corner under the cursor", apperr.ErrNotFound)
		}
		return s.BeginVertexDrag(i)
	}) {
		m.setStatus("dragging corner: enter to finish, esc to cancel")
	}
}

func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	f := strings.Fields(line)
	if len(f) == 0 {
		return m, nil
	}
	ints := func(n int) ([]int, bool) {
		if len(f) != n+1 {
			return nil, false
		}
		out := make([]int, n)
		for i := range out {
			v, err := strconv.Atoi(f[i+1])
			if err != nil {
				return nil, false
			}
			out[i] = v
		}
		return out, true
	}
	usage := func(u string) (tea.Model, tea.Cmd) {
		m.setErr("usage: " + u)
		return m, nil
	}
	c := m.cursor

	switch f[0] {
	case "q", "quit":
		return m, tea.Quit
	case "save", "w":
		m.saving = true
		m.setStatus("saving...")
		return m, m.saveCmd()
	case "undo":
		m.apply(func(s *editor.Session) error { _, err := s.Undo(); return err })
	case "redo":
		m.apply(func(s *editor.Session) error { _, err := s.Redo(); return err })
	case "indent", "bump":
		a, ok := ints(1)
		if !ok {
			return usage(f[0] + " EDGE")
		}
		if m.apply(func(s *editor.Session) error {
			if f[0] == "indent" {
				return s.AddIndent(a[0])
			}
			return s.AddBump(a[0])
		}) {
			m.setStatus(line)
		}
	case "split":
		a, ok := ints(1)
		if !ok {
			return usage("split EDGE (inserts a corner at the cursor)")
		}
		if m.apply(func(s *editor.Session) error { return s.InsertVertex(a[0], c) }) {
			m.setStatus(line)
		}
	case "delvertex":
		a, ok := ints(1)
		if !ok {
			return usage("delvertex INDEX")
		}
		if m.apply(func(s *editor.Session) error { return s.DeleteVertex(a[0]) }) {
			m.setStatus(line)
		}
	case "resize":
		if len(f) != 3 {
			return usage("resize EDGE LENGTH")
		}
		e, err1 := strconv.Atoi(f[1])
		l, err2 := strconv.ParseFloat(f[2], 64)
		if err1 != nil || err2 != nil {
			return usage("resize EDGE LENGTH")
		}
		if m.apply(func(s *editor.Session) error { return s.ResizeEdge(e, l) }) {
			m.setStatus(line)
		}
	case "template":
		if len(f) != 2 {
			return usage("template NAME")
		}
		if m.apply(func(s *editor.Session) error { return s.ApplyTemplate(f[1]) }) {
			m.setStatus(line)
		}
	case "height":
		if len(f) != 2 {
			return usage("height FEET")
		}
		h, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return usage("height FEET")
		}
		if m.apply(func(s *editor.Session) error { return s.SetWallHeight(h) }) {
			m.setStatus(line)
		}
	case "delopening":
		if len(f) != 2 {
			return usage("delopening ID")
		}
		if m.apply(func(s *editor.Session) error { return s.DeleteOpening(f[1]) }) {
			m.setStatus(line)
		}
	default:
		m.setErr("unknown command: " + f[0])
	}
	return m, nil
}
