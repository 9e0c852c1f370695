// Package history keeps the bounded undo/redo stack of committed outline and
// item snapshots.
package history

import "github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"

// DefaultLimit is the number of snapshots kept before the oldest is evicted.
const DefaultLimit = 50

// Manager is a linear undo/redo stack. The entry at index is the current
// state; entries after it are the redo tail.
type Manager struct {
	snapshots []floorplan.Snapshot
	index     int
	limit     int
}

// New starts a history with initial as the only entry. A limit below 1 uses
// DefaultLimit.
func New(initial floorplan.Snapshot, limit int) *Manager {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Manager{
		snapshots: []floorplan.Snapshot{initial.Clone()},
		limit:     limit,
	}
}

// Commit records s as the new current state, dropping any redo tail and, past
// the limit, the oldest entries.
func (m *Manager) Commit(s floorplan.Snapshot) {
	m.snapshots = append(m.snapshots[:m.index+1], s.Clone())
	if over := len(m.snapshots) - m.limit; over > 0 {
		m.snapshots = append([]floorplan.Snapshot(nil), m.snapshots[over:]...)
	}
	m.index = len(m.snapshots) - 1
}

// Undo steps back one entry and returns it. At the oldest entry it is a no-op
// and ok is false.
func (m *Manager) Undo() (floorplan.Snapshot, bool) {
	if m.index == 0 {
		return floorplan.Snapshot{}, false
	}
	m.index--
	return m.snapshots[m.index].Clone(), true
}

// Redo steps forward one entry and returns it. At the newest entry it is a
// no-op and ok is false.
func (m *Manager) Redo() (floorplan.Snapshot, bool) {
	if m.index >= len(m.snapshots)-1 {
		return floorplan.Snapshot{}, false
	}
	m.index++
	return m.snapshots[m.index].Clone(), true
}

// Current returns the entry at the cursor.
func (m *Manager) Current() floorplan.Snapshot { return m.snapshots[m.index].Clone() }

func (m *Manager) CanUndo() bool { return m.index > 0 }
func (m *Manager) CanRedo() bool { return m.index < len(m.snapshots)-1 }
func (m *Manager) Len() int      { return len(m.snapshots) }
func (m *Manager) Index() int    { return m.index }
