package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
)

// Memory is a Backend that keeps documents in process. Plans are lost on
// exit; it backs the "memory" store driver and tests.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]floorplan.Document
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]floorplan.Document)}
}

func copyDoc(d floorplan.Document) *floorplan.Document {
	st := d.Content().Clone()
	d.Vertices, d.Items, d.WallOpenings = st.Vertices, st.Items, st.Openings
	return &d
}

// Load implements Backend.
func (m *Memory) Load(_ context.Context, planID string) (*floorplan.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[planID]
	if !ok {
		return nil, fmt.Errorf("plan %s: %w", planID, apperr.ErrNotFound)
	}
	return copyDoc(d), nil
}

// Save implements Backend.
func (m *Memory) Save(_ context.Context, planID string, doc *floorplan.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[planID] = *copyDoc(*doc)
	return nil
}

// List implements Backend.
func (m *Memory) List(_ context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Summary, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, Summarize(&d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlanID < out[j].PlanID })
	return out, nil
}

// Delete implements Deleter.
func (m *Memory) Delete(_ context.Context, planID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[planID]; !ok {
		return fmt.Errorf("plan %s: %w", planID, apperr.ErrNotFound)
	}
	delete(m.docs, planID)
	return nil
}
