package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/storage"
)

const (
	plansDir     = "plans"
	revisionsDir = "revisions"
	docExt       = ".json"
)

// File is a Backend storing one JSON document per plan through a
// storage.Provider. Each save is also archived under revisions/<plan>/.
type File struct {
	store storage.Provider
}

// NewFile returns a file backend over store.
func NewFile(store storage.Provider) *File {
	return &File{store: store}
}

func planPath(id string) string { return path.Join(plansDir, id+docExt) }

func revisionPath(id, rev string) string {
	return path.Join(revisionsDir, id, rev+docExt)
}

func (f *File) read(p string) (*floorplan.Document, error) {
	data, err := f.store.Read(p)
	if err != nil {
		return nil, err
	}
	var doc floorplan.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}
	return &doc, nil
}

// Load implements Backend.
func (f *File) Load(_ context.Context, planID string) (*floorplan.Document, error) {
	doc, err := f.read(planPath(planID))
	if err != nil {
		return nil, err
	}
	if doc.PlanID == "" {
		doc.PlanID = planID
	}
	return doc, nil
}

// Save implements Backend.
func (f *File) Save(_ context.Context, planID string, doc *floorplan.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if doc.Revision != "" {
		if err := f.store.Write(revisionPath(planID, doc.Revision), data); err != nil {
			return err
		}
	}
	return f.store.Write(planPath(planID), data)
}

// List implements Backend.
func (f *File) List(_ context.Context) ([]Summary, error) {
	entries, err := f.store.List(plansDir, docExt)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		if path.Dir(e.Path) != plansDir {
			continue
		}
		doc, err := f.read(e.Path)
		if err != nil {
			return nil, err
		}
		if doc.PlanID == "" {
			doc.PlanID = strings.TrimSuffix(path.Base(e.Path), docExt)
		}
		out = append(out, Summarize(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlanID < out[j].PlanID })
	return out, nil
}

// Revisions implements RevisionLister.
func (f *File) Revisions(_ context.Context, planID string) ([]Summary, error) {
	entries, err := f.store.List(path.Join(revisionsDir, planID), docExt)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		doc, err := f.read(e.Path)
		if errors.Is(err, apperr.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Summarize(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

// Delete implements Deleter. Archived revisions are kept.
func (f *File) Delete(_ context.Context, planID string) error {
	return f.store.Delete(planPath(planID))
}
