// Package persistence is the load/save contract for floor plans and the
// asynchronous saver that sits between an editor session and a backend.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/checksum"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
)

var planIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidatePlanID rejects ids that are not safe as file names and URL segments.
func ValidatePlanID(id string) error {
	err := validation.Validate(id,
		validation.Required,
		validation.Match(planIDRe).Error("must be 1-64 letters, digits, '-' or '_'"),
	)
	if err != nil {
		return fmt.Errorf("persistence: plan id %q: %w: %v", id, apperr.ErrInvalidInput, err)
	}
	return nil
}

// Summary is the listing view of a saved plan.
type Summary struct {
	PlanID         string    `json:"planId"`
	Revision       string    `json:"revision"`
	SavedAt        time.Time `json:"savedAt"`
	TotalArea      float64   `json:"totalArea"`
	PalletCapacity int       `json:"palletCapacity"`
	ItemCount      int       `json:"itemCount"`
}

// Summarize builds the listing view of doc.
func Summarize(doc *floorplan.Document) Summary {
	return Summary{
		PlanID:         doc.PlanID,
		Revision:       doc.Revision,
		SavedAt:        doc.SavedAt,
		TotalArea:      doc.TotalArea,
		PalletCapacity: doc.PalletCapacity,
		ItemCount:      len(doc.Items),
	}
}

// Backend stores plan documents.
type Backend interface {
	// Load returns the latest document for planID, or an error wrapping
	// apperr.ErrNotFound.
	Load(ctx context.Context, planID string) (*floorplan.Document, error)
	// Save stores doc as the latest version of planID.
	Save(ctx context.Context, planID string, doc *floorplan.Document) error
	// List returns a summary of every stored plan.
	List(ctx context.Context) ([]Summary, error)
}

// RevisionLister is implemented by backends that keep earlier saves.
type RevisionLister interface {
	Revisions(ctx context.Context, planID string) ([]Summary, error)
}

// Deleter is implemented by backends that can remove a plan.
type Deleter interface {
	Delete(ctx context.Context, planID string) error
}

// Adapter converts between editor state and stored documents.
type Adapter struct {
	backend Backend
	now     func() time.Time
	logger  *slog.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithClock overrides the save timestamp source.
func WithClock(now func() time.Time) AdapterOption {
	return func(a *Adapter) { a.now = now }
}

// WithLogger sets the adapter logger.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = l }
}

// NewAdapter wraps backend.
func NewAdapter(backend Backend, opts ...AdapterOption) *Adapter {
	a := &Adapter{backend: backend, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Backend returns the wrapped backend.
func (a *Adapter) Backend() Backend { return a.backend }

// Load returns the saved state of planID. A plan that was never saved is
// not an error: found is false and the caller starts from a template.
func (a *Adapter) Load(ctx context.Context, planID string) (floorplan.State, bool, error) {
	if err := ValidatePlanID(planID); err != nil {
		return floorplan.State{}, false, err
	}
	doc, err := a.backend.Load(ctx, planID)
	if errors.Is(err, apperr.ErrNotFound) {
		return floorplan.State{}, false, nil
	}
	if err != nil {
		return floorplan.State{}, false, fmt.Errorf("persistence: load %s: %w", planID, err)
	}
	return doc.State(), true, nil
}

// LoadDocument returns the stored document itself.
func (a *Adapter) LoadDocument(ctx context.Context, planID string) (*floorplan.Document, error) {
	if err := ValidatePlanID(planID); err != nil {
		return nil, err
	}
	return a.backend.Load(ctx, planID)
}

// Save stores state as planID and returns the document written.
func (a *Adapter) Save(ctx context.Context, planID string, state floorplan.State) (floorplan.Document, error) {
	if err := ValidatePlanID(planID); err != nil {
		return floorplan.Document{}, err
	}
	doc := floorplan.NewDocument(planID, state, a.now().UTC())
	rev, err := checksum.Revision(doc.Content())
	if err != nil {
		return floorplan.Document{}, fmt.Errorf("persistence: %w", err)
	}
	doc.Revision = rev
	if err := a.backend.Save(ctx, planID, doc); err != nil {
		return floorplan.Document{}, fmt.Errorf("persistence: save %s: %w", planID, err)
	}
	a.logger.Debug("plan saved",
		slog.String("plan", planID),
		slog.String("revision", rev),
	)
	return *doc, nil
}

// List returns every stored plan.
func (a *Adapter) List(ctx context.Context) ([]Summary, error) {
	out, err := a.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("persistence: list: %w", err)
	}
	return out, nil
}

// Revisions returns earlier saves of planID, newest first, when the backend
// keeps them.
func (a *Adapter) Revisions(ctx context.Context, planID string) ([]Summary, error) {
	rl, ok := a.backend.(RevisionLister)
	if !ok {
		return []Summary{}, nil
	}
	return rl.Revisions(ctx, planID)
}

// Delete removes planID from the backend.
func (a *Adapter) Delete(ctx context.Context, planID string) error {
	if err := ValidatePlanID(planID); err != nil {
		return err
	}
	d, ok := a.backend.(Deleter)
	if !ok {
		return fmt.Errorf("persistence: %w: backend cannot delete plans", apperr.ErrConflict)
	}
	return d.Delete(ctx, planID)
}
