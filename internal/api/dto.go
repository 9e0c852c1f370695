package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/catalog"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/editor"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/outline"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/persistence"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/planservice"
)

// PointRequest carries a position in feet.
type PointRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (r *PointRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.X, validation.NotNil),
		validation.Field(&r.Y, validation.NotNil),
	)
}

// IndexRequest names an outline vertex.
type IndexRequest struct {
	Index *int `json:"index"`
}

func (r *IndexRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Index, validation.NotNil, validation.Min(0)),
	)
}

// LengthRequest is the new length of an edge.
type LengthRequest struct {
	Length float64 `json:"length"`
}

func (r *LengthRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Length, validation.Required, validation.Min(0.0).Exclusive()),
	)
}

// HeightRequest sets the wall height.
type HeightRequest struct {
	Height float64 `json:"height"`
}

func (r *HeightRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Height, validation.Required, validation.Min(0.0).Exclusive()),
	)
}

// TemplateRequest replaces the outline with a named template.
type TemplateRequest struct {
	Name string `json:"name"`
}

func (r *TemplateRequest) Validate() error {
	names := make([]any, 0, 4)
	for _, n := range outline.TemplateNames() {
		names = append(names, n)
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.In(names...)),
	)
}

// DragRequest starts dragging a catalog entry.
type DragRequest struct {
	EntryID string `json:"entryId"`
}

func (r *DragRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EntryID, validation.Required),
	)
}

// ItemRequest names a placed item. An empty id is allowed where it clears
// the selection.
type ItemRequest struct {
	InstanceID string `json:"instanceId"`
}

func (r *ItemRequest) Validate() error { return nil }

// MoveStartRequest starts moving a placed item.
type MoveStartRequest struct {
	InstanceID string `json:"instanceId"`
}

func (r *MoveStartRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.InstanceID, validation.Required),
	)
}

// KeyRequest is a key press from a front-end.
type KeyRequest struct {
	Key         string `json:"key"`
	InTextInput bool   `json:"inTextInput"`
}

func (r *KeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Key, validation.Required),
	)
}

// CatalogResponse lists catalog entries grouped by category.
type CatalogResponse struct {
	Categories []CatalogGroup `json:"categories"`
}

// CatalogGroup is one picker section.
type CatalogGroup struct {
	Category catalog.Category `json:"category"`
	Entries  []catalog.Entry  `json:"entries"`
}

// PlanListResponse wraps stored plan summaries.
type PlanListResponse struct {
	Plans []persistence.Summary `json:"plans"`
	Live  []string              `json:"live"`
}

// DragResponse reports whether the dragged entry can be dropped here.
type DragResponse struct {
	Valid bool                 `json:"valid"`
	Plan  planservice.PlanView `json:"plan"`
}

// CommitResponse is the outcome of releasing a catalog drag.
type CommitResponse struct {
	Placed    bool                 `json:"placed"`
	Placement editor.Placement     `json:"placement"`
	Plan      planservice.PlanView `json:"plan"`
}

// KeyResponse reports whether the key was a shortcut.
type KeyResponse struct {
	Handled bool                 `json:"handled"`
	Plan    planservice.PlanView `json:"plan"`
}

// SaveResponse is the outcome of a save request.
type SaveResponse struct {
	Queued  bool                 `json:"queued"`
	Summary *persistence.Summary `json:"summary,omitempty"`
}
