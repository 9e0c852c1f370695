package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/editor"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
)

// apply runs fn on the plan session and writes the resulting plan view.
func (h *Handler) apply(w http.ResponseWriter, r *http.Request, op string, fn func(*editor.Session) error) {
	view, err := h.svc.Apply(r.Context(), planID(r), fn)
	if err != nil {
		writeError(w, op, err, &view)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || i < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("index must be a non-negative integer"))
		return 0, false
	}
	return i, true
}

func (p PointRequest) vertex() floorplan.Vertex {
	return floorplan.Vertex{X: *p.X, Y: *p.Y}
}

// Undo handles POST /api/plans/{planID}/undo.
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "undo", func(s *editor.Session) error {
		_, err := s.Undo()
		return err
	})
}

// Redo handles POST /api/plans/{planID}/redo.
func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "redo", func(s *editor.Session) error {
		_, err := s.Redo()
		return err
	})
}

// Key handles POST /api/plans/{planID}/keys.
func (h *Handler) Key(w http.ResponseWriter, r *http.Request) {
	var req KeyRequest
	if !decode(w, r, &req) {
		return
	}
	var handled bool
	view, err := h.svc.Apply(r.Context(), planID(r), func(s *editor.Session) error {
		var err error
		handled, err = s.HandleKey(req.Key, req.InTextInput)
		return err
	})
	if err != nil {
		writeError(w, "key", err, &view)
		return
	}
	writeJSON(w, http.StatusOK, KeyResponse{Handled: handled, Plan: view})
}

// SetWallHeight handles PUT /api/plans/{planID}/wall-height.
func (h *Handler) SetWallHeight(w http.ResponseWriter, r *http.Request) {
	var req HeightRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, "set wall height", func(s *editor.Session) error {
		return s.SetWallHeight(req.Height)
	})
}

// ApplyTemplate handles POST /api/plans/{planID}/template.
func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, "apply template", func(s *editor.Session) error {
		return s.ApplyTemplate(req.Name)
	})
}

// MoveVertex handles PUT /api/plans/{planID}/vertices/{index}.
func (h *Handler) MoveVertex(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}
	var req PointRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, "move vertex", func(s *editor.Session) error {
		return s.MoveVertex(i, req.vertex())
	})
}

// DeleteVertex handles DELETE /api/plans/{planID}/vertices/{index}.
func (h *Handler) DeleteVertex(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}
	h.apply(w, r, "delete vertex", func(s *editor.Session) error {
		return s.DeleteVertex(i)
	})
}

// InsertVertex handles POST /api/plans/{planID}/edges/{index}/vertices.
func (h *Handler) InsertVertex(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}
	var req PointRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, "insert vertex", func(s *editor.Session) error {
		return s.InsertVertex(i, req.vertex())
	})
}

// ResizeEdge handles POST /api/plans/{planID}/edges/{index}/resize.
func (h *Handler) ResizeEdge(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}
	var req LengthRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, "resize edge", func(s *editor.Session) error {
		return s.ResizeEdge(i, req.Length)
	})
}

// AddIndent handles POST /api/plans/{planID}/edges/{index}/indent.
func (h *Handler) AddIndent(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}
	h.apply(w, r, "add indent", func(s *editor.Session) error {
		return s.AddIndent(i)
	})
}

// AddBump handles POST /api/plans/{planID}/edges/{index}/bump.
func (h *Handler) AddBump(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}
	h.apply(w, r, "add bump", func(s *editor.Session) error {
		return s.AddBump(i)
	})
}

// BeginVertexDrag handles POST /api/plans/{planID}/vertex-drag.
func (h *Handler) BeginVertexDrag(w http.ResponseWriter, r *http.Request) {
	var req IndexRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, "begin vertex drag", func(s *editor.Session) error {
		return s.BeginVertexDrag(*req.Index)
	})
}

// DragVertex handles PUT /api/plans/{planID}/vertex-drag.
func (h *Handler) DragVertex(w http.ResponseWriter, r *http.Request) {
	var req PointRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, "drag vertex", func(s *editor.Session) error {
		return s.DragVertex(req.vertex())
	})
}

// EndVertexDrag handles POST /api/plans/{planID}/vertex-drag/end.
func (h *Handler) EndVertexDrag(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "end vertex drag", func(s *editor.Session) error {
		return s.EndVertexDrag()
	})
}

// BeginDrag handles POST /api/plans/{planID}/drag.
func (h *Handler) BeginDrag(w http.ResponseWriter, r *http.Request) {
	var req DragRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, "begin drag", func(s *editor.Session) error {
		return s.BeginDrag(req.EntryID)
	})
}

// UpdateDrag handles PUT /api/plans/{planID}/drag.
func (h *Handler) UpdateDrag(w http.ResponseWriter, r *http.Request) {
	var req PointRequest
	if !decode(w, r, &req) {
		return
	}
	var valid bool
	view, err := h.svc.Apply(r.Context(), planID(r), func(s *editor.Session) error {
		var err error
		valid, err = s.UpdateDrag(*req.X, *req.Y)
		return err
	})
	if err != nil {
		writeError(w, "update drag", err, &view)
		return
	}
	writeJSON(w, http.StatusOK, DragResponse{Valid: valid, Plan: view})
}

// CommitDrag handles POST /api/plans/{planID}/drag/commit. An invalid drop
// is not an error: placed is false and the plan is unchanged.
func (h *Handler) CommitDrag(w http.ResponseWriter, r *http.Request) {
	var (
		placed bool
		pl     editor.Placement
	)
	view, err := h.svc.Apply(r.Context(), planID(r), func(s *editor.Session) error {
		pl, placed = s.CommitDrag()
		return nil
	})
	if err != nil {
		writeError(w, "commit drag", err, &view)
		return
	}
	writeJSON(w, http.StatusOK, CommitResponse{Placed: placed, Placement: pl, Plan: view})
}

// CancelDrag handles DELETE /api/plans/{planID}/drag.
func (h *Handler) CancelDrag(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "cancel drag", func(s *editor.Session) error {
		s.CancelDrag()
		return nil
	})
}

// Select handles POST /api/plans/{planID}/selection.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, "select", func(s *editor.Session) error {
		return s.Select(req.InstanceID)
	})
}

// BeginItemMove handles POST /api/plans/{planID}/move.
func (h *Handler) BeginItemMove(w http.ResponseWriter, r *http.Request) {
	var req MoveStartRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, "begin move", func(s *editor.Session) error {
		return s.BeginItemMove(req.InstanceID)
	})
}

// MoveItem handles PUT /api/plans/{planID}/move.
func (h *Handler) MoveItem(w http.ResponseWriter, r *http.Request) {
	var req PointRequest
	if !decode(w, r, &req) {
		return
	}
	var valid bool
	view, err := h.svc.Apply(r.Context(), planID(r), func(s *editor.Session) error {
		var err error
		valid, err = s.MoveItem(*req.X, *req.Y)
		return err
	})
	if err != nil {
		writeError(w, "move item", err, &view)
		return
	}
	writeJSON(w, http.StatusOK, DragResponse{Valid: valid, Plan: view})
}

// EndItemMove handles POST /api/plans/{planID}/move/end. An invalid drop
// puts the item back and reports valid=false.
func (h *Handler) EndItemMove(w http.ResponseWriter, r *http.Request) {
	var valid bool
	view, err := h.svc.Apply(r.Context(), planID(r), func(s *editor.Session) error {
		var err error
		valid, err = s.EndItemMove()
		return err
	})
	if err != nil {
		writeError(w, "end move", err, &view)
		return
	}
	writeJSON(w, http.StatusOK, DragResponse{Valid: valid, Plan: view})
}

// MoveTo handles PUT /api/plans/{planID}/items/{instanceID}/position. The
// position is not validated.
func (h *Handler) MoveTo(w http.ResponseWriter, r *http.Request) {
	var req PointRequest
	if !decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "instanceID")
	h.apply(w, r, "move", func(s *editor.Session) error {
		return s.Move(id, *req.X, *req.Y)
	})
}

// Rotate handles POST /api/plans/{planID}/items/{instanceID}/rotate.
func (h *Handler) Rotate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "instanceID")
	h.apply(w, r, "rotate", func(s *editor.Session) error {
		return s.Rotate(id)
	})
}

// Duplicate handles POST /api/plans/{planID}/items/{instanceID}/duplicate.
func (h *Handler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "instanceID")
	h.apply(w, r, "duplicate", func(s *editor.Session) error {
		_, err := s.Duplicate(id)
		return err
	})
}

// DeleteItem handles DELETE /api/plans/{planID}/items/{instanceID}.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "instanceID")
	h.apply(w, r, "delete item", func(s *editor.Session) error {
		return s.DeleteItem(id)
	})
}

// DeleteOpening handles DELETE /api/plans/{planID}/openings/{openingID}.
func (h *Handler) DeleteOpening(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "openingID")
	h.apply(w, r, "delete opening", func(s *editor.Session) error {
		return s.DeleteOpening(id)
	})
}
