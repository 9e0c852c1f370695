package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/catalog"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/export"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/outline"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/persistence"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/planservice"
)

// Catalog exposes the current catalog table. *catalog.Store implements it.
type Catalog interface {
	Current() *catalog.Catalog
}

// Handler holds API route handlers.
type Handler struct {
	svc     *planservice.Service
	catalog Catalog
}

// NewHandler creates a new Handler.
func NewHandler(svc *planservice.Service, cat Catalog) *Handler {
	return &Handler{svc: svc, catalog: cat}
}

func planID(r *http.Request) string { return chi.URLParam(r, "planID") }

// Catalog handles GET /api/catalog.
func (h *Handler) Catalog(w http.ResponseWriter, _ *http.Request) {
	cur := h.catalog.Current()
	resp := CatalogResponse{Categories: []CatalogGroup{}}
	for _, c := range catalog.Categories {
		entries := cur.ByCategory(c)
		if len(entries) == 0 {
			continue
		}
		resp.Categories = append(resp.Categories, CatalogGroup{Category: c, Entries: entries})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Templates handles GET /api/templates.
func (h *Handler) Templates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": outline.TemplateNames()})
}

// Formats handles GET /api/formats.
func (h *Handler) Formats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"formats": export.Names()})
}

// ListPlans handles GET /api/plans.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, "list plans", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, PlanListResponse{Plans: plans, Live: h.svc.Live()})
}

// GetPlan handles GET /api/plans/{planID}. A plan that was never saved
// opens with the default template.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.View(r.Context(), planID(r))
	if err != nil {
		writeError(w, "get plan", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DeletePlan handles DELETE /api/plans/{planID}.
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id := planID(r)
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, "delete plan", err, nil)
		return
	}
	slog.Info("plan deleted", slog.String("plan", id))
	w.WriteHeader(http.StatusNoContent)
}

// Revisions handles GET /api/plans/{planID}/revisions.
func (h *Handler) Revisions(w http.ResponseWriter, r *http.Request) {
	revs, err := h.svc.Revisions(r.Context(), planID(r))
	if err != nil {
		writeError(w, "list revisions", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"revisions": revs})
}

// Save handles POST /api/plans/{planID}/save. With ?wait=true the request
// blocks until the write finishes; otherwise it is queued and the outcome
// arrives as an SSE event.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	id := planID(r)
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	res, err := h.svc.Save(r.Context(), id, wait)
	if err != nil {
		if res.PlanID != "" {
			slog.Error("save failed", slog.String("plan", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadGateway, errorBody("save failed: "+err.Error()))
			return
		}
		writeError(w, "save plan", err, nil)
		return
	}
	if !wait {
		writeJSON(w, http.StatusAccepted, SaveResponse{Queued: true})
		return
	}
	sum := persistence.Summarize(&res.Document)
	writeJSON(w, http.StatusOK, SaveResponse{Summary: &sum})
}

// Render handles GET /api/plans/{planID}/render/{format}.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "format")
	opts := export.Options{
		Width:  queryInt(r, "width", export.DefaultWidth, 16, 4096),
		Height: queryInt(r, "height", export.DefaultHeight, 16, 4096),
		Title:  planID(r),
	}
	if _, err := export.Lookup(name, opts); err != nil {
		writeError(w, "render", err, nil)
		return
	}
	scene, err := h.svc.Scene(r.Context(), planID(r))
	if err != nil {
		writeError(w, "render", err, nil)
		return
	}
	var buf bytes.Buffer
	f, err := export.Write(&buf, name, scene, opts)
	if err != nil {
		writeError(w, "render", err, nil)
		return
	}
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", `inline; filename="`+planID(r)+f.Ext+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func queryInt(r *http.Request, key string, def, lo, hi int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return min(max(v, lo), hi)
}
