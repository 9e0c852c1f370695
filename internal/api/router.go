package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/planservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *planservice.Service, cat Catalog, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, cat)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/catalog", h.Catalog)
	r.Get("/templates", h.Templates)
	r.Get("/formats", h.Formats)

	r.Get("/plans", h.ListPlans)
	r.Route("/plans/{planID}", func(r chi.Router) {
		r.Get("/", h.GetPlan)
		r.Delete("/", h.DeletePlan)
		r.Get("/revisions", h.Revisions)
		r.Post("/save", h.Save)
		r.Get("/render/{format}", h.Render)

		// History and keyboard.
		r.Post("/undo", h.Undo)
		r.Post("/redo", h.Redo)
		r.Post("/keys", h.Key)
		r.Put("/wall-height", h.SetWallHeight)

		// Outline topology.
		r.Post("/template", h.ApplyTemplate)
		r.Put("/vertices/{index}", h.MoveVertex)
		r.Delete("/vertices/{index}", h.DeleteVertex)
		r.Post("/edges/{index}/vertices", h.InsertVertex)
		r.Post("/edges/{index}/resize", h.ResizeEdge)
		r.Post("/edges/{index}/indent", h.AddIndent)
		r.Post("/edges/{index}/bump", h.AddBump)
		r.Post("/vertex-drag", h.BeginVertexDrag)
		r.Put("/vertex-drag", h.DragVertex)
		r.Post("/vertex-drag/end", h.EndVertexDrag)

		// Catalog drag.
		r.Post("/drag", h.BeginDrag)
		r.Put("/drag", h.UpdateDrag)
		r.Post("/drag/commit", h.CommitDrag)
		r.Delete("/drag", h.CancelDrag)

		// Placed items.
		r.Post("/selection", h.Select)
		r.Post("/move", h.BeginItemMove)
		r.Put("/move", h.MoveItem)
		r.Post("/move/end", h.EndItemMove)
		r.Put("/items/{instanceID}/position", h.MoveTo)
		r.Post("/items/{instanceID}/rotate", h.Rotate)
		r.Post("/items/{instanceID}/duplicate", h.Duplicate)
		r.Delete("/items/{instanceID}", h.DeleteItem)

		r.Delete("/openings/{openingID}", h.DeleteOpening)
	})

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
