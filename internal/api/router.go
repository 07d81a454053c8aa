package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/almanac/internal/catalog"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *catalog.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Date normalization.
	r.Post("/normalize", h.Normalize)
	r.Post("/normalize/batch", h.NormalizeBatch)
	r.Get("/canonical", h.Canonical)

	// Indexed dates.
	r.Get("/timeline", h.Timeline)
	r.Get("/unparsed", h.Unparsed)
	r.Get("/search", h.Search)
	r.Get("/dates/*", h.RecordDates)

	// Records CRUD.
	r.Get("/records", h.ListRecords)
	r.Post("/records", h.CreateRecord)
	r.Post("/records/move", h.MoveRecord)
	r.Get("/records/*", h.GetRecord)
	r.Put("/records/*", h.UpdateRecord)
	r.Delete("/records/*", h.DeleteRecord)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
