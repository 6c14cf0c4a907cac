package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"stashview/internal/index"
	"stashview/internal/stashservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth
// group.
func NewRouter(db index.StashIndex, svc *stashservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(db, svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/stashes", h.ListStashes)
	r.Get("/stashes/{key}", h.GetStash)
	r.Get("/stashes/{key}/image", h.GetStashImage)

	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
