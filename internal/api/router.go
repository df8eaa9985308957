package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/halvdan/mimir/internal/docservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *docservice.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Rendered documentation.
	r.Get("/docs", h.GetDoc)
	r.Get("/docs/*", h.GetDoc)

	// Keyword search.
	r.Get("/search", h.Search)

	return r
}
