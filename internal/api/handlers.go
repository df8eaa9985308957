package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/halvdan/mimir/internal/apperr"
	"github.com/halvdan/mimir/internal/docservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// docPath extracts the documentation path from the URL (everything after
// /api/docs/). Supports encoded slashes from OpenAPI clients
// (e.g. basics%2Fagents%2Foverview).
func docPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// GetDoc handles GET /api/docs and GET /api/docs/*.
//
// Responses are rendered markdown. Missing paths return 404 but still
// carry the actionable fallback listing in the body; traversal attempts
// return 400.
//
//	@Summary		Fetch rendered documentation by path
//	@Tags			docs
//	@Produce		text/markdown
//	@Param			path		path	string	false	"Documentation path"
//	@Param			keywords	query	string	false	"Space-separated keywords for suggestions"
//	@Success		200	{string}	string
//	@Failure		400	{string}	string
//	@Failure		404	{string}	string
//	@Security		BearerAuth
//	@Router			/docs/{path} [get]
func (h *Handler) GetDoc(w http.ResponseWriter, r *http.Request) {
	keywords := strings.Fields(r.URL.Query().Get("keywords"))
	content, err := h.svc.Get(docPath(r), keywords)

	status := http.StatusOK
	switch {
	case errors.Is(err, apperr.ErrUnsafePath):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	}
	writeMarkdown(w, status, content)
}

// Search handles GET /api/search.
//
//	@Summary		Rank documentation paths by keywords
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Space-separated keywords"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results := h.svc.Search(strings.Fields(q), limit)
	if results == nil {
		results = []string{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Query: q, Results: results})
}
