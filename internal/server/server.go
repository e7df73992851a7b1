// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes section queries over HTTP. Every /api route
// requires a bearer token; the token selects the user and the user's role
// from the configuration becomes the actor of the query.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/section-engine/internal/httputil"
	"github.com/pdiddy/section-engine/internal/logging"
	"github.com/pdiddy/section-engine/internal/panel"
	"github.com/pdiddy/section-engine/internal/section"
	"github.com/pdiddy/section-engine/pkg/types"
)

// ErrUnauthenticated is returned for requests without a known token.
var ErrUnauthenticated = errors.New("authentication required")

var errInternal = errors.New("internal error")

// Sections runs section queries. *section.Service implements it.
type Sections interface {
	Items(ctx context.Context, actor types.Actor, modelID, name string, req section.Request) (types.PageResult, error)
	Summary(ctx context.Context, modelID, name string) (types.Summary, error)
	Blueprints(ctx context.Context, modelID, name string) ([]types.BlueprintEntry, error)
}

// Server routes section requests to a Sections implementation.
type Server struct {
	sections Sections
	tokens   map[string]string // token → user
	roles    map[string]string // user → role
}

// New returns a Server. tokens maps bearer tokens to user IDs (see
// secrets.Index) and roles maps user IDs to role names.
func New(sections Sections, tokens, roles map[string]string) *Server {
	return &Server{sections: sections, tokens: tokens, roles: roles}
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	api := http.NewServeMux()
	for _, prefix := range []string{"/api/site", "/api/pages/{id}"} {
		api.HandleFunc("GET "+prefix+"/sections/{section}", s.handleItems)
		api.HandleFunc("GET "+prefix+"/sections/{section}/summary", s.handleSummary)
		api.HandleFunc("GET "+prefix+"/sections/{section}/blueprints", s.handleBlueprints)
	}
	mux.Handle("/api/", s.withActor(api))

	return withRequestLog(mux)
}

// NewHTTPServer wraps h in an http.Server listening on addr.
func NewHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.sections.Items(r.Context(), ActorFromContext(r.Context()), modelID(r), r.PathValue("section"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.sections.Summary(r.Context(), modelID(r), r.PathValue("section"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, sum)
}

func (s *Server) handleBlueprints(w http.ResponseWriter, r *http.Request) {
	entries, err := s.sections.Blueprints(r.Context(), modelID(r), r.PathValue("section"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, entries)
}

// modelID returns the node a route addresses: the site, or the page whose
// id is given with "+" in place of "/".
func modelID(r *http.Request) string {
	if id := r.PathValue("id"); id != "" {
		return panel.PageID(id)
	}
	return types.SiteID
}

// pageRequest reads the page and limit query parameters. Absent values are
// left nil so the section configuration decides.
func pageRequest(r *http.Request) (section.Request, error) {
	var req section.Request
	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"page", &req.Page},
		{"limit", &req.Limit},
	} {
		if strings.TrimSpace(r.URL.Query().Get(p.name)) == "" {
			continue
		}
		n, err := httputil.QueryInt(r, p.name, 0)
		if err != nil {
			return req, err
		}
		*p.dst = &n
	}
	return req, nil
}

// statusOf maps pipeline errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, httputil.ErrBadParam), errors.Is(err, section.ErrInvalidPagination):
		return http.StatusBadRequest
	case errors.Is(err, section.ErrNodeNotFound), errors.Is(err, section.ErrSectionNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	log := logging.FromContext(r.Context())
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
		err = errInternal
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	_ = httputil.WriteError(w, status, err)
}
