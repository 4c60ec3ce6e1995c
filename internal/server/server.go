// Package server exposes graph sessions over a JSON HTTP API.
//
// Each client creates a session, edits or imports a graph into it and runs
// algorithms against the configured service. Run requests block until the
// run settles; a second run on the same session supersedes the first, and
// POST /sessions/{id}/cancel aborts it.
package server

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/graphlab/pkg/httputil"
	"github.com/matzehuels/graphlab/pkg/session"
)

// Server holds the chi router and the session store.
type Server struct {
	router chi.Router
	store  *session.Store
	logger *log.Logger
}

// New creates a Server with all routes configured. A nil logger discards
// request logs.
func New(store *session.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(httputil.RequestLogger(logger))

	r.Get("/healthz", s.handleHealth)

	// Session lifecycle
	r.Post("/sessions", s.handleCreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Delete("/", s.handleDeleteSession)
		r.Put("/algorithm", s.handleSelectAlgorithm)
		r.Post("/import", s.handleImport)

		// Mutations
		r.Post("/nodes", s.handleAddNode)
		r.Delete("/nodes/{nodeID}", s.handleDeleteNode)
		r.Post("/edges", s.handleAddEdge)
		r.Patch("/edges/{edgeID}", s.handleEditEdge)
		r.Delete("/edges/{edgeID}", s.handleDeleteEdge)

		// Runs
		r.Post("/run", s.handleRun)
		r.Post("/cancel", s.handleCancel)
		r.Post("/reset", s.handleReset)
		r.Post("/reset-colors", s.handleResetColors)

		// Views
		r.Get("/graph", s.handleGraphJSON)
		r.Get("/graph.dot", s.handleGraphRender)
		r.Get("/graph.svg", s.handleGraphRender)
	})

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
