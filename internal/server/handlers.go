package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/graphlab/pkg/algo"
	"github.com/matzehuels/graphlab/pkg/buildinfo"
	"github.com/matzehuels/graphlab/pkg/coordinator"
	"github.com/matzehuels/graphlab/pkg/edit"
	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	"github.com/matzehuels/graphlab/pkg/graph"
	"github.com/matzehuels/graphlab/pkg/httputil"
	pkgio "github.com/matzehuels/graphlab/pkg/io"
	"github.com/matzehuels/graphlab/pkg/render/nodelink"
	"github.com/matzehuels/graphlab/pkg/session"
)

// SessionView is the JSON summary of a session.
type SessionView struct {
	ID        string    `json:"id"`
	Algorithm algo.Kind `json:"algorithm"`
	Mode      string    `json:"mode"`
	Status    string    `json:"status"`
	Busy      bool      `json:"busy"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
}

func viewOf(sess *session.Session) SessionView {
	return SessionView{
		ID:        sess.ID,
		Algorithm: sess.Algorithm(),
		Mode:      sess.Mode().String(),
		Status:    sess.Status(),
		Busy:      sess.Coordinator.Busy(),
		Nodes:     sess.Store.NodeCount(),
		Edges:     sess.Store.EdgeCount(),
		CreatedAt: sess.CreatedAt,
	}
}

// createRequest optionally seeds a new session.
type createRequest struct {
	Algorithm string `json:"algorithm"`
	Text      string `json:"text"`
}

// importRequest replaces the graph. Header marks file content whose first
// line is a node/edge count.
type importRequest struct {
	Text   string `json:"text"`
	Header bool   `json:"header"`
}

type algorithmRequest struct {
	Algorithm string `json:"algorithm"`
}

type nodeRequest struct {
	Label string `json:"label"`
}

// edgeRequest carries the weight as typed by the user. An empty weight is
// the same as dismissing the prompt.
type edgeRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight string `json:"weight"`
}

type weightRequest struct {
	Weight string `json:"weight"`
}

// edgeResponse reports an edge mutation. Edge is nil when nothing changed.
type edgeResponse struct {
	Changed bool        `json:"changed"`
	Edge    *graph.Edge `json:"edge"`
}

type importResponse struct {
	Session SessionView `json:"session"`
	Nodes   int         `json:"imported_nodes"`
	Edges   int         `json:"imported_edges"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
		"build":    buildinfo.Current(),
	})
}

// session resolves the {id} URL parameter or writes a 404.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.store.Get(id)
	if !ok {
		httputil.WriteError(w, gerrors.New(gerrors.ErrCodeSessionNotFound, "session %s not found", id))
		return nil, false
	}
	return sess, true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var kind algo.Kind
	if req.Algorithm != "" {
		k, err := algo.ParseKind(req.Algorithm)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		kind = k
	}

	sess := s.store.Create()
	if kind != "" {
		sess.SelectAlgorithm(kind)
	}
	if _, err := sess.ImportText(r.Context(), req.Text); err != nil {
		s.store.Delete(sess.ID)
		httputil.WriteError(w, err)
		return
	}

	s.logger.Info("session created", "id", sess.ID, "algorithm", sess.Algorithm())
	w.Header().Set("Location", "/sessions/"+sess.ID)
	httputil.WriteJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.Delete(id) {
		httputil.WriteError(w, gerrors.New(gerrors.ErrCodeSessionNotFound, "session %s not found", id))
		return
	}
	s.logger.Info("session deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectAlgorithm(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req algorithmRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := sess.SelectAlgorithm(algo.Kind(req.Algorithm)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, viewOf(sess))
}

// handleImport replaces the graph. A parse failure leaves the session with
// an empty graph.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req importRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var (
		el  *pkgio.EdgeList
		err error
	)
	if req.Header {
		el, err = sess.ImportFile(r.Context(), req.Text)
	} else {
		el, err = sess.ImportText(r.Context(), req.Text)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := importResponse{Session: viewOf(sess)}
	if el != nil {
		resp.Nodes, resp.Edges = len(el.Nodes), len(el.Edges)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req nodeRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	n, err := sess.AddNode(req.Label)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, n)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.DeleteNode(chi.URLParam(r, "nodeID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req edgeRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, err := sess.AddEdge(req.From, req.To, edit.StaticPrompter(req.Weight))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if e == nil {
		httputil.WriteJSON(w, http.StatusOK, edgeResponse{})
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, edgeResponse{Changed: true, Edge: e})
}

func (s *Server) handleEditEdge(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req weightRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	id := chi.URLParam(r, "edgeID")
	changed, err := sess.EditEdgeWeight(id, edit.StaticPrompter(req.Weight))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := edgeResponse{Changed: changed}
	if e, ok := sess.Store.Edge(id); ok {
		resp.Edge = &e
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteEdge(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.DeleteEdge(chi.URLParam(r, "edgeID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRun blocks until the run settles. Succeeded and cancelled runs
// answer 200; rejected parameters and service failures use the status of
// their error code. The body is always the outcome.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req session.RunOptions
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := sess.Run(r.Context(), req)
	status := http.StatusOK
	if out.Status == coordinator.StatusFailed || out.Status == coordinator.StatusInvalid {
		code := gerrors.GetCode(out.Err)
		if code == "" {
			code = gerrors.ErrCodeInternal
		}
		status = httputil.StatusFor(code)
	}
	httputil.WriteJSON(w, status, out)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"cancelled": sess.Cancel()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.ResetGraph()
	httputil.WriteJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleResetColors(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.ResetColors()
	httputil.WriteJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleGraphJSON(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := pkgio.WriteJSON(sess.Store.Snapshot(), sess.Mode(), w); err != nil {
		s.logger.Error("write graph", "id", sess.ID, "err", err)
	}
}

// handleGraphRender serves graph.dot and graph.svg.
func (s *Server) handleGraphRender(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	format := nodelink.FormatDOT
	if strings.HasSuffix(r.URL.Path, ".svg") {
		format = nodelink.FormatSVG
	}

	data, err := sess.View.Render(r.Context(), format, sess.Mode())
	if err != nil {
		httputil.WriteError(w, gerrors.Wrap(gerrors.ErrCodeInternal, err, "render %s", format))
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
