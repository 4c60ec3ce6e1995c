// Package session bundles the per-user graph state.
//
// A [Session] owns one graph store together with the editor, normalizer,
// request coordinator and view that operate on it, plus the selected
// algorithm. The algorithm decides the edge-id mode for every subsequent
// edit or import. Switching algorithms does not rewrite ids that already
// exist.
//
// [Store] keeps sessions in memory for the HTTP API, with an idle TTL and a
// capacity limit that evicts the least recently used session. Sessions are
// never persisted.
//
// # Usage
//
//	sess := session.New(session.Config{Runner: algo.NewClient(url, algo.DefaultEndpoints())})
//	sess.SelectAlgorithm(algo.ShortestPath)
//	if _, err := sess.ImportText(ctx, "A B 2\nB C 3"); err != nil {
//	    return err
//	}
//	out := sess.Run(ctx, session.RunOptions{Start: "A", End: "C"})
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/graphlab/pkg/algo"
	"github.com/matzehuels/graphlab/pkg/coordinator"
	"github.com/matzehuels/graphlab/pkg/edit"
	"github.com/matzehuels/graphlab/pkg/graph"
	pkgio "github.com/matzehuels/graphlab/pkg/io"
	"github.com/matzehuels/graphlab/pkg/render/nodelink"
)

// DefaultAlgorithm is selected in a new session.
const DefaultAlgorithm = algo.MST

// Config holds what every session shares.
type Config struct {
	Runner   algo.Runner
	Prompter edit.Prompter       // answers weight prompts when a call passes none
	Labeling algo.LabelingParams // defaults for DROMD runs
	Sink     coordinator.Sink    // optional
	Logger   *log.Logger         // optional
}

// RunOptions are the per-run inputs. Zero labeling fields fall back to the
// session defaults.
type RunOptions struct {
	Start    string              `json:"start,omitempty"`
	End      string              `json:"end,omitempty"`
	Labeling algo.LabelingParams `json:"labeling"`
}

// Session is one user's graph workspace.
type Session struct {
	ID        string
	CreatedAt time.Time

	Store       *graph.Store
	Editor      *edit.Session
	Normalizer  *pkgio.Normalizer
	Coordinator *coordinator.Coordinator
	View        *nodelink.View

	labeling algo.LabelingParams

	mu         sync.Mutex
	algorithm  algo.Kind
	lastAccess time.Time
}

// New creates a session with an empty graph and the default algorithm.
func New(cfg Config) *Session {
	store := graph.NewStore()
	view := nodelink.NewView(store)
	now := time.Now()

	logger := cfg.Logger
	id := uuid.New().String()
	if logger != nil {
		logger = logger.With("session", id[:8])
	}

	return &Session{
		ID:          id,
		CreatedAt:   now,
		Store:       store,
		Editor:      edit.New(store, cfg.Prompter),
		Normalizer:  &pkgio.Normalizer{Store: store, View: view},
		Coordinator: coordinator.New(store, cfg.Runner, cfg.Sink, logger),
		View:        view,
		labeling:    cfg.Labeling,
		algorithm:   DefaultAlgorithm,
		lastAccess:  now,
	}
}

// SelectAlgorithm switches the algorithm, and with it the edge-id mode used
// from now on.
func (s *Session) SelectAlgorithm(kind algo.Kind) error {
	parsed, err := algo.ParseKind(string(kind))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.algorithm = parsed
	return nil
}

// Algorithm returns the selected algorithm.
func (s *Session) Algorithm() algo.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.algorithm
}

// Mode returns the edge-id mode of the selected algorithm.
func (s *Session) Mode() graph.Mode {
	return s.Algorithm().Mode()
}

// ImportText replaces the graph with typed edge-list text. Blank input is
// ignored and returns (nil, nil). No header line is skipped.
func (s *Session) ImportText(ctx context.Context, text string) (*pkgio.EdgeList, error) {
	if pkgio.IsBlank(text) {
		return nil, nil
	}
	return s.Normalizer.Load(ctx, text, pkgio.Options{Mode: s.Mode()})
}

// ImportFile replaces the graph with the contents of an edge-list file. The
// first non-comment line is treated as a header and skipped.
func (s *Session) ImportFile(ctx context.Context, content string) (*pkgio.EdgeList, error) {
	return s.Normalizer.Load(ctx, content, pkgio.Options{SkipHeader: true, Mode: s.Mode()})
}

// AddNode adds a node labelled label.
func (s *Session) AddNode(label string) (graph.Node, error) {
	return s.Editor.AddNode(label)
}

// AddEdge adds the edge from-to, asking p for the weight. A nil p uses the
// session's prompter.
func (s *Session) AddEdge(from, to string, p edit.Prompter) (*graph.Edge, error) {
	return s.editor(p).AddEdge(from, to, s.Mode())
}

// EditEdgeWeight changes the weight of edge id, asking p for the new value.
func (s *Session) EditEdgeWeight(id string, p edit.Prompter) (bool, error) {
	return s.editor(p).EditEdgeWeight(id)
}

// DeleteNode removes a node and its edges.
func (s *Session) DeleteNode(id string) error { return s.Editor.DeleteNode(id) }

// DeleteEdge removes an edge.
func (s *Session) DeleteEdge(id string) error { return s.Editor.DeleteEdge(id) }

// Run executes the selected algorithm and blocks until it settles.
func (s *Session) Run(ctx context.Context, opts RunOptions) coordinator.Outcome {
	defer s.Touch()
	return s.Coordinator.Run(ctx, coordinator.Params{
		Kind:     s.Algorithm(),
		Start:    opts.Start,
		End:      opts.End,
		Labeling: mergeLabeling(opts.Labeling, s.labeling),
	})
}

// Cancel aborts the outstanding run.
func (s *Session) Cancel() bool { return s.Coordinator.Cancel() }

// ResetGraph removes every node and edge.
func (s *Session) ResetGraph() {
	s.Store.Clear()
	s.Coordinator.SetStatus(coordinator.MessageIdle)
}

// ResetColors removes all highlighting.
func (s *Session) ResetColors() {
	s.Store.ResetStyles()
	s.Coordinator.SetStatus(coordinator.MessageIdle)
}

// Status returns the current status line.
func (s *Session) Status() string { return s.Coordinator.Status() }

// Touch records an access for idle expiry.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()
}

// LastAccess returns when the session was last used.
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

func (s *Session) editor(p edit.Prompter) *edit.Session {
	if p == nil {
		return s.Editor
	}
	return edit.New(s.Store, p)
}

func mergeLabeling(p, defaults algo.LabelingParams) algo.LabelingParams {
	if p.PopSize == 0 {
		p.PopSize = defaults.PopSize
	}
	if p.Generations == 0 {
		p.Generations = defaults.Generations
	}
	if p.PC == 0 {
		p.PC = defaults.PC
	}
	if p.PM == 0 {
		p.PM = defaults.PM
	}
	return p
}
