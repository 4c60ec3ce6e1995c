package coordinator

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/graphlab/pkg/algo"
	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	"github.com/matzehuels/graphlab/pkg/graph"
)

type runnerFunc func(ctx context.Context, kind algo.Kind, req algo.Request) (*algo.Response, error)

func (f runnerFunc) Run(ctx context.Context, kind algo.Kind, req algo.Request) (*algo.Response, error) {
	return f(ctx, kind, req)
}

type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) SetStatus(m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func (r *recorder) last() string {
	all := r.all()
	if len(all) == 0 {
		return ""
	}
	return all[len(all)-1]
}

// triangle builds A-B(2), B-C(3), A-C(5) in the given mode.
func triangle(t *testing.T, mode graph.Mode) *graph.Store {
	t.Helper()
	s := graph.NewStore()
	for _, n := range []string{"A", "B", "C"} {
		if err := s.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []struct {
		u, v string
		w    float64
	}{{"A", "B", 2}, {"B", "C", 3}, {"A", "C", 5}} {
		from, to := graph.Endpoints(mode, e.u, e.v)
		if err := s.AddEdge(graph.Edge{ID: graph.EdgeID(mode, e.u, e.v), From: from, To: to, Weight: e.w}); err != nil {
			t.Fatal(err)
		}
	}
	s.ResetStyles()
	return s
}

func respond(resp *algo.Response) runnerFunc {
	return func(context.Context, algo.Kind, algo.Request) (*algo.Response, error) { return resp, nil }
}

func TestRunMST(t *testing.T) {
	store := triangle(t, graph.Undirected)
	sink := &recorder{}
	c := New(store, respond(&algo.Response{TotalWeight: 5, EdgeIDs: []string{"A-B", "B-C", "gone"}}), sink, nil)

	out := c.Run(context.Background(), Params{Kind: algo.MST})
	if out.Status != StatusSucceeded {
		t.Fatalf("Status = %s (%v)", out.Status, out.Err)
	}
	want := []string{MessageIdle, MessageRunning, "MST total weight: 5"}
	if diff := cmp.Diff(want, sink.all()); diff != "" {
		t.Errorf("status lines (-want +got):\n%s", diff)
	}
	for id, style := range map[string]graph.EdgeStyle{
		"A-B": TreeEdgeStyle,
		"B-C": TreeEdgeStyle,
		"A-C": {Color: graph.DefaultEdgeColor, Width: graph.DefaultEdgeWidth},
	} {
		e, _ := store.Edge(id)
		if e.Style != style {
			t.Errorf("edge %s style = %+v, want %+v", id, e.Style, style)
		}
	}
	if store.HasEdge("gone") {
		t.Error("unknown id from the response was created")
	}
	if c.Busy() {
		t.Error("Busy() after settlement")
	}
}

func TestRunResetsPreviousHighlighting(t *testing.T) {
	store := triangle(t, graph.Undirected)
	c := New(store, respond(&algo.Response{TotalWeight: 5, EdgeIDs: []string{"A-B"}}), nil, nil)
	c.Run(context.Background(), Params{Kind: algo.MST})

	c.Runner = respond(&algo.Response{TotalWeight: 3, EdgeIDs: []string{"B-C"}})
	c.Run(context.Background(), Params{Kind: algo.MST})

	if e, _ := store.Edge("A-B"); e.Style == TreeEdgeStyle {
		t.Error("A-B still highlighted from the previous run")
	}
}

func TestRunShortestPath(t *testing.T) {
	store := triangle(t, graph.Directed)
	var sent algo.Request
	runner := runnerFunc(func(_ context.Context, kind algo.Kind, req algo.Request) (*algo.Response, error) {
		sent = req
		return &algo.Response{Distance: 5, PathNodes: []string{"A", "B", "C"}, PathEdges: []string{"A-B", "B-C"}}, nil
	})
	c := New(store, runner, nil, nil)

	out := c.Run(context.Background(), Params{Kind: algo.ShortestPath, Start: " A ", End: "C"})
	if out.Status != StatusSucceeded || out.Message != "shortest distance: 5" {
		t.Fatalf("Outcome = %+v", out)
	}
	if sent.StartNode != "A" || sent.EndNode != "C" {
		t.Errorf("request start/end = %q/%q", sent.StartNode, sent.EndNode)
	}
	for _, id := range []string{"A", "B", "C"} {
		if n, _ := store.Node(id); n.Style != PathNodeStyle {
			t.Errorf("node %s style = %+v", id, n.Style)
		}
	}
	if e, _ := store.Edge("A-C"); e.Style == PathEdgeStyle {
		t.Error("A-C highlighted but not on the path")
	}
}

func TestRunShortestPathNoPath(t *testing.T) {
	for _, resp := range []*algo.Response{
		{Distance: -1, Start: "C", End: "A"},
		{Distance: algo.Distance(math.Inf(1)), Start: "C", End: "A", PathNodes: []string{"C"}},
	} {
		store := triangle(t, graph.Directed)
		c := New(store, respond(resp), nil, nil)

		out := c.Run(context.Background(), Params{Kind: algo.ShortestPath, Start: "C", End: "A"})
		if out.Status != StatusSucceeded || out.Message != "no path from C to A" {
			t.Errorf("Outcome = %+v", out)
		}
		if n, _ := store.Node("C"); n.Style == PathNodeStyle {
			t.Error("no-path result highlighted a node")
		}
	}
}

func TestRunShortestPathMissingEndpoints(t *testing.T) {
	store := triangle(t, graph.Directed)
	called := false
	c := New(store, runnerFunc(func(context.Context, algo.Kind, algo.Request) (*algo.Response, error) {
		called = true
		return &algo.Response{}, nil
	}), nil, nil)

	out := c.Run(context.Background(), Params{Kind: algo.ShortestPath, Start: "A", End: "  "})
	if out.Status != StatusInvalid || !gerrors.Is(out.Err, gerrors.ErrCodeInvalidInput) {
		t.Errorf("Outcome = %+v, want invalid", out)
	}
	if called {
		t.Error("request sent without endpoints")
	}
}

func TestRunMissingEndpointsLeavesInFlightRun(t *testing.T) {
	store := triangle(t, graph.Directed)
	started := make(chan struct{})
	c := New(store, runnerFunc(func(ctx context.Context, _ algo.Kind, _ algo.Request) (*algo.Response, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}), nil, nil)

	done := make(chan Outcome)
	go func() { done <- c.Run(context.Background(), Params{Kind: algo.MST}) }()
	<-started

	if out := c.Run(context.Background(), Params{Kind: algo.ShortestPath}); out.Status != StatusInvalid {
		t.Fatalf("Status = %s, want invalid", out.Status)
	}
	if !c.Busy() {
		t.Error("invalid run cancelled the in-flight one")
	}
	c.Cancel()
	<-done
}

func TestRunLabeling(t *testing.T) {
	store := triangle(t, graph.Undirected)
	var sent algo.Request
	c := New(store, runnerFunc(func(_ context.Context, _ algo.Kind, req algo.Request) (*algo.Response, error) {
		sent = req
		return &algo.Response{BestVal: 4, BestSolution: []algo.Assignment{
			{NodeID: "A", Label: "3"}, {NodeID: "B", Label: "1"}, {NodeID: "Z", Label: "2"},
		}}, nil
	}), nil, nil)

	params := algo.LabelingParams{PopSize: 20, Generations: 100, PC: 0.8, PM: 0.05}
	out := c.Run(context.Background(), Params{Kind: algo.Labeling, Labeling: params})
	if out.Message != "DROMD total weight: 4" {
		t.Errorf("Message = %q", out.Message)
	}
	if sent.LabelingParams != params {
		t.Errorf("sent params = %+v", sent.LabelingParams)
	}
	a, _ := store.Node("A")
	if a.Style.Background != "#FF4136" || a.Style.Border != "#B10DC9" || a.Style.Title != "ID: A - Label: 3" {
		t.Errorf("node A style = %+v", a.Style)
	}
	b, _ := store.Node("B")
	if b.Style.Background != DefaultLabelStyle.Background || b.Style.Title != "ID: B - Label: 1" {
		t.Errorf("node B style = %+v", b.Style)
	}
}

func TestLabelStyle(t *testing.T) {
	tests := []struct {
		label, background string
	}{
		{"3", "#FF4136"},
		{"2", "#2ECC40"},
		{"0", "#DDDDDD"},
		{"1", "#97C2FC"},
		{"x", "#97C2FC"},
	}
	for _, tt := range tests {
		if got := LabelStyle("n", tt.label); got.Background != tt.background {
			t.Errorf("LabelStyle(%q).Background = %q, want %q", tt.label, got.Background, tt.background)
		}
	}
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			"server error field",
			gerrors.Wrap(gerrors.ErrCodeService, &algo.ServerError{Message: "node Z missing"}, "shortest failed"),
			"error from service: node Z missing",
		},
		{
			"status",
			gerrors.Wrap(gerrors.ErrCodeService, &algo.StatusError{StatusCode: 502}, "server error: 502"),
			"error: server error: 502",
		},
		{
			"network",
			gerrors.Wrap(gerrors.ErrCodeNetwork, errors.New("connection refused"), "request failed"),
			"error: request failed: connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := triangle(t, graph.Undirected)
			sink := &recorder{}
			c := New(store, runnerFunc(func(context.Context, algo.Kind, algo.Request) (*algo.Response, error) {
				return nil, tt.err
			}), sink, nil)

			out := c.Run(context.Background(), Params{Kind: algo.MST})
			if out.Status != StatusFailed || out.Message != tt.message {
				t.Errorf("Outcome = %+v, want failed %q", out, tt.message)
			}
			if sink.last() != tt.message {
				t.Errorf("last status = %q", sink.last())
			}
		})
	}
}

func TestCancelBeforeResponse(t *testing.T) {
	store := triangle(t, graph.Directed)
	received := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		close(received)
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.Write([]byte(`{"distance": 5, "pathNodes": ["A", "B", "C"], "pathEdges": ["A-B", "B-C"]}`))
	}))
	defer srv.Close()
	defer close(release)

	sink := &recorder{}
	c := New(store, algo.NewClient(srv.URL, algo.DefaultEndpoints()), sink, nil)

	go func() {
		<-received
		if !c.Cancel() {
			t.Error("Cancel() = false while a run is outstanding")
		}
	}()
	out := c.Run(context.Background(), Params{Kind: algo.ShortestPath, Start: "A", End: "C"})

	if out.Status != StatusCancelled {
		t.Fatalf("Status = %s (%v), want cancelled", out.Status, out.Err)
	}
	if sink.last() != MessageCancelled {
		t.Errorf("last status = %q, want %q", sink.last(), MessageCancelled)
	}
	for _, n := range store.Nodes() {
		if n.Style.Background != graph.DefaultNodeBackground {
			t.Errorf("node %s highlighted after cancel: %+v", n.ID, n.Style)
		}
	}
	for _, e := range store.Edges() {
		if e.Style.Color != graph.DefaultEdgeColor {
			t.Errorf("edge %s highlighted after cancel: %+v", e.ID, e.Style)
		}
	}
	if c.Cancel() {
		t.Error("Cancel() = true with nothing outstanding")
	}
}

func TestCancelDiscardsLateSuccess(t *testing.T) {
	store := triangle(t, graph.Undirected)
	started := make(chan struct{})
	release := make(chan struct{})
	c := New(store, runnerFunc(func(context.Context, algo.Kind, algo.Request) (*algo.Response, error) {
		close(started)
		<-release
		// Ignores cancellation and answers anyway.
		return &algo.Response{TotalWeight: 5, EdgeIDs: []string{"A-B"}}, nil
	}), nil, nil)

	done := make(chan Outcome)
	go func() { done <- c.Run(context.Background(), Params{Kind: algo.MST}) }()
	<-started
	c.Cancel()
	close(release)

	out := <-done
	if out.Status != StatusCancelled || out.Result != nil {
		t.Errorf("Outcome = %+v, want cancelled without result", out)
	}
	if e, _ := store.Edge("A-B"); e.Style == TreeEdgeStyle {
		t.Error("late result was applied")
	}
}

func TestSupersession(t *testing.T) {
	store := triangle(t, graph.Undirected)
	sink := &recorder{}
	firstStarted := make(chan struct{})
	calls := 0
	var mu sync.Mutex
	c := New(store, runnerFunc(func(ctx context.Context, _ algo.Kind, _ algo.Request) (*algo.Response, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(firstStarted)
			<-ctx.Done()
			return &algo.Response{TotalWeight: 99, EdgeIDs: []string{"A-C"}}, nil
		}
		return &algo.Response{TotalWeight: 5, EdgeIDs: []string{"A-B", "B-C"}}, nil
	}), sink, nil)

	first := make(chan Outcome)
	go func() { first <- c.Run(context.Background(), Params{Kind: algo.MST}) }()
	<-firstStarted

	second := c.Run(context.Background(), Params{Kind: algo.MST})
	if second.Status != StatusSucceeded {
		t.Fatalf("second run = %+v", second)
	}
	if got := <-first; got.Status != StatusCancelled {
		t.Errorf("superseded run = %+v, want cancelled", got)
	}

	if sink.last() != "MST total weight: 5" {
		t.Errorf("status line = %q, superseded run overwrote it", sink.last())
	}
	if e, _ := store.Edge("A-C"); e.Style == TreeEdgeStyle {
		t.Error("superseded result was applied")
	}
	if e, _ := store.Edge("A-B"); e.Style != TreeEdgeStyle {
		t.Error("current result not applied")
	}
}
