package algo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	"github.com/matzehuels/graphlab/pkg/graph"
)

func newService(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, DefaultEndpoints())
}

func TestRunMST(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	c := newService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Write([]byte(`{"totalWeight": 5, "edgeIds": ["A-B", "B-C"]}`))
	})

	req := NewRequest(graph.Snapshot{Edges: []graph.Edge{
		{ID: "A-B", From: "A", To: "B", Weight: 2},
		{ID: "B-C", From: "B", To: "C", Weight: 3},
	}})
	resp, err := c.Run(context.Background(), MST, req)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if gotPath != "/api/mst" {
		t.Errorf("path = %q, want /api/mst", gotPath)
	}
	wantBody := map[string]any{
		"graph": map[string]any{
			"edges": []any{
				map[string]any{"id": "A-B", "source": "A", "target": "B", "weight": 2.0},
				map[string]any{"id": "B-C", "source": "B", "target": "C", "weight": 3.0},
			},
		},
	}
	if diff := cmp.Diff(wantBody, gotBody); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
	if resp.TotalWeight != 5 || len(resp.EdgeIDs) != 2 {
		t.Errorf("response = %+v", resp)
	}
}

func TestRunShortestPathPayload(t *testing.T) {
	var got Request
	c := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/shortest-path" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"distance": -1, "start": "A", "end": "C"}`))
	})

	req := NewRequest(graph.Snapshot{})
	req.StartNode, req.EndNode = "A", "C"
	resp, err := c.Run(context.Background(), ShortestPath, req)
	if err != nil {
		t.Fatal(err)
	}
	if got.StartNode != "A" || got.EndNode != "C" {
		t.Errorf("sent start/end = %q/%q", got.StartNode, got.EndNode)
	}
	if !resp.Distance.Unreachable() || resp.Start != "A" || resp.End != "C" {
		t.Errorf("response = %+v, want unreachable A->C", resp)
	}
}

func TestRunLabelingOmitsZeroParams(t *testing.T) {
	var raw map[string]any
	c := newService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		w.Write([]byte(`{"bestVal": 4, "bestSolution": [["A", 2], [7, "0"]]}`))
	})

	req := NewRequest(graph.Snapshot{})
	req.LabelingParams = LabelingParams{PopSize: 50, PM: 0.1}
	resp, err := c.Run(context.Background(), Labeling, req)
	if err != nil {
		t.Fatal(err)
	}
	if raw["popSize"] != 50.0 || raw["pm"] != 0.1 {
		t.Errorf("payload = %v", raw)
	}
	if _, ok := raw["generations"]; ok {
		t.Error("zero generations should be omitted")
	}
	want := []Assignment{{NodeID: "A", Label: "2"}, {NodeID: "7", Label: "0"}}
	if diff := cmp.Diff(want, resp.BestSolution); diff != "" {
		t.Errorf("BestSolution mismatch (-want +got):\n%s", diff)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    gerrors.Code
		message string
	}{
		{"status", http.StatusInternalServerError, `oops`, gerrors.ErrCodeService, "server error: 500"},
		{"body error", http.StatusOK, `{"error": "node Z not in graph"}`, gerrors.ErrCodeService, "mst failed"},
		{"bad json", http.StatusOK, `{"totalWeight": `, gerrors.ErrCodeNetwork, "request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.Run(context.Background(), MST, NewRequest(graph.Snapshot{}))
			if !gerrors.Is(err, tt.code) {
				t.Fatalf("Run() error = %v, want %s", err, tt.code)
			}
			if msg := gerrors.UserMessage(err); msg != tt.message {
				t.Errorf("UserMessage() = %q, want %q", msg, tt.message)
			}
		})
	}
}

func TestRunErrorTypes(t *testing.T) {
	c := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Run(context.Background(), MST, NewRequest(graph.Snapshot{}))
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
		t.Errorf("error %v does not carry StatusError 502", err)
	}

	c = newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "boom"}`))
	})
	_, err = c.Run(context.Background(), MST, NewRequest(graph.Snapshot{}))
	var srvErr *ServerError
	if !errors.As(err, &srvErr) || srvErr.Message != "boom" {
		t.Errorf("error %v does not carry ServerError boom", err)
	}
}

func TestRunNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, DefaultEndpoints())
	_, err := c.Run(context.Background(), MST, NewRequest(graph.Snapshot{}))
	if !gerrors.Is(err, gerrors.ErrCodeNetwork) {
		t.Errorf("Run() against closed server = %v, want NETWORK_ERROR", err)
	}
}

func TestRunCancelled(t *testing.T) {
	received := make(chan struct{})
	release := make(chan struct{})
	c := newService(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		close(received)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-received
		cancel()
	}()
	_, err := c.Run(ctx, ShortestPath, NewRequest(graph.Snapshot{}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if gerrors.GetCode(err) != "" {
		t.Errorf("cancellation classified as %s", gerrors.GetCode(err))
	}
}

func TestEndpointsPath(t *testing.T) {
	e := Endpoints{ShortestPath: "/api/shortest"}
	tests := []struct {
		kind Kind
		want string
	}{
		{MST, "/api/mst"},
		{ShortestPath, "/api/shortest"},
		{Labeling, "/api/dromd"},
	}
	for _, tt := range tests {
		got, err := e.Path(tt.kind)
		if err != nil || got != tt.want {
			t.Errorf("Path(%s) = %q, %v, want %q", tt.kind, got, err, tt.want)
		}
	}
	if _, err := e.Path("bogus"); !gerrors.Is(err, gerrors.ErrCodeUnsupported) {
		t.Errorf("Path(bogus) = %v, want UNSUPPORTED", err)
	}
}

func TestClientURL(t *testing.T) {
	c := NewClient("http://svc:5000/", Endpoints{MST: "solve/mst"})
	got, err := c.URL(MST)
	if err != nil || got != "http://svc:5000/solve/mst" {
		t.Errorf("URL(MST) = %q, %v", got, err)
	}
	if NewClient("", DefaultEndpoints()).BaseURL() != DefaultBaseURL {
		t.Error("empty base URL should fall back to the default")
	}
}
