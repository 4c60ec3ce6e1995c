package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gerrors "github.com/matzehuels/graphlab/pkg/errors"
)

// fakeService answers every algorithm endpoint with a canned result.
func fakeService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/mst":
			io.WriteString(w, `{"totalWeight": 5, "edgeIds": ["A-B", "B-C"]}`)
		case "/api/shortest-path":
			io.WriteString(w, `{"distance": 3, "pathNodes": ["A", "B", "C"], "pathEdges": ["A-B", "B-C"]}`)
		case "/api/dromd":
			io.WriteString(w, `{"bestVal": 4, "bestSolution": [["A", "2"], ["B", "0"]]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestCLI(in string) (*CLI, *bytes.Buffer) {
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.In = strings.NewReader(in)
	c.Out = &out
	return c, &out
}

// execute runs the root command with a config path that does not exist, so
// only flags and built-in defaults apply.
func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRunCommand(t *testing.T) {
	svc := fakeService(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "mst",
			args: []string{"-a", "mst", "--text", "A B 2\nB C 3\nA C 5"},
			want: []string{"3 nodes", "3 edges", "undirected", "MST total weight: 5", "A -- B"},
		},
		{
			name: "shortest",
			args: []string{"-a", "shortest", "--text", "A B 1\nB C 2", "--start", "A", "--end", "C"},
			want: []string{"directed", "shortest distance: 3", "A -> B"},
		},
		{
			name: "dromd",
			args: []string{"-a", "dromd", "--text", "A B 1", "--pop-size", "10"},
			want: []string{"DROMD total weight: 4", "ID: A - Label: 2"},
		},
		{
			name: "no terminal defaults to mst",
			args: []string{"--text", "A B 2"},
			want: []string{"MST total weight: 5"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestCLI("")
			args := append([]string{"run", "--service", svc.URL}, tt.args...)
			if err := execute(t, c, args...); err != nil {
				t.Fatalf("run: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestRunCommandFileWithHeaderAndDOT(t *testing.T) {
	svc := fakeService(t)
	path := filepath.Join(t.TempDir(), "triangle.txt")
	if err := os.WriteFile(path, []byte("3 3\nA B 2\nB C 3\nA C 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, out := newTestCLI("")
	if err := execute(t, c, "run", path, "--service", svc.URL, "-a", "mst", "--dot", "-"); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "graph G {") {
		t.Errorf("DOT output missing:\n%s", got)
	}
	if !strings.Contains(got, `id="A-B", label="2", color="red", penwidth=3`) {
		t.Errorf("tree edge not highlighted in DOT:\n%s", got)
	}
}

func TestRunCommandErrors(t *testing.T) {
	svc := fakeService(t)
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer failing.Close()

	tests := []struct {
		name string
		args []string
		code gerrors.Code
	}{
		{"no input", []string{"run", "--service", svc.URL, "-a", "mst"}, gerrors.ErrCodeInvalidInput},
		{"file and text", []string{"run", "x.txt", "--text", "A B", "--service", svc.URL}, gerrors.ErrCodeInvalidInput},
		{"unknown algorithm", []string{"run", "--text", "A B", "-a", "bfs"}, gerrors.ErrCodeInvalidInput},
		{"bad weight", []string{"run", "--text", "A B zero", "-a", "mst", "--service", svc.URL}, gerrors.ErrCodeParse},
		{"missing endpoints", []string{"run", "--text", "A B", "-a", "shortest", "--service", svc.URL}, gerrors.ErrCodeInvalidInput},
		{"service failure", []string{"run", "--text", "A B", "-a", "mst", "--service", failing.URL}, gerrors.ErrCodeService},
		{"bad service url", []string{"run", "--text", "A B", "-a", "mst", "--service", "ftp://x"}, gerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCLI("")
			err := execute(t, c, tt.args...)
			if !gerrors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"dot undirected", []string{"-f", "dot"}, `"A" -- "B"`},
		{"dot directed", []string{"-f", "dot", "-a", "shortest"}, `"A" -> "B"`},
		{"json", []string{"-f", "json"}, `"mode": "undirected"`},
		{"hide weights", []string{"-f", "dot", "--hide-weights"}, `[id="A-B", color=`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestCLI("")
			args := append([]string{"render", "--text", "A B 2", "-o", "-"}, tt.args...)
			if err := execute(t, c, args...); err != nil {
				t.Fatalf("render: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestRenderCommandWritesNextToInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.txt")
	if err := os.WriteFile(path, []byte("2 1\nA B 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, _ := newTestCLI("")
	if err := execute(t, c, "render", path, "-f", "dot"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "g.dot"))
	if err != nil {
		t.Fatalf("output file: %v", err)
	}
	if !strings.Contains(string(data), `"A" -- "B"`) {
		t.Errorf("g.dot = %s", data)
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	c, _ := newTestCLI("")
	err := execute(t, c, "render", "--text", "A B", "-f", "pdf")
	if !gerrors.Is(err, gerrors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestEditShell(t *testing.T) {
	svc := fakeService(t)
	script := strings.Join([]string{
		"node A",
		"node B",
		"node A",
		"edge B A",
		"2",
		"edge A B 4",
		"weight A-B 7",
		"weight A-B nope",
		"del A-B",
		"frobnicate",
		"algo shortest",
		"text A B 1;B C 2",
		"show",
		"run A C",
		"wait",
		"quit",
	}, "\n")

	c, out := newTestCLI(script)
	if err := execute(t, c, "edit", "--service", svc.URL); err != nil {
		t.Fatalf("edit: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"added node A",
		"added node B",
		"DUPLICATE_ID",
		"Weight for edge A-B: ",
		"added edge A-B (2)",
		"edge A-B weight 7",
		"INVALID_WEIGHT",
		"deleted edge A-B",
		`unknown command "frobnicate"`,
		"algorithm shortest (directed edges)",
		"loaded 3 nodes, 2 edges",
		"B -> C",
		"shortest distance: 3",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("shell output missing %q:\n%s", want, got)
		}
	}
}

func TestEditShellQuitCancelsRun(t *testing.T) {
	release := make(chan struct{})
	stalled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer stalled.Close()
	defer close(release)

	c, out := newTestCLI("text A B 2\nrun\nquit\n")
	done := make(chan error, 1)
	go func() { done <- execute(t, c, "edit", "--service", stalled.URL) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("edit: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("quit did not cancel the outstanding run")
	}
	if !strings.Contains(out.String(), "cancelled") {
		t.Errorf("run outcome missing:\n%s", out.String())
	}
}

func TestEditShellDismissedPrompt(t *testing.T) {
	c, out := newTestCLI("node A\nnode B\nedge A B\n\nstatus\n")
	if err := execute(t, c, "edit"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !strings.Contains(out.String(), "edge not added") {
		t.Errorf("output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "...") {
		t.Errorf("status line missing:\n%s", out.String())
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[service]\nbase_url = \"http://algo.internal:5000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, out := newTestCLI("")
	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "config", "show"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out.String(), `base_url = "http://algo.internal:5000"`) {
		t.Errorf("config show:\n%s", out.String())
	}

	c, out = newTestCLI("")
	root = c.RootCommand()
	root.SetArgs([]string{"--config", path, "config", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out.String()) != path {
		t.Errorf("config path = %q, want %q", out.String(), path)
	}
}

func TestCompletionCommand(t *testing.T) {
	c, out := newTestCLI("")
	if err := execute(t, c, "completion", "bash"); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out.String(), "graphlab") {
		t.Error("bash completion does not mention graphlab")
	}
}
