package io

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	"github.com/matzehuels/graphlab/pkg/graph"
	"github.com/matzehuels/graphlab/pkg/observability"
)

// Options controls how edge-list text is interpreted.
type Options struct {
	// SkipHeader consumes the first non-comment line (typically a
	// "nodes edges" count line) before any data is read. File input sets
	// it, typed input does not.
	SkipHeader bool
	// Mode selects the edge-id canonicalization.
	Mode graph.Mode
}

// EdgeList is the validated result of parsing edge-list text.
// Nodes are in first-seen order; edges are in order of first definition.
type EdgeList struct {
	Nodes []graph.Node
	Edges []graph.Edge
}

// ParseError reports the data line whose weight could not be accepted.
type ParseError struct {
	LineNo int    // 1-based line number in the input
	Line   string // the trimmed offending line
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid data at line %d: %q", e.LineNo, e.Line)
}

// ParseEdgeList parses edge-list text of the form "u v [w]" per line.
//
// Blank lines and lines starting with '%' or '#' are comments. Lines with fewer
// than two tokens are ignored. A missing weight defaults to 1; a present one
// must be a finite number greater than zero, otherwise parsing stops and an
// error with code PARSE_ERROR wrapping a [*ParseError] is returned. Nothing
// of a failed parse is kept.
//
// A line whose canonical id was already seen overwrites that edge's weight
// and label instead of adding a duplicate. In directed mode, edges whose
// reverse edge is also present are marked Curved.
func ParseEdgeList(content string, opts Options) (*EdgeList, error) {
	var (
		nodes    []graph.Node
		seen     = make(map[string]bool)
		edges    []*graph.Edge
		byID     = make(map[string]*graph.Edge)
		skipNext = opts.SkipHeader
	)

	addNode := func(id string) {
		if !seen[id] {
			seen[id] = true
			nodes = append(nodes, graph.Node{ID: id})
		}
	}

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if isComment(line) {
			continue
		}
		if skipNext {
			skipNext = false
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		u, v := parts[0], parts[1]
		w := 1.0
		if len(parts) > 2 {
			parsed, err := gerrors.ParseWeight(parts[2])
			if err != nil {
				perr := &ParseError{LineNo: i + 1, Line: line}
				return nil, gerrors.Wrap(gerrors.ErrCodeParse, perr, "invalid data at line %d: %q", perr.LineNo, line)
			}
			w = parsed
		}

		addNode(u)
		addNode(v)

		id := graph.EdgeID(opts.Mode, u, v)
		label := gerrors.FormatWeight(w)
		if e, ok := byID[id]; ok {
			e.Weight = w
			e.Label = label
			continue
		}
		from, to := graph.Endpoints(opts.Mode, u, v)
		e := &graph.Edge{
			ID:     id,
			From:   from,
			To:     to,
			Weight: w,
			Label:  label,
			Arrow:  opts.Mode.IsDirected(),
		}
		byID[id] = e
		edges = append(edges, e)
	}

	if opts.Mode.IsDirected() {
		for _, e := range edges {
			if _, ok := byID[e.ReverseID()]; ok {
				e.Curved = true
			}
		}
	}

	out := &EdgeList{Nodes: nodes, Edges: make([]graph.Edge, len(edges))}
	for i, e := range edges {
		out.Edges[i] = *e
	}
	return out, nil
}

func isComment(line string) bool {
	return line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#")
}

// IsBlank reports whether typed input has nothing to parse. Typed input that
// is blank is ignored entirely rather than clearing the graph.
func IsBlank(content string) bool {
	return strings.TrimSpace(content) == ""
}

// ReadFile returns the contents of an edge-list file. "-" reads stdin.
func ReadFile(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", gerrors.Wrap(gerrors.ErrCodeNotFound, err, "file not found: %s", path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// =============================================================================
// Normalizer - applies parsed input to a store
// =============================================================================

// View is the part of the renderer the normalizer talks to.
type View interface {
	// Fit asks the view to re-frame itself around the current contents.
	Fit()
}

// Normalizer parses edge-list text and replaces a store's contents with it.
type Normalizer struct {
	Store *graph.Store
	View  View // optional
}

// Load clears the store, parses content and, on success, fills the store with
// the result and refits the view.
//
// The store is cleared before parsing, so a failed parse leaves it empty and
// any previously loaded graph is lost rather than restored. Callers that need
// the old graph back must snapshot it first.
func (n *Normalizer) Load(ctx context.Context, content string, opts Options) (*EdgeList, error) {
	start := time.Now()
	n.Store.Clear()

	list, err := ParseEdgeList(content, opts)
	if err == nil {
		if rerr := n.Store.Replace(list.Nodes, list.Edges); rerr != nil {
			err = gerrors.Wrap(gerrors.ErrCodeInternal, rerr, "apply parsed graph")
		}
	}
	if err != nil {
		n.Store.Clear()
		observability.Imports().OnImport(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}

	if n.View != nil {
		n.View.Fit()
	}
	observability.Imports().OnImport(ctx, len(list.Nodes), len(list.Edges), time.Since(start), nil)
	return list, nil
}
