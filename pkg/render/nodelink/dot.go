package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphlab/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Mode selects graph vs digraph output.
	Mode graph.Mode
	// HideWeights drops the weight labels from edges.
	HideWeights bool
}

// ToDOT converts a snapshot to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(snap graph.Snapshot, opts Options) string {
	kind, op := "graph", "--"
	if opts.Mode.IsDirected() {
		kind, op = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if slices.ContainsFunc(snap.Edges, func(e graph.Edge) bool { return e.Curved }) {
		buf.WriteString("  splines=curved;\n")
	}
	buf.WriteString("  node [shape=circle, style=filled, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range snap.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range snap.Edges {
		fmt.Fprintf(&buf, "  %q %s %q [%s];\n", e.From, op, e.To, strings.Join(edgeAttrs(e, opts), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.Node) []string {
	fill := n.Style.Background
	if fill == "" {
		fill = graph.DefaultNodeBackground
	}
	attrs := []string{fmt.Sprintf("label=%q", n.ID), fmt.Sprintf("fillcolor=%q", fill)}
	if n.Style.Border != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", n.Style.Border), "penwidth=2")
	}
	if n.Style.Title != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Style.Title))
	}
	return attrs
}

func edgeAttrs(e graph.Edge, opts Options) []string {
	color, width := e.Style.Color, e.Style.Width
	if color == "" {
		color = graph.DefaultEdgeColor
	}
	if width == 0 {
		width = graph.DefaultEdgeWidth
	}
	attrs := []string{fmt.Sprintf("id=%q", e.ID)}
	if !opts.HideWeights {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	attrs = append(attrs, fmt.Sprintf("color=%q", color), fmt.Sprintf("penwidth=%d", width))
	if opts.Mode.IsDirected() && !e.Arrow {
		attrs = append(attrs, "dir=none")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the drawing scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
