// Package nodelink renders the graph as a node-link diagram.
//
// # Usage
//
// Convert a store snapshot to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(store.Snapshot(), nodelink.Options{Mode: graph.Directed})
//	svg, err := nodelink.RenderSVG(dot)
//
// Node fill and border colors, edge colors and widths come from the styles
// on the snapshot, so highlighted results show up as-is. Edge labels show the
// weight label. In directed mode edges get arrowheads, and anti-parallel pairs
// flagged as curved switch the layout to curved splines so both stay visible.
//
// A [View] wraps a store for callers that render repeatedly. Its Fit method
// is what the edge-list normalizer calls after a bulk load.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
