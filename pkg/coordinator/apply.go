package coordinator

import (
	"fmt"

	"github.com/matzehuels/graphlab/pkg/algo"
	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	"github.com/matzehuels/graphlab/pkg/graph"
)

// Highlight styles for results.
var (
	TreeEdgeStyle = graph.EdgeStyle{Color: "red", Width: 3}
	PathNodeStyle = graph.NodeStyle{Background: "#ffcc00"}
	PathEdgeStyle = graph.EdgeStyle{Color: "green", Width: 3}
)

// DefaultLabelStyle colors nodes whose label has no palette entry.
var DefaultLabelStyle = graph.NodeStyle{Background: "#97C2FC"}

// LabelPalette maps DROMD labels to node colors.
var LabelPalette = map[string]graph.NodeStyle{
	"3": {Background: "#FF4136", Border: "#B10DC9"},
	"2": {Background: "#2ECC40", Border: "#01FF70"},
	"0": {Background: "#DDDDDD", Border: "#AAAAAA"},
}

// LabelStyle returns the node style for a DROMD label, including the hover title.
func LabelStyle(nodeID, label string) graph.NodeStyle {
	style, ok := LabelPalette[label]
	if !ok {
		style = DefaultLabelStyle
	}
	style.Title = fmt.Sprintf("ID: %s - Label: %s", nodeID, label)
	return style
}

// apply writes resp onto the store and returns the status message.
func (c *Coordinator) apply(p Params, resp *algo.Response) string {
	switch p.Kind {
	case algo.MST:
		for _, id := range resp.EdgeIDs {
			c.Store.SetEdgeStyle(id, TreeEdgeStyle)
		}
		return "MST total weight: " + gerrors.FormatWeight(resp.TotalWeight)

	case algo.ShortestPath:
		if resp.Distance.Unreachable() {
			start, end := resp.Start, resp.End
			if start == "" {
				start = p.Start
			}
			if end == "" {
				end = p.End
			}
			return fmt.Sprintf("no path from %s to %s", start, end)
		}
		for _, id := range resp.PathNodes {
			c.Store.SetNodeStyle(id, PathNodeStyle)
		}
		for _, id := range resp.PathEdges {
			c.Store.SetEdgeStyle(id, PathEdgeStyle)
		}
		return "shortest distance: " + resp.Distance.String()

	default:
		for _, a := range resp.BestSolution {
			c.Store.SetNodeStyle(a.NodeID, LabelStyle(a.NodeID, a.Label))
		}
		return "DROMD total weight: " + gerrors.FormatWeight(resp.BestVal)
	}
}
