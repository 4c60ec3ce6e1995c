package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/graphlab/pkg/graph"
)

type document struct {
	Mode  string       `json:"mode"`
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

// WriteJSON encodes a snapshot as indented JSON and writes it to w.
// The mode is recorded so readers know how edge ids were derived.
func WriteJSON(snap graph.Snapshot, mode graph.Mode, w io.Writer) error {
	out := document{Mode: mode.String(), Nodes: snap.Nodes, Edges: snap.Edges}
	if out.Nodes == nil {
		out.Nodes = []graph.Node{}
	}
	if out.Edges == nil {
		out.Edges = []graph.Edge{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
