package algo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/graphlab/pkg/graph"
)

// GraphEdge is one edge as the service expects it.
type GraphEdge struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// Graph is the edge list sent with every request.
type Graph struct {
	Edges []GraphEdge `json:"edges"`
}

// LabelingParams tunes the genetic search behind the DROMD labeling.
// Zero fields are omitted so the service applies its own defaults. Values
// are passed through unvalidated.
type LabelingParams struct {
	PopSize     int     `json:"popSize,omitempty" toml:"pop_size"`
	Generations int     `json:"generations,omitempty" toml:"generations"`
	PC          float64 `json:"pc,omitempty" toml:"pc"`
	PM          float64 `json:"pm,omitempty" toml:"pm"`
}

// Request is the JSON body posted to the service.
type Request struct {
	Graph     Graph  `json:"graph"`
	StartNode string `json:"startNode,omitempty"`
	EndNode   string `json:"endNode,omitempty"`
	LabelingParams
}

// NewRequest builds the edge payload from a store snapshot.
func NewRequest(snap graph.Snapshot) Request {
	edges := make([]GraphEdge, len(snap.Edges))
	for i, e := range snap.Edges {
		edges[i] = GraphEdge{ID: e.ID, Source: e.From, Target: e.To, Weight: e.Weight}
	}
	return Request{Graph: Graph{Edges: edges}}
}

// Response is the union of the fields any kind may return.
type Response struct {
	// MST
	TotalWeight float64  `json:"totalWeight"`
	EdgeIDs     []string `json:"edgeIds,omitempty"`

	// Shortest path
	Distance  Distance `json:"distance"`
	Start     string   `json:"start,omitempty"`
	End       string   `json:"end,omitempty"`
	PathNodes []string `json:"pathNodes,omitempty"`
	PathEdges []string `json:"pathEdges,omitempty"`

	// DROMD labeling
	BestVal      float64      `json:"bestVal"`
	BestSolution []Assignment `json:"bestSolution,omitempty"`

	Error string `json:"error,omitempty"`
}

// Distance is a path length. The service reports "no path" as -1 and may
// also send positive infinity, encoded as the string "Infinity".
type Distance float64

// Unreachable reports whether d is one of the no-path sentinels.
func (d Distance) Unreachable() bool {
	return d == -1 || math.IsInf(float64(d), 1)
}

func (d Distance) String() string {
	if math.IsInf(float64(d), 1) {
		return "Infinity"
	}
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}

// MarshalJSON writes infinity as the string "Infinity".
func (d Distance) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(d), 0) || math.IsNaN(float64(d)) {
		return json.Marshal(d.String())
	}
	return []byte(d.String()), nil
}

// UnmarshalJSON accepts a number or one of the strings "Infinity" and
// "-Infinity". null leaves d unchanged.
func (d *Distance) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "Infinity", "+Infinity", "inf":
			*d = Distance(math.Inf(1))
			return nil
		case "-Infinity", "-inf":
			*d = Distance(math.Inf(-1))
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("distance: %q is not a number", s)
		}
		*d = Distance(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("distance: %w", err)
	}
	*d = Distance(f)
	return nil
}

// Assignment is one [nodeId, label] pair of a DROMD labeling.
// Numeric ids and labels are kept in their shortest decimal form, so 3 and
// 3.0 both become "3".
type Assignment struct {
	NodeID string
	Label  string
}

// MarshalJSON writes the pair form.
func (a Assignment) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{a.NodeID, a.Label})
}

// UnmarshalJSON reads a two-element array of strings or numbers.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("assignment: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("assignment: want [nodeId, label], got %d elements", len(pair))
	}
	id, err := scalarString(pair[0])
	if err != nil {
		return fmt.Errorf("assignment node: %w", err)
	}
	label, err := scalarString(pair[1])
	if err != nil {
		return fmt.Errorf("assignment label: %w", err)
	}
	a.NodeID, a.Label = id, label
	return nil
}

func scalarString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", fmt.Errorf("%s is neither a string nor a number", raw)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
