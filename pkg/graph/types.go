package graph

import "slices"

// =============================================================================
// Mode - Edge Canonicalization
// =============================================================================

// Mode selects how edge ids are derived from endpoints.
type Mode int

const (
	// Undirected derives the id from the sorted endpoint pair, so the id of
	// (u, v) equals the id of (v, u).
	Undirected Mode = iota
	// Directed derives the id from the ordered pair from-to.
	Directed
)

// String returns "directed" or "undirected".
func (m Mode) String() string {
	if m == Directed {
		return "directed"
	}
	return "undirected"
}

// IsDirected reports whether m is Directed.
func (m Mode) IsDirected() bool { return m == Directed }

// EdgeID returns the canonical id of the edge between u and v under mode.
func EdgeID(mode Mode, u, v string) string {
	if mode == Directed {
		return u + "-" + v
	}
	from, to := Endpoints(mode, u, v)
	return from + "-" + to
}

// Endpoints returns the endpoints in the order they are stored under mode.
// Undirected edges keep the lexicographically smaller endpoint first.
func Endpoints(mode Mode, u, v string) (from, to string) {
	if mode == Directed {
		return u, v
	}
	pair := []string{u, v}
	slices.Sort(pair)
	return pair[0], pair[1]
}

// =============================================================================
// Style - Presentation Annotations
// =============================================================================

// NodeStyle holds presentation annotations applied to a node.
// The zero value means "default look".
type NodeStyle struct {
	Background string `json:"background,omitempty"`
	Border     string `json:"border,omitempty"`
	Title      string `json:"title,omitempty"`
}

// EdgeStyle holds presentation annotations applied to an edge.
// The zero value means "default look".
type EdgeStyle struct {
	Color string `json:"color,omitempty"`
	Width int    `json:"width,omitempty"`
}

// Default colors used when nothing is highlighted.
const (
	DefaultNodeBackground = "#D2E5FF"
	DefaultEdgeColor      = "#848484"
	DefaultEdgeWidth      = 1
)

// =============================================================================
// Node / Edge
// =============================================================================

// Node is a vertex of the weighted graph. Its ID doubles as its display label.
type Node struct {
	ID    string    `json:"id"`
	Style NodeStyle `json:"style,omitzero"`
}

// Edge is a weighted connection between two nodes.
type Edge struct {
	ID     string  `json:"id"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
	Label  string  `json:"label"`

	// Curved asks the renderer to bend the edge so that it does not overlap
	// its anti-parallel twin. Presentation only.
	Curved bool `json:"curved,omitempty"`
	// Arrow asks the renderer to draw an arrow head at To.
	Arrow bool `json:"arrow,omitempty"`

	Style EdgeStyle `json:"style,omitzero"`
}

// ReverseID returns the directed id of the edge running the other way.
func (e Edge) ReverseID() string { return e.To + "-" + e.From }

// Touches reports whether id is one of the edge's endpoints.
func (e Edge) Touches(id string) bool { return e.From == id || e.To == id }

// Snapshot is a point-in-time copy of a store's contents.
// Nodes and edges appear in insertion order.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
