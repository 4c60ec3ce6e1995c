package algo

import (
	"strings"

	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	"github.com/matzehuels/graphlab/pkg/graph"
)

// Kind selects an algorithm offered by the service.
type Kind string

const (
	MST          Kind = "mst"
	ShortestPath Kind = "shortest"
	Labeling     Kind = "dromd"
)

// Kinds lists every supported kind in menu order.
func Kinds() []Kind { return []Kind{MST, ShortestPath, Labeling} }

// Mode is the edge identity the kind works with. Shortest path runs on a
// directed graph; the others treat edges as undirected.
func (k Kind) Mode() graph.Mode {
	if k == ShortestPath {
		return graph.Directed
	}
	return graph.Undirected
}

// Title is a human-readable name.
func (k Kind) Title() string {
	switch k {
	case MST:
		return "Minimum spanning tree"
	case ShortestPath:
		return "Shortest path"
	case Labeling:
		return "DROMD labeling"
	default:
		return string(k)
	}
}

// Description is a one-line summary shown next to the title.
func (k Kind) Description() string {
	switch k {
	case MST:
		return "undirected, highlights tree edges"
	case ShortestPath:
		return "directed, needs start and end node"
	case Labeling:
		return "undirected, genetic search for a minimum labeling"
	default:
		return ""
	}
}

func (k Kind) String() string { return string(k) }

// ParseKind accepts a kind name or one of its aliases, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mst", "spanning-tree":
		return MST, nil
	case "shortest", "shortest-path", "sp":
		return ShortestPath, nil
	case "dromd", "labeling", "label":
		return Labeling, nil
	default:
		return "", gerrors.New(gerrors.ErrCodeInvalidInput, "unknown algorithm %q (want mst, shortest or dromd)", s)
	}
}
