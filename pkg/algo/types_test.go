package algo

import (
	"encoding/json"
	"math"
	"testing"

	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	"github.com/matzehuels/graphlab/pkg/graph"
)

func TestDistanceUnmarshal(t *testing.T) {
	tests := []struct {
		in          string
		unreachable bool
		want        float64
	}{
		{`7.5`, false, 7.5},
		{`-1`, true, -1},
		{`"Infinity"`, true, math.Inf(1)},
		{`"3"`, false, 3},
	}
	for _, tt := range tests {
		var d Distance
		if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
			t.Errorf("Unmarshal(%s) error: %v", tt.in, err)
			continue
		}
		if float64(d) != tt.want || d.Unreachable() != tt.unreachable {
			t.Errorf("Unmarshal(%s) = %v (unreachable %v)", tt.in, d, d.Unreachable())
		}
	}

	var d Distance
	if err := json.Unmarshal([]byte(`"far"`), &d); err == nil {
		t.Error("Unmarshal(\"far\") should fail")
	}
}

func TestDistanceMarshalInfinity(t *testing.T) {
	data, err := json.Marshal(Distance(math.Inf(1)))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"Infinity"` {
		t.Errorf("Marshal(+Inf) = %s", data)
	}
}

func TestAssignmentUnmarshal(t *testing.T) {
	var got []Assignment
	if err := json.Unmarshal([]byte(`[["A", 3], [12, 2.0], ["C", "0"]]`), &got); err != nil {
		t.Fatal(err)
	}
	want := []Assignment{{"A", "3"}, {"12", "2"}, {"C", "0"}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("assignment %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	for _, bad := range []string{`["A"]`, `[true, 1]`, `{"A": 1}`} {
		var a Assignment
		if err := json.Unmarshal([]byte(bad), &a); err == nil {
			t.Errorf("Unmarshal(%s) should fail", bad)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"mst":           MST,
		"MST":           MST,
		"shortest":      ShortestPath,
		"shortest-path": ShortestPath,
		" dromd ":       Labeling,
		"labeling":      Labeling,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("dijkstra"); !gerrors.Is(err, gerrors.ErrCodeInvalidInput) {
		t.Errorf("ParseKind(dijkstra) = %v, want INVALID_INPUT", err)
	}
}

func TestKindMode(t *testing.T) {
	if ShortestPath.Mode() != graph.Directed {
		t.Error("shortest path should be directed")
	}
	if MST.Mode() != graph.Undirected || Labeling.Mode() != graph.Undirected {
		t.Error("mst and dromd should be undirected")
	}
}
