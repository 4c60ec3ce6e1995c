// Package edit implements interactive single-item graph editing: adding
// nodes and edges, changing weights, and deleting items.
//
// Every operation applies the same rules as the bulk edge-list importer. Ids
// are canonicalized with [graph.EdgeID] for the mode passed to the call, and
// weights must be finite positive numbers. Values the user has to type (edge
// weights) come from a [Prompter] so the logic can run without a UI.
package edit

import (
	"errors"
	"fmt"
	"strings"

	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	"github.com/matzehuels/graphlab/pkg/graph"
)

// Session applies edit commands to a store.
type Session struct {
	Store    *graph.Store
	Prompter Prompter
}

// New creates an edit session over store.
func New(store *graph.Store, p Prompter) *Session {
	return &Session{Store: store, Prompter: p}
}

// AddNode creates a node whose id is label.
// Returns INVALID_INPUT for an empty label and DUPLICATE_ID when the node exists.
func (s *Session) AddNode(label string) (graph.Node, error) {
	if err := gerrors.ValidateLabel(label); err != nil {
		return graph.Node{}, err
	}
	if s.Store.HasNode(label) {
		return graph.Node{}, gerrors.New(gerrors.ErrCodeDuplicateID, "node %s already exists", label)
	}
	if err := s.Store.AddNode(label); err != nil {
		return graph.Node{}, storeError(err, label)
	}
	n, _ := s.Store.Node(label)
	return n, nil
}

// AddEdge creates the edge from-to after prompting for its weight.
//
// The id is derived from mode. An existing id yields DUPLICATE_ID before the
// prompt is shown. A dismissed or empty answer cancels silently and returns
// (nil, nil). A non-numeric or non-positive answer yields INVALID_WEIGHT.
func (s *Session) AddEdge(from, to string, mode graph.Mode) (*graph.Edge, error) {
	id := graph.EdgeID(mode, from, to)
	if s.Store.HasEdge(id) {
		return nil, gerrors.New(gerrors.ErrCodeDuplicateID, "edge %s already exists", id)
	}
	for _, n := range []string{from, to} {
		if !s.Store.HasNode(n) {
			return nil, gerrors.New(gerrors.ErrCodeNotFound, "node %s does not exist", n)
		}
	}

	answer, ok := s.prompt(fmt.Sprintf("Weight for edge %s", id), "")
	if !ok {
		return nil, nil
	}
	w, err := gerrors.ParseWeight(answer)
	if err != nil {
		return nil, err
	}

	u, v := graph.Endpoints(mode, from, to)
	e := graph.Edge{
		ID:     id,
		From:   u,
		To:     v,
		Weight: w,
		Label:  answer,
		Arrow:  mode.IsDirected(),
	}
	if err := s.Store.AddEdge(e); err != nil {
		return nil, storeError(err, id)
	}
	return &e, nil
}

// EditEdgeWeight prompts for a new weight, seeded with the current one, and
// updates the edge in place. A dismissed or empty answer leaves the edge
// unchanged and returns (false, nil).
func (s *Session) EditEdgeWeight(id string) (bool, error) {
	e, ok := s.Store.Edge(id)
	if !ok {
		return false, gerrors.New(gerrors.ErrCodeNotFound, "edge %s does not exist", id)
	}

	answer, ok := s.prompt(fmt.Sprintf("New weight for edge %s", id), gerrors.FormatWeight(e.Weight))
	if !ok {
		return false, nil
	}
	w, err := gerrors.ParseWeight(answer)
	if err != nil {
		return false, gerrors.Wrap(gerrors.ErrCodeInvalidWeight, err, "invalid change")
	}
	if err := s.Store.UpdateEdgeWeight(id, w, answer); err != nil {
		return false, storeError(err, id)
	}
	return true, nil
}

// DeleteNode removes the node and every edge touching it.
func (s *Session) DeleteNode(id string) error {
	if !s.Store.RemoveNode(id) {
		return gerrors.New(gerrors.ErrCodeNotFound, "node %s does not exist", id)
	}
	return nil
}

// DeleteEdge removes a single edge.
func (s *Session) DeleteEdge(id string) error {
	if !s.Store.RemoveEdge(id) {
		return gerrors.New(gerrors.ErrCodeNotFound, "edge %s does not exist", id)
	}
	return nil
}

func (s *Session) prompt(message, initial string) (string, bool) {
	if s.Prompter == nil {
		return "", false
	}
	answer, ok := s.Prompter.Prompt(message, initial)
	answer = strings.TrimSpace(answer)
	if !ok || answer == "" {
		return "", false
	}
	return answer, true
}

// storeError maps store sentinels onto coded errors for callers that raced
// with another mutation between the check and the write.
func storeError(err error, id string) error {
	switch {
	case errors.Is(err, graph.ErrDuplicateNodeID), errors.Is(err, graph.ErrDuplicateEdgeID):
		return gerrors.Wrap(gerrors.ErrCodeDuplicateID, err, "%s already exists", id)
	case errors.Is(err, graph.ErrInvalidNodeID):
		return gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "invalid id %q", id)
	case errors.Is(err, graph.ErrInvalidWeight):
		return gerrors.Wrap(gerrors.ErrCodeInvalidWeight, err, "invalid weight for %s", id)
	case errors.Is(err, graph.ErrUnknownSourceNode), errors.Is(err, graph.ErrUnknownTargetNode),
		errors.Is(err, graph.ErrUnknownEdge):
		return gerrors.Wrap(gerrors.ErrCodeNotFound, err, "%s refers to a missing item", id)
	default:
		return gerrors.Wrap(gerrors.ErrCodeInternal, err, "update %s", id)
	}
}
