package graph

import (
	"errors"
	"slices"
	"sync"

	gerrors "github.com/matzehuels/graphlab/pkg/errors"
)

var (
	// ErrInvalidNodeID is returned by [Store.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Store.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is returned by [Store.AddEdge] when an edge with the
	// same canonical ID already exists.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownSourceNode is returned by [Store.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Store.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownEdge is returned by [Store.UpdateEdgeWeight] for a missing edge.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrInvalidWeight is returned when a weight is not a finite positive number.
	ErrInvalidWeight = errors.New("weight must be a positive number")
)

// Store is the in-memory node/edge collection of one session.
//
// The zero value is not usable - use NewStore.
type Store struct {
	mu        sync.RWMutex
	nodes     map[string]*Node
	nodeOrder []string
	edges     map[string]*Edge
	edgeOrder []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		nodes: make(map[string]*Node),
		edges: make(map[string]*Edge),
	}
}

// AddNode adds a node with the given id.
// Returns ErrInvalidNodeID for an empty id or ErrDuplicateNodeID if the id is taken.
func (s *Store) AddNode(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addNode(Node{ID: id})
}

func (s *Store) addNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := s.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	s.nodes[n.ID] = &n
	s.nodeOrder = append(s.nodeOrder, n.ID)
	return nil
}

// AddEdge adds e to the store.
// Both endpoints must already exist and e.ID must be unused. The weight must
// be a finite positive number. On error the store is unchanged.
func (s *Store) AddEdge(e Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addEdge(e)
}

func (s *Store) addEdge(e Edge) error {
	if _, ok := s.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := s.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if _, exists := s.edges[e.ID]; exists {
		return ErrDuplicateEdgeID
	}
	if gerrors.ValidateWeight(e.Weight) != nil {
		return ErrInvalidWeight
	}
	if e.Label == "" {
		e.Label = gerrors.FormatWeight(e.Weight)
	}
	s.edges[e.ID] = &e
	s.edgeOrder = append(s.edgeOrder, e.ID)
	return nil
}

// UpdateEdgeWeight replaces the weight and label of an existing edge.
// An empty label is derived from the weight.
func (s *Store) UpdateEdgeWeight(id string, weight float64, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.edges[id]
	if !ok {
		return ErrUnknownEdge
	}
	if gerrors.ValidateWeight(weight) != nil {
		return ErrInvalidWeight
	}
	if label == "" {
		label = gerrors.FormatWeight(weight)
	}
	e.Weight = weight
	e.Label = label
	return nil
}

// RemoveNode removes the node and every edge incident to it.
// It reports whether the node existed.
func (s *Store) RemoveNode(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[id]; !ok {
		return false
	}
	delete(s.nodes, id)
	s.nodeOrder = slices.DeleteFunc(s.nodeOrder, func(n string) bool { return n == id })

	s.edgeOrder = slices.DeleteFunc(s.edgeOrder, func(eid string) bool {
		if s.edges[eid].Touches(id) {
			delete(s.edges, eid)
			return true
		}
		return false
	})
	return true
}

// RemoveEdge removes the edge with the given id and reports whether it existed.
func (s *Store) RemoveEdge(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.edges[id]; !ok {
		return false
	}
	delete(s.edges, id)
	s.edgeOrder = slices.DeleteFunc(s.edgeOrder, func(e string) bool { return e == id })
	return true
}

// Node returns a copy of the node with the given id.
func (s *Store) Node(id string) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Edge returns a copy of the edge with the given id.
func (s *Store) Edge(id string) (Edge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.edges[id]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Get looks id up among nodes first, then edges. Exactly one of the returned
// pointers is non-nil when found; both are nil otherwise. The pointers refer
// to copies.
func (s *Store) Get(id string) (*Node, *Edge) {
	if n, ok := s.Node(id); ok {
		return &n, nil
	}
	if e, ok := s.Edge(id); ok {
		return nil, &e
	}
	return nil, nil
}

// HasNode reports whether a node with the given id exists.
func (s *Store) HasNode(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

// HasEdge reports whether an edge with the given id exists.
func (s *Store) HasEdge(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.edges[id]
	return ok
}

// Clear removes every node and edge.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

func (s *Store) clear() {
	s.nodes = make(map[string]*Node)
	s.edges = make(map[string]*Edge)
	s.nodeOrder = nil
	s.edgeOrder = nil
}

// Replace atomically swaps the store contents: clear, then add all nodes,
// then all edges. If any element is rejected the previous contents are
// restored and the error is returned.
func (s *Store) Replace(nodes []Node, edges []Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevNodes, prevNodeOrder := s.nodes, s.nodeOrder
	prevEdges, prevEdgeOrder := s.edges, s.edgeOrder

	s.clear()
	for _, n := range nodes {
		if err := s.addNode(n); err != nil {
			s.nodes, s.nodeOrder, s.edges, s.edgeOrder = prevNodes, prevNodeOrder, prevEdges, prevEdgeOrder
			return err
		}
	}
	for _, e := range edges {
		if err := s.addEdge(e); err != nil {
			s.nodes, s.nodeOrder, s.edges, s.edgeOrder = prevNodes, prevNodeOrder, prevEdges, prevEdgeOrder
			return err
		}
	}
	return nil
}

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodesLocked()
}

func (s *Store) nodesLocked() []Node {
	out := make([]Node, len(s.nodeOrder))
	for i, id := range s.nodeOrder {
		out[i] = *s.nodes[id]
	}
	return out
}

// Edges returns copies of all edges in insertion order.
func (s *Store) Edges() []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edgesLocked()
}

func (s *Store) edgesLocked() []Edge {
	out := make([]Edge, len(s.edgeOrder))
	for i, id := range s.edgeOrder {
		out[i] = *s.edges[id]
	}
	return out
}

// Snapshot returns a consistent copy of all nodes and edges.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Nodes: s.nodesLocked(), Edges: s.edgesLocked()}
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

// SetNodeStyle replaces the style of a node. Unknown ids are ignored and
// reported as false.
func (s *Store) SetNodeStyle(id string, style NodeStyle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if ok {
		n.Style = style
	}
	return ok
}

// SetEdgeStyle replaces the style of an edge. Unknown ids are ignored and
// reported as false.
func (s *Store) SetEdgeStyle(id string, style EdgeStyle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.edges[id]
	if ok {
		e.Style = style
	}
	return ok
}

// ResetStyles restores the default look of every node and edge.
func (s *Store) ResetStyles() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.nodes {
		n.Style = NodeStyle{Background: DefaultNodeBackground}
	}
	for _, e := range s.edges {
		e.Style = EdgeStyle{Color: DefaultEdgeColor, Width: DefaultEdgeWidth}
	}
}
