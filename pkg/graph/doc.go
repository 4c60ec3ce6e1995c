// Package graph provides the in-memory weighted graph model behind a
// graphlab session.
//
// # Overview
//
// A [Store] holds the nodes and edges a user has imported or drawn. It is the
// single source of truth read by the request coordinator when it snapshots the
// graph for an algorithm run, and written back when annotations (highlight
// colors, labels) are applied from the result.
//
// # Canonical Edge IDs
//
// Edges are identified by a canonical id derived from their endpoints and the
// active [Mode]:
//
//	graph.EdgeID(graph.Directed, "B", "A")   // "B-A"
//	graph.EdgeID(graph.Undirected, "B", "A") // "A-B"
//
// The mode is always passed explicitly. Switching modes does not rewrite the
// ids of edges that already exist.
//
// # Invariants
//
// The store enforces the model invariants on every mutation:
//
//   - node ids are non-empty and unique
//   - edge ids are unique
//   - edge weights are finite and strictly positive
//   - both endpoints exist when an edge is added
//   - removing a node removes every edge incident to it
//
// A mutation that would break an invariant returns one of the sentinel errors
// below and leaves the store unchanged. Callers are still expected to check
// uniqueness themselves before calling AddNode/AddEdge so they can report a
// friendly message.
//
// # Concurrency
//
// All methods are safe for concurrent use. Each call is atomic; sequences of
// calls are not.
package graph
