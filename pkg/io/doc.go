// Package io turns raw edge-list text into a validated graph and exports
// graph snapshots as JSON.
//
// # Edge-List Format
//
// One edge per line, whitespace separated:
//
//	% comment
//	# another comment
//	4 5          <- optional header (node and edge counts), file input only
//	A B 2
//	B C 3.5
//	C D          <- weight defaults to 1
//
// Blank lines and lines starting with '%' or '#' are ignored. Lines with fewer
// than two tokens are ignored. The weight, when present, must be a finite
// number greater than zero.
//
// # Import
//
// [ParseEdgeList] is pure: it returns an [EdgeList] or an error and touches no
// state. [Normalizer] applies a parse to a [graph.Store]:
//
//	n := &io.Normalizer{Store: store, View: view}
//	if _, err := n.Load(ctx, text, io.Options{Mode: graph.Undirected}); err != nil {
//	    // store is now empty
//	}
//
// Failure is all-or-nothing. A single bad weight aborts the whole parse, and
// because the store is cleared up front, whatever graph was loaded before is
// discarded too.
//
// # Canonical IDs
//
// Edge ids follow [graph.EdgeID] for the mode in [Options]. Repeating an edge
// overwrites its weight (last line wins). In directed mode an edge whose
// reverse is also present is marked Curved so the renderer can separate the
// two.
//
// # Export
//
// Use [WriteJSON] to write a snapshot to any io.Writer. The document records the mode so edge ids can be interpreted.
package io
