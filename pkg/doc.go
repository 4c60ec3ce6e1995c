// Package pkg provides the core libraries of graphlab.
//
// # Overview
//
// graphlab keeps a weighted graph consistent while a user edits it and while
// an external service computes a minimum spanning tree, a shortest path or a
// DROMD labeling on it. The pkg directory is organized as:
//
//  1. [graph] - the node/edge store and edge-id rules
//  2. [io] - edge-list parsing and JSON export
//  3. [edit] - interactive node and edge editing with weight prompts
//  4. [algo] - the algorithm kinds and the service client
//  5. [coordinator] - one in-flight run at a time, result highlighting
//  6. [session] - everything one user works with, plus an in-memory registry
//  7. [render/nodelink] - DOT and SVG output via Graphviz
//
// Supporting packages: [errors] (coded errors and validators), [httputil]
// (JSON API plumbing), [observability] (hooks) and [buildinfo].
//
// # Data Flow
//
//	edge-list text ──▶ io.Normalizer ──▶ graph.Store ◀── edit.Session
//	                                         │
//	                     coordinator.Run ◀───┘
//	                          │  algo.Client (HTTP)
//	                          ▼
//	                 styles + status line ──▶ render/nodelink
//
// # Quick Start
//
//	sess := session.New(session.Config{
//	    Runner: algo.NewClient("http://127.0.0.1:5000", algo.DefaultEndpoints()),
//	})
//	if _, err := sess.ImportText(ctx, "A B 2\nB C 3\nA C 5"); err != nil {
//	    return err
//	}
//	out := sess.Run(ctx, session.RunOptions{})
//	fmt.Println(out.Message) // MST total weight: 5
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphlab/pkg/graph
// [io]: https://pkg.go.dev/github.com/matzehuels/graphlab/pkg/io
// [edit]: https://pkg.go.dev/github.com/matzehuels/graphlab/pkg/edit
// [algo]: https://pkg.go.dev/github.com/matzehuels/graphlab/pkg/algo
// [coordinator]: https://pkg.go.dev/github.com/matzehuels/graphlab/pkg/coordinator
// [session]: https://pkg.go.dev/github.com/matzehuels/graphlab/pkg/session
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/graphlab/pkg/render/nodelink
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphlab/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/graphlab/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphlab/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/graphlab/pkg/buildinfo
package pkg
