// Package render holds the graph renderers.
//
// The [nodelink] subpackage draws the annotated graph as a node-link diagram
// using Graphviz, carrying the highlight styles written by algorithm runs.
//
// [nodelink]: github.com/matzehuels/graphlab/pkg/render/nodelink
package render
