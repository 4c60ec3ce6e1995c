package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphlab/pkg/algo"
	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	"github.com/matzehuels/graphlab/pkg/graph"
	pkgio "github.com/matzehuels/graphlab/pkg/io"
	"github.com/matzehuels/graphlab/pkg/render/nodelink"
	"github.com/matzehuels/graphlab/pkg/session"
)

const formatJSON = "json"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string // output file path; empty derives it from the input, "-" is stdout
	format      string // dot, svg or json
	algorithm   string // decides the edge-id mode
	text        string // inline edge list instead of a file
	hideWeights bool   // omit edge labels
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"dot": true, "svg": true, formatJSON: true}

// renderCommand creates the render command for drawing an edge list without
// contacting the algorithm service.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: "svg", algorithm: string(session.DefaultAlgorithm)}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render an edge list as DOT, SVG or JSON",
		Long: `Render draws an edge list with Graphviz. The algorithm only decides whether
edges are directed (shortest) or undirected (mst, dromd).`,
		Example: `  graphlab render graph.txt
  graphlab render graph.txt -a shortest -f dot -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.format = strings.ToLower(opts.format)
			if !validFormats[opts.format] {
				return gerrors.New(gerrors.ErrCodeInvalidInput, "invalid format: %s (must be 'dot', 'svg' or 'json')", opts.format)
			}
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runRender(cmd.Context(), file, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the format extension, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot, json")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", opts.algorithm, "algorithm whose edge mode to use: mst, shortest, dromd")
	cmd.Flags().StringVar(&opts.text, "text", "", "edge list given inline instead of a file")
	cmd.Flags().BoolVar(&opts.hideWeights, "hide-weights", false, "do not label edges with their weights")

	return cmd
}

// runRender loads the graph and writes it in the requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	if input == "" && opts.text == "" {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "no graph given: pass a file or --text")
	}
	kind, err := algo.ParseKind(opts.algorithm)
	if err != nil {
		return err
	}

	sess := session.New(session.Config{Logger: logger})
	if err := sess.SelectAlgorithm(kind); err != nil {
		return err
	}
	if err := c.importInto(ctx, sess, input, opts.text); err != nil {
		return err
	}
	logger.Infof("Loaded graph: %d nodes, %d edges", sess.Store.NodeCount(), sess.Store.EdgeCount())

	data, err := renderGraph(ctx, sess.Store.Snapshot(), sess.Mode(), opts)
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", opts.format, len(data))

	path := opts.output
	if path == "" {
		path = outputPath(input, opts.format)
	}
	out, err := openOutput(c.Out, path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if path != "-" {
		logger.Infof("Generated %s", path)
	}
	return nil
}

// renderGraph produces snap in opts.format.
func renderGraph(ctx context.Context, snap graph.Snapshot, mode graph.Mode, opts renderOpts) ([]byte, error) {
	if opts.format == formatJSON {
		var b strings.Builder
		if err := pkgio.WriteJSON(snap, mode, &b); err != nil {
			return nil, err
		}
		return []byte(b.String()), nil
	}

	dot := nodelink.ToDOT(snap, nodelink.Options{Mode: mode, HideWeights: opts.hideWeights})
	format, err := nodelink.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	if format == nodelink.FormatDOT {
		return []byte(dot), nil
	}
	return nodelink.RenderSVG(ctx, dot)
}

// outputPath derives the output file from the input path. Inline text and
// stdin go to stdout.
func outputPath(input, format string) string {
	if input == "" || input == "-" {
		return "-"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

// openOutput opens path for writing, or wraps w when path is "-".
func openOutput(w io.Writer, path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{w}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
