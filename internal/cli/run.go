package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphlab/pkg/algo"
	"github.com/matzehuels/graphlab/pkg/coordinator"
	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	pkgio "github.com/matzehuels/graphlab/pkg/io"
	"github.com/matzehuels/graphlab/pkg/session"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	algorithm string
	text      string
	start     string
	end       string
	labeling  algo.LabelingParams
	dot       string // write the annotated graph as DOT ("-" for stdout)
}

// runCommand creates the run command: load a graph, run one algorithm and
// print the annotated result.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run an algorithm on an edge list",
		Long: `Run loads an edge list, sends it to the algorithm service and prints the
highlighted result.

The graph comes from a file (first line is a node/edge count header and is
skipped) or from --text (no header). Use "-" to read the file from stdin.

Press Ctrl-C while the request is outstanding to cancel it.`,
		Example: `  graphlab run graph.txt -a mst
  graphlab run -a shortest --text "A B 2
B C 3" --start A --end C
  graphlab run graph.txt -a dromd --pop-size 50 --generations 200`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runRun(cmd.Context(), file, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", "algorithm: mst, shortest, dromd (prompted on a terminal when omitted)")
	cmd.Flags().StringVar(&opts.text, "text", "", "edge list given inline instead of a file")
	cmd.Flags().StringVar(&opts.start, "start", "", "start node (shortest)")
	cmd.Flags().StringVar(&opts.end, "end", "", "end node (shortest)")
	cmd.Flags().IntVar(&opts.labeling.PopSize, "pop-size", 0, "population size (dromd)")
	cmd.Flags().IntVar(&opts.labeling.Generations, "generations", 0, "number of generations (dromd)")
	cmd.Flags().Float64Var(&opts.labeling.PC, "pc", 0, "crossover probability (dromd)")
	cmd.Flags().Float64Var(&opts.labeling.PM, "pm", 0, "mutation probability (dromd)")
	cmd.Flags().StringVar(&opts.dot, "dot", "", "write the annotated graph as DOT to this file (- for stdout)")

	return cmd
}

func (c *CLI) runRun(ctx context.Context, file string, opts runOpts) error {
	logger := loggerFromContext(ctx)

	if file == "" && opts.text == "" {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "no graph given: pass a file or --text")
	}
	if file != "" && opts.text != "" {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "pass either a file or --text, not both")
	}

	kind, err := c.chooseAlgorithm(opts.algorithm)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	scfg := c.sessionConfig(cfg, nil)
	scfg.Sink = statusLogger{logger: logger}
	sess := session.New(scfg)
	if err := sess.SelectAlgorithm(kind); err != nil {
		return err
	}

	prog := newProgress(logger)
	if err := c.importInto(ctx, sess, file, opts.text); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("loaded %d nodes, %d edges", sess.Store.NodeCount(), sess.Store.EdgeCount()))
	printStats(c.Out, sess.Store.NodeCount(), sess.Store.EdgeCount(), sess.Mode())

	logger.Debug("running", "algorithm", kind, "service", cfg.Service.BaseURL)
	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("%s %s", kind.Title(), coordinator.MessageRunning))
	spin.Start()
	out := sess.Run(ctx, session.RunOptions{Start: opts.start, End: opts.end, Labeling: opts.labeling})
	spin.Stop()

	printOutcome(c.Out, out)
	switch out.Status {
	case coordinator.StatusCancelled:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	case coordinator.StatusFailed, coordinator.StatusInvalid:
		return out.Err
	}

	printGraph(c.Out, sess.Store.Snapshot())
	if opts.dot != "" {
		return writeDOT(c.Out, opts.dot, sess.View.DOT(sess.Mode()))
	}
	return nil
}

// chooseAlgorithm parses name, or asks on a terminal when it is empty.
// Without a terminal the default algorithm is used.
func (c *CLI) chooseAlgorithm(name string) (algo.Kind, error) {
	if name != "" {
		return algo.ParseKind(name)
	}
	if !isTerminal(c.In) {
		return session.DefaultAlgorithm, nil
	}
	kind, ok, err := pickAlgorithm(c.In, c.Out, session.DefaultAlgorithm)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", context.Canceled
	}
	return kind, nil
}

// importInto loads the graph from file ("-" is stdin) or from text.
func (c *CLI) importInto(ctx context.Context, sess *session.Session, file, text string) error {
	if text != "" {
		el, err := sess.ImportText(ctx, text)
		if err != nil {
			return err
		}
		if el == nil {
			return gerrors.New(gerrors.ErrCodeInvalidInput, "--text is blank")
		}
		return nil
	}

	var content string
	if file == "-" {
		data, err := io.ReadAll(c.In)
		if err != nil {
			return gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "read stdin")
		}
		content = string(data)
	} else {
		var err error
		if content, err = pkgio.ReadFile(file); err != nil {
			return err
		}
	}
	_, err := sess.ImportFile(ctx, content)
	return err
}

// writeDOT writes dot to path, or to w when path is "-".
func writeDOT(w io.Writer, path, dot string) error {
	if path == "-" {
		_, err := io.WriteString(w, dot)
		return err
	}
	if err := os.WriteFile(path, []byte(dot), 0o644); err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInternal, err, "write %s", path)
	}
	printFile(w, path)
	return nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
