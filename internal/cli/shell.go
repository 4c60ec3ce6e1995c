package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphlab/pkg/algo"
	"github.com/matzehuels/graphlab/pkg/coordinator"
	"github.com/matzehuels/graphlab/pkg/edit"
	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	pkgio "github.com/matzehuels/graphlab/pkg/io"
	"github.com/matzehuels/graphlab/pkg/session"
)

const shellHelp = `commands:
  node <label>               add a node
  edge <from> <to> [weight]  add an edge (asks for the weight if omitted)
  weight <edge> [weight]     change an edge weight
  del <id>                   delete a node (and its edges) or an edge
  text <edges...>            replace the graph, edges separated by ';'
  import <file>              replace the graph with an edge-list file
  algo [mst|shortest|dromd]  show or switch the algorithm
  run [start end]            run the algorithm in the background
  cancel                     cancel the running request
  wait                       wait for background runs to finish
  status                     show the status line
  show                       list nodes and edges
  reset [colors]             clear the graph, or only the highlighting
  quit                       leave`

// editCommand creates the interactive editing shell.
func (c *CLI) editCommand() *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a graph interactively and run algorithms on it",
		Long: `Edit opens a line-oriented shell over one graph. Runs happen in the
background so a slow request can be cancelled from the prompt.

` + shellHelp,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			prompter := edit.NewLinePrompter(c.In, c.Out)
			sh := newShell(ctx, c.Out, prompter)
			scfg := c.sessionConfig(cfg, prompter)
			scfg.Sink = statusLogger{logger: loggerFromContext(ctx)}
			sh.sess = session.New(scfg)

			if algorithm != "" {
				if err := sh.sess.SelectAlgorithm(algo.Kind(algorithm)); err != nil {
					return err
				}
			}
			if len(args) == 1 {
				sh.exec("import " + args[0])
			}
			return sh.loop()
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "initial algorithm: mst, shortest, dromd")
	return cmd
}

// shell reads commands from the prompter's scanner and applies them to one
// session. Output from background runs shares the same writer.
type shell struct {
	ctx      context.Context
	out      *lockedWriter
	prompter *edit.LinePrompter
	sess     *session.Session

	// runCtx scopes background runs to the shell's lifetime.
	runCtx     context.Context
	cancelRuns context.CancelFunc
	runs       sync.WaitGroup
}

func newShell(ctx context.Context, w io.Writer, p *edit.LinePrompter) *shell {
	lw := &lockedWriter{w: w}
	p.Out = lw
	runCtx, cancel := context.WithCancel(ctx)
	return &shell{ctx: ctx, out: lw, prompter: p, runCtx: runCtx, cancelRuns: cancel}
}

// loop runs until quit, EOF or context cancellation. Leaving the shell
// cancels outstanding runs and waits for them to settle.
func (s *shell) loop() error {
	defer func() {
		s.cancelRuns()
		s.runs.Wait()
	}()
	for {
		fmt.Fprint(s.out, StyleHighlight.Render(string(s.sess.Algorithm()))+"> ")
		if !s.prompter.In.Scan() {
			fmt.Fprintln(s.out)
			return s.prompter.In.Err()
		}
		if s.ctx.Err() != nil {
			s.sess.Cancel()
			return s.ctx.Err()
		}
		if !s.exec(s.prompter.In.Text()) {
			return nil
		}
	}
}

// exec runs one command line and reports whether the shell should continue.
func (s *shell) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "node":
		err = s.addNode(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd)))
	case "edge":
		err = s.addEdge(args)
	case "weight":
		err = s.editWeight(args)
	case "del", "rm":
		err = s.delete(args)
	case "text":
		err = s.importText(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd)))
	case "import":
		err = s.importFile(args)
	case "algo":
		err = s.algo(args)
	case "run":
		err = s.run(args)
	case "cancel":
		if !s.sess.Cancel() {
			printInfo(s.out, "nothing to cancel")
		}
	case "wait":
		s.runs.Wait()
	case "status":
		printInfo(s.out, "%s", s.sess.Status())
	case "show":
		printStats(s.out, s.sess.Store.NodeCount(), s.sess.Store.EdgeCount(), s.sess.Mode())
		printGraph(s.out, s.sess.Store.Snapshot())
	case "reset":
		if len(args) > 0 && args[0] == "colors" {
			s.sess.ResetColors()
			printSuccess(s.out, "highlighting cleared")
		} else {
			s.sess.ResetGraph()
			printSuccess(s.out, "graph cleared")
		}
	default:
		err = gerrors.New(gerrors.ErrCodeInvalidInput, "unknown command %q (try help)", cmd)
	}
	if err != nil {
		printError(s.out, "%s", err)
	}
	return true
}

func (s *shell) addNode(label string) error {
	n, err := s.sess.AddNode(label)
	if err != nil {
		return err
	}
	printSuccess(s.out, "added node %s", n.ID)
	return nil
}

func (s *shell) addEdge(args []string) error {
	if len(args) < 2 {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "usage: edge <from> <to> [weight]")
	}
	var p edit.Prompter
	if len(args) > 2 {
		p = edit.StaticPrompter(args[2])
	}
	e, err := s.sess.AddEdge(args[0], args[1], p)
	if err != nil {
		return err
	}
	if e == nil {
		printInfo(s.out, "edge not added")
		return nil
	}
	printSuccess(s.out, "added edge %s (%s)", e.ID, e.Label)
	return nil
}

func (s *shell) editWeight(args []string) error {
	if len(args) < 1 {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "usage: weight <edge> [weight]")
	}
	var p edit.Prompter
	if len(args) > 1 {
		p = edit.StaticPrompter(args[1])
	}
	changed, err := s.sess.EditEdgeWeight(args[0], p)
	if err != nil {
		return err
	}
	if !changed {
		printInfo(s.out, "weight unchanged")
		return nil
	}
	e, _ := s.sess.Store.Edge(args[0])
	printSuccess(s.out, "edge %s weight %s", e.ID, e.Label)
	return nil
}

func (s *shell) delete(args []string) error {
	if len(args) != 1 {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "usage: del <id>")
	}
	id := args[0]
	if s.sess.Store.HasNode(id) {
		if err := s.sess.DeleteNode(id); err != nil {
			return err
		}
		printSuccess(s.out, "deleted node %s", id)
		return nil
	}
	if err := s.sess.DeleteEdge(id); err != nil {
		return err
	}
	printSuccess(s.out, "deleted edge %s", id)
	return nil
}

// importText loads ';'-separated edges typed at the prompt.
func (s *shell) importText(text string) error {
	el, err := s.sess.ImportText(s.ctx, strings.ReplaceAll(text, ";", "\n"))
	if err != nil {
		return err
	}
	if el == nil {
		printInfo(s.out, "nothing to import")
		return nil
	}
	printSuccess(s.out, "loaded %d nodes, %d edges", len(el.Nodes), len(el.Edges))
	return nil
}

func (s *shell) importFile(args []string) error {
	if len(args) != 1 {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "usage: import <file>")
	}
	content, err := pkgio.ReadFile(args[0])
	if err != nil {
		return err
	}
	el, err := s.sess.ImportFile(s.ctx, content)
	if err != nil {
		return err
	}
	printSuccess(s.out, "loaded %d nodes, %d edges", len(el.Nodes), len(el.Edges))
	return nil
}

func (s *shell) algo(args []string) error {
	if len(args) == 0 {
		k := s.sess.Algorithm()
		printKeyValue(s.out, k.Title(), k.Description())
		return nil
	}
	if err := s.sess.SelectAlgorithm(algo.Kind(args[0])); err != nil {
		return err
	}
	printSuccess(s.out, "algorithm %s (%s edges)", s.sess.Algorithm(), s.sess.Mode())
	return nil
}

// run starts the algorithm in the background. A run started while another
// is outstanding supersedes it.
func (s *shell) run(args []string) error {
	opts := session.RunOptions{}
	switch len(args) {
	case 0:
	case 2:
		opts.Start, opts.End = args[0], args[1]
	default:
		return gerrors.New(gerrors.ErrCodeInvalidInput, "usage: run [start end]")
	}

	printInfo(s.out, "%s", coordinator.MessageRunning)
	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		printOutcome(s.out, s.sess.Run(s.runCtx, opts))
	}()
	return nil
}

// lockedWriter serializes writes from the prompt and background runs.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
