package coordinator

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphlab/pkg/algo"
	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	"github.com/matzehuels/graphlab/pkg/graph"
	"github.com/matzehuels/graphlab/pkg/observability"
)

// Status lines written to the sink outside of a result message.
const (
	MessageIdle      = "..."
	MessageRunning   = "running…"
	MessageCancelled = "cancelled"
)

// Status is how a run settled.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
	// StatusInvalid means the parameters were rejected before any request
	// was sent.
	StatusInvalid Status = "invalid"
)

// Sink receives the one-line status shown to the user.
// It is called with the coordinator's lock held and must not call back into
// the coordinator.
type Sink interface {
	SetStatus(message string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(message string)

// SetStatus calls f.
func (f SinkFunc) SetStatus(message string) { f(message) }

// Params selects the algorithm and its kind-specific inputs.
type Params struct {
	Kind     algo.Kind
	Start    string // shortest path only
	End      string // shortest path only
	Labeling algo.LabelingParams
}

// Outcome describes a settled run.
type Outcome struct {
	Kind    algo.Kind      `json:"kind"`
	Status  Status         `json:"status"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Result  *algo.Response `json:"result,omitempty"`
}

// Coordinator serializes algorithm runs over one store.
type Coordinator struct {
	Store  *graph.Store
	Runner algo.Runner
	Sink   Sink        // optional
	Logger *log.Logger // optional

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	status string
}

// New creates a coordinator. sink and logger may be nil.
func New(store *graph.Store, runner algo.Runner, sink Sink, logger *log.Logger) *Coordinator {
	return &Coordinator{Store: store, Runner: runner, Sink: sink, Logger: logger, status: MessageIdle}
}

// Run resets the graph styling, sends the request for p.Kind and applies the
// result. It blocks until the request settles.
//
// A shortest-path run without both endpoints is rejected with StatusInvalid;
// no request is sent and a run already in flight is left alone.
func (c *Coordinator) Run(ctx context.Context, p Params) Outcome {
	logger := c.logger()
	req, verr := c.buildRequest(p)

	c.mu.Lock()
	c.Store.ResetStyles()
	c.setStatus(MessageIdle)
	if verr != nil {
		c.mu.Unlock()
		logger.Warn("run rejected", "kind", p.Kind, "error", verr)
		return Outcome{Kind: p.Kind, Status: StatusInvalid, Message: gerrors.UserMessage(verr), Err: verr}
	}
	if c.cancel != nil {
		logger.Debug("superseding in-flight run", "kind", p.Kind)
		c.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.gen++
	gen := c.gen
	c.cancel = cancel
	c.setStatus(MessageRunning)
	c.mu.Unlock()
	defer cancel()

	logger.Info("run started", "kind", p.Kind, "edges", len(req.Graph.Edges))
	observability.Runs().OnRunStart(ctx, string(p.Kind), len(req.Graph.Edges))
	start := time.Now()

	resp, err := c.Runner.Run(runCtx, p.Kind, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.gen == gen
	if current {
		c.cancel = nil
	}

	var out Outcome
	switch {
	case runCtx.Err() != nil || errors.Is(err, context.Canceled):
		out = Outcome{Kind: p.Kind, Status: StatusCancelled, Message: MessageCancelled, Err: context.Canceled}
	case err != nil:
		out = Outcome{Kind: p.Kind, Status: StatusFailed, Message: failureMessage(err), Err: err}
	default:
		out = Outcome{Kind: p.Kind, Status: StatusSucceeded, Message: c.apply(p, resp), Result: resp}
	}

	// A superseded run settles silently; the run that replaced it owns the
	// status line.
	if current {
		c.setStatus(out.Message)
	}

	duration := time.Since(start)
	logger.Info("run settled", "kind", p.Kind, "status", out.Status, "current", current, "elapsed", duration.Round(time.Millisecond))
	if out.Status == StatusFailed {
		logger.Warn("run failed", "kind", p.Kind, "error", err)
	}
	observability.Runs().OnRunComplete(ctx, string(p.Kind), string(out.Status), duration, out.Err)
	return out
}

// Cancel aborts the outstanding run, if any, and reports whether there was one.
// The run itself settles as StatusCancelled.
func (c *Coordinator) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return false
	}
	c.cancel()
	c.cancel = nil
	c.logger().Info("run cancelled")
	return true
}

// Busy reports whether a run is outstanding.
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Status returns the last status line.
func (c *Coordinator) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// SetStatus overwrites the status line, as a graph reset does.
func (c *Coordinator) SetStatus(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setStatus(message)
}

func (c *Coordinator) setStatus(message string) {
	c.status = message
	if c.Sink != nil {
		c.Sink.SetStatus(message)
	}
}

func (c *Coordinator) buildRequest(p Params) (algo.Request, error) {
	req := algo.NewRequest(c.Store.Snapshot())
	switch p.Kind {
	case algo.MST:
	case algo.ShortestPath:
		start, end := strings.TrimSpace(p.Start), strings.TrimSpace(p.End)
		if start == "" || end == "" {
			return req, gerrors.New(gerrors.ErrCodeInvalidInput, "start and end node are required")
		}
		req.StartNode, req.EndNode = start, end
	case algo.Labeling:
		req.LabelingParams = p.Labeling
	default:
		return req, gerrors.New(gerrors.ErrCodeUnsupported, "unknown algorithm %q", p.Kind)
	}
	return req, nil
}

func (c *Coordinator) logger() *log.Logger {
	if c.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return c.Logger
}

// failureMessage renders a failed run for the status line.
func failureMessage(err error) string {
	var se *algo.ServerError
	if errors.As(err, &se) {
		return "error from service: " + se.Message
	}
	var st *algo.StatusError
	if errors.As(err, &st) {
		return "error: " + st.Error()
	}
	var ge *gerrors.Error
	if errors.As(err, &ge) && ge.Cause != nil {
		return "error: " + ge.Message + ": " + ge.Cause.Error()
	}
	return "error: " + gerrors.UserMessage(err)
}
