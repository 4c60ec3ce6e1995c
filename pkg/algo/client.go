package algo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	"github.com/matzehuels/graphlab/pkg/observability"
)

// DefaultBaseURL is where the service listens when run locally.
const DefaultBaseURL = "http://127.0.0.1:5000"

// Endpoints maps each kind to its path under the base URL.
type Endpoints struct {
	MST          string `toml:"mst_path"`
	ShortestPath string `toml:"shortest_path"`
	Labeling     string `toml:"labeling_path"`
}

// DefaultEndpoints returns the paths served by the reference service.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		MST:          "/api/mst",
		ShortestPath: "/api/shortest-path",
		Labeling:     "/api/dromd",
	}
}

// Path returns the endpoint path for kind. Empty entries fall back to the
// defaults.
func (e Endpoints) Path(kind Kind) (string, error) {
	def := DefaultEndpoints()
	pick := func(p, fallback string) string {
		if p == "" {
			return fallback
		}
		return p
	}
	switch kind {
	case MST:
		return pick(e.MST, def.MST), nil
	case ShortestPath:
		return pick(e.ShortestPath, def.ShortestPath), nil
	case Labeling:
		return pick(e.Labeling, def.Labeling), nil
	default:
		return "", gerrors.New(gerrors.ErrCodeUnsupported, "no endpoint for algorithm %q", kind)
	}
}

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}

// ServerError carries the message of an "error" field in a 2xx body.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "service reported: " + e.Message
}

// Runner executes one algorithm request. [*Client] is the production
// implementation; tests substitute their own.
type Runner interface {
	Run(ctx context.Context, kind Kind, req Request) (*Response, error)
}

// Client posts requests to the algorithm service.
type Client struct {
	http      *http.Client
	baseURL   string
	endpoints Endpoints
	headers   map[string]string
}

// NewClient creates a Client for the service at baseURL.
// The underlying http.Client has no timeout: a call ends when the service
// answers or the caller's context is cancelled.
func NewClient(baseURL string, endpoints Endpoints) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:      &http.Client{},
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
	}
}

// BaseURL returns the service root the client posts to.
func (c *Client) BaseURL() string { return c.baseURL }

// URL returns the full endpoint URL for kind.
func (c *Client) URL(kind Kind) (string, error) {
	path, err := c.endpoints.Path(kind)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path, nil
}

// Run posts req to the endpoint for kind and decodes the answer.
func (c *Client) Run(ctx context.Context, kind Kind, req Request) (*Response, error) {
	endpoint, err := c.URL(kind)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInternal, err, "encode %s request", kind)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "invalid service URL %s", endpoint)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	host, path := hostPath(endpoint)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodPost, host, path)
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		hooks.OnError(ctx, http.MethodPost, host, path, err)
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodPost, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, transportError(ctx, err)
	}
	if out.Error != "" {
		return nil, gerrors.Wrap(gerrors.ErrCodeService, &ServerError{Message: out.Error}, "%s failed", kind)
	}
	return &out, nil
}

func checkStatus(code int) error {
	if code >= 200 && code < 300 {
		return nil
	}
	return gerrors.Wrap(gerrors.ErrCodeService, &StatusError{StatusCode: code}, "server error: %d", code)
}

// transportError classifies a failed round trip. A cancelled context is
// returned as is so callers can tell it apart from a failure.
func transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	return gerrors.Wrap(gerrors.ErrCodeNetwork, err, "request failed")
}

func hostPath(raw string) (string, string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.Path
}
