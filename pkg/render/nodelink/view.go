package nodelink

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/matzehuels/graphlab/pkg/graph"
)

// Format is a render output format.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
)

// ParseFormat accepts "dot" or "svg", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatDOT, FormatSVG:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want dot or svg)", s)
	}
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "text/vnd.graphviz; charset=utf-8"
}

// View renders one store. It caches the last SVG and reuses it while the
// DOT source is unchanged and no Fit was requested.
type View struct {
	store *graph.Store

	mu      sync.Mutex
	stale   bool
	lastDOT string
	lastSVG []byte
	fits    int
}

// NewView creates a view over store.
func NewView(store *graph.Store) *View {
	return &View{store: store, stale: true}
}

// Fit drops the cached layout so the next render lays the graph out again.
func (v *View) Fit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stale = true
	v.fits++
}

// Fits returns how many times Fit was called.
func (v *View) Fits() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fits
}

// DOT returns the DOT source for the current store contents.
func (v *View) DOT(mode graph.Mode) string {
	return ToDOT(v.store.Snapshot(), Options{Mode: mode})
}

// Render produces the current graph in format.
func (v *View) Render(ctx context.Context, format Format, mode graph.Mode) ([]byte, error) {
	dot := v.DOT(mode)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	v.mu.Lock()
	if !v.stale && dot == v.lastDOT {
		svg := v.lastSVG
		v.mu.Unlock()
		return svg, nil
	}
	v.mu.Unlock()

	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.stale, v.lastDOT, v.lastSVG = false, dot, svg
	v.mu.Unlock()
	return svg, nil
}
