package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphlab/pkg/coordinator"
	"github.com/matzehuels/graphlab/pkg/graph"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings, path nodes
	colorRed    = lipgloss.Color("167") // Soft red - errors, tree edges
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleMarked = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconMarked  = "●"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints graph size on a single line.
func printStats(w io.Writer, nodes, edges int, mode graph.Mode) {
	parts := []string{
		fmt.Sprintf("%d nodes", nodes),
		fmt.Sprintf("%d edges", edges),
		mode.String(),
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printOutcome reports a settled run.
func printOutcome(w io.Writer, out coordinator.Outcome) {
	switch out.Status {
	case coordinator.StatusSucceeded:
		printSuccess(w, "%s", out.Message)
	case coordinator.StatusCancelled:
		printWarning(w, "%s", out.Message)
	default:
		printError(w, "%s", out.Message)
	}
}

// printGraph lists nodes and edges, marking highlighted ones.
func printGraph(w io.Writer, snap graph.Snapshot) {
	if len(snap.Nodes) == 0 {
		printDetail(w, "(empty graph)")
		return
	}
	for _, n := range snap.Nodes {
		mark := " "
		if n.Style.Background != "" && n.Style.Background != graph.DefaultNodeBackground {
			mark = styleMarked.Render(iconMarked)
		}
		line := fmt.Sprintf("%s %s", mark, StyleValue.Render(n.ID))
		if n.Style.Title != "" {
			line += "  " + StyleDim.Render(n.Style.Title)
		}
		fmt.Fprintln(w, line)
	}
	for _, e := range snap.Edges {
		mark := " "
		if e.Style.Color != "" && e.Style.Color != graph.DefaultEdgeColor {
			mark = styleMarked.Render(iconMarked)
		}
		arrow := "--"
		if e.Arrow {
			arrow = "->"
		}
		fmt.Fprintf(w, "%s %s %s %s  %s\n", mark, e.From, arrow, e.To, StyleHighlight.Render(e.Label))
	}
}
