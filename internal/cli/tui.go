package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/graphlab/pkg/algo"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// AlgorithmListModel is the bubbletea model for interactive algorithm selection.
type AlgorithmListModel struct {
	Kinds    []algo.Kind
	Cursor   int
	Selected *algo.Kind
}

// NewAlgorithmListModel creates a picker over every supported algorithm,
// with the cursor on current.
func NewAlgorithmListModel(current algo.Kind) AlgorithmListModel {
	m := AlgorithmListModel{Kinds: algo.Kinds()}
	for i, k := range m.Kinds {
		if k == current {
			m.Cursor = i
		}
	}
	return m
}

func (m AlgorithmListModel) Init() tea.Cmd {
	return nil
}

func (m AlgorithmListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Kinds)-1 {
				m.Cursor++
			}
		case "enter":
			k := m.Kinds[m.Cursor]
			m.Selected = &k
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m AlgorithmListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Algorithm"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Kinds))
	for i, k := range m.Kinds {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, k.Title(), k.Mode().String(), k.Description()}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Algorithm", "Edges", "Notes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == m.Cursor && col != 3:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Kinds))))
	return b.String()
}

// pickAlgorithm runs the picker on the terminal. ok is false when the user
// quit without choosing.
func pickAlgorithm(in io.Reader, out io.Writer, current algo.Kind) (algo.Kind, bool, error) {
	p := tea.NewProgram(NewAlgorithmListModel(current), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", false, err
	}
	m, _ := final.(AlgorithmListModel)
	if m.Selected == nil {
		return "", false, nil
	}
	return *m.Selected, true, nil
}
