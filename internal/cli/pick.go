package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/geom"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ViewPickerModel - Interactive view selection
// =============================================================================

// ViewPickerModel is the bubbletea model for choosing the views to export.
// Space toggles the view under the cursor and enter confirms.
type ViewPickerModel struct {
	Views    []geom.View
	Cursor   int
	Checked  map[geom.View]bool
	Done     bool
	Canceled bool
}

// NewViewPickerModel creates a picker over views with the first one
// checked.
func NewViewPickerModel(views []geom.View) ViewPickerModel {
	m := ViewPickerModel{Views: views, Checked: make(map[geom.View]bool)}
	if len(views) > 0 {
		m.Checked[views[0]] = true
	}
	return m
}

func (m ViewPickerModel) Init() tea.Cmd {
	return nil
}

func (m ViewPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Canceled = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Views)-1 {
			m.Cursor++
		}
	case " ", "x":
		v := m.Views[m.Cursor]
		m.Checked[v] = !m.Checked[v]
	case "a":
		all := len(m.Selected()) < len(m.Views)
		for _, v := range m.Views {
			m.Checked[v] = all
		}
	case "enter":
		m.Done = true
		return m, tea.Quit
	}
	return m, nil
}

// Selected returns the checked views in display order.
func (m ViewPickerModel) Selected() []geom.View {
	var out []geom.View
	for _, v := range m.Views {
		if m.Checked[v] {
			out = append(out, v)
		}
	}
	return out
}

func (m ViewPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Views"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ export  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(m.Views))
	for i, v := range m.Views {
		cursor := " "
		if i == m.Cursor {
			cursor = ">"
		}
		box := "[ ]"
		if m.Checked[v] {
			box = "[x]"
		}
		rows = append(rows, []string{cursor, box, string(v), drawing.DrawingTypeName(v), drawing.FileViewName(v)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "View", "Drawing", "File").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.Cursor {
				return listSelectedStyle
			}
			if row < len(m.Views) && m.Checked[m.Views[row]] {
				return listNormalStyle
			}
			return listDimStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", len(m.Selected()), len(m.Views))))
	return b.String()
}

// pickViews runs the picker on the terminal and returns the chosen views.
// Quitting returns no views.
func pickViews() ([]geom.View, error) {
	final, err := tea.NewProgram(NewViewPickerModel(geom.Views)).Run()
	if err != nil {
		return nil, fmt.Errorf("view picker: %w", err)
	}
	m, ok := final.(ViewPickerModel)
	if !ok || m.Canceled || !m.Done {
		return nil, nil
	}
	return m.Selected(), nil
}
