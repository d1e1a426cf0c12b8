package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// column is one table column. A zero width takes the remaining space.
type column struct {
	title string
	width int
}

// layoutColumns resolves the flexible column against the available width.
func layoutColumns(cols []column, width int) []column {
	out := make([]column, len(cols))
	copy(out, cols)
	fixed := 0
	flex := -1
	for i, c := range out {
		if c.width == 0 && flex < 0 {
			flex = i
			continue
		}
		fixed += c.width + 1
	}
	if flex >= 0 {
		out[flex].width = max(width-fixed-1, 8)
	}
	return out
}

// renderTable draws a header row and the given cells, highlighting selected.
func (m Model) renderTable(cols []column, rows [][]string, selected, width int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	cols = layoutColumns(cols, width)

	var b strings.Builder

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = bg.Render(padRight(truncate(c.title, c.width), c.width), styles.MutedText.Bold(true))
	}
	b.WriteString(bg.FillLine(strings.Join(header, bg.Space()), width))
	b.WriteString("\n")
	b.WriteString(bg.FillLine(bg.Render(strings.Repeat("─", max(width, 1)), styles.FaintText), width))

	selStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SelectionBg)).
		Foreground(lipgloss.Color(m.theme.SelectionText))

	for r, row := range rows {
		b.WriteString("\n")
		cells := make([]string, len(cols))
		for i, c := range cols {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			cells[i] = padRight(truncate(singleLine(value), c.width), c.width)
		}
		line := strings.Join(cells, " ")
		if r == selected {
			b.WriteString(selStyle.Width(width).Render(line))
			continue
		}
		b.WriteString(bg.FillLine(bg.Render(line, styles.Text), width))
	}

	return b.String()
}

// renderBox frames content with a rounded border and a title line.
func (m Model) renderBox(title, content string, width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	inner := max(width-2, 1)

	body := styles.AccentText.Bold(true).Render(title) + "\n" + content
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Background(lipgloss.Color(m.theme.Surface)).
		Width(inner).
		Height(max(height-2, 1)).
		Render(body)
}

// clampSelection keeps a row index inside [0, n).
func clampSelection(selected, n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(selected, 0), n-1)
}

// moveSelection applies the shared navigation keys to a row index.
func (m Model) moveSelection(msg tea.KeyMsg, selected, n int) (int, bool) {
	switch {
	case key.Matches(msg, m.keys.Up):
		return clampSelection(selected-1, n), true
	case key.Matches(msg, m.keys.Down):
		return clampSelection(selected+1, n), true
	case key.Matches(msg, m.keys.Top):
		return 0, true
	case key.Matches(msg, m.keys.Bottom):
		return clampSelection(n-1, n), true
	}
	return selected, false
}
