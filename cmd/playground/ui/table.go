package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static rows for the headless commands.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string

	// RightAlign marks columns, by index, whose cells are right aligned.
	RightAlign map[int]bool
}

// NewTable creates an empty table.
func NewTable(title string, headers ...string) *Table {
	return &Table{
		Title:      title,
		Headers:    headers,
		RightAlign: make(map[int]bool),
	}
}

// AddRow appends a row. Cells beyond the header count are ignored when
// rendering.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// View renders the table, or "" when it has no rows.
func (t *Table) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	sep := styles.Muted.UnsetItalic().Render(" │ ")
	line := func(cells []string, style lipgloss.Style) {
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			s := style.Width(widths[i])
			if t.RightAlign[i] {
				s = s.Align(lipgloss.Right)
			}
			if i > 0 {
				sb.WriteString(sep)
			}
			sb.WriteString(s.Render(cell))
		}
		sb.WriteString("\n")
	}

	line(t.Headers, styles.Bold)

	total := len(widths)*3 - 3
	for _, w := range widths {
		total += w
	}
	sb.WriteString(styles.Muted.UnsetItalic().Render(strings.Repeat("─", total)))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		line(row, styles.Body)
	}
	return sb.String()
}
