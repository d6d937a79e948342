package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SimpleTable renders static rows (cart lines, the CLI catalog listing).
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  []string

	// NumericCols are right-aligned.
	NumericCols map[int]bool
	// Highlight marks a row index rendered with the focus style; -1 for none.
	Highlight int
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers ...string) *SimpleTable {
	return &SimpleTable{
		Title:       title,
		Headers:     headers,
		Rows:        make([][]string, 0),
		NumericCols: make(map[int]bool),
		Highlight:   -1,
	}
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// AlignRight marks columns as numeric.
func (t *SimpleTable) AlignRight(cols ...int) *SimpleTable {
	for _, c := range cols {
		t.NumericCols[c] = true
	}
	return t
}

func (t *SimpleTable) widths() []int {
	colWidths := make([]int, len(t.Headers))
	measure := func(row []string) {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}
	measure(t.Footer)

	// Padding(0, 1) on each cell is counted by lipgloss Width.
	for i := range colWidths {
		colWidths[i] += 2
	}
	return colWidths
}

// View renders the table using the provided styles.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	colWidths := t.widths()
	sep := styles.Muted.Render("|")

	writeRow := func(row []string, base lipgloss.Style) {
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			st := base.Width(colWidths[i])
			if t.NumericCols[i] {
				st = st.Align(lipgloss.Right)
			}
			sb.WriteString(st.Render(cell))
			if i < len(row)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}

	totalWidth := len(colWidths) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	divider := styles.Muted.Render(strings.Repeat("-", totalWidth)) + "\n"

	writeRow(t.Headers, styles.Bold.Padding(0, 1))
	sb.WriteString(divider)

	body := styles.Body.Padding(0, 1)
	focus := styles.Bold.Foreground(styles.Theme.Primary).Padding(0, 1)
	for i, row := range t.Rows {
		if i == t.Highlight {
			writeRow(row, focus)
			continue
		}
		writeRow(row, body)
	}

	if len(t.Footer) > 0 {
		sb.WriteString(divider)
		writeRow(t.Footer, styles.Bold.Padding(0, 1))
	}

	return sb.String()
}
