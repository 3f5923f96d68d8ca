// Package formatter renders run summaries as aligned markdown tables.
package formatter

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const minColumnWidth = 3

// Table is a markdown table whose columns are padded to their display width,
// so dealership names in wide scripts still line up in a terminal.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: trimCells(headers)}
}

// AddRow appends a row. Missing cells render empty and extra cells are dropped.
func (t *Table) AddRow(cells ...string) *Table {
	t.rows = append(t.rows, trimCells(cells))
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table, one line per row including the separator.
func (t *Table) String() string {
	widths := t.widths()

	lines := make([]string, 0, len(t.rows)+2)
	lines = append(lines, t.line(t.headers, widths, false))
	lines = append(lines, t.line(nil, widths, true))

	for _, row := range t.rows {
		lines = append(lines, t.line(row, widths, false))
	}

	return strings.Join(lines, "\n") + "\n"
}

// WriteTo writes the rendered table to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.String())
	return int64(n), err
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.headers))

	for _, row := range append([][]string{t.headers}, t.rows...) {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for i := range widths {
		if widths[i] < minColumnWidth {
			widths[i] = minColumnWidth
		}
	}

	return widths
}

func (t *Table) line(row []string, widths []int, separator bool) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range widths {
		sb.WriteString(" ")

		if separator {
			sb.WriteString(strings.Repeat("-", width))
		} else {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(content)

			if padding := width - runewidth.StringWidth(content); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

func trimCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(strings.ReplaceAll(c, "|", "/"))
	}

	return out
}
