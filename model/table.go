package model

import (
	"strings"
	"unicode/utf8"
)

// Table is a dense grid of cells. Every row has ColCount cells; cells with
// no text hold an empty string.
type Table struct {
	Rows [][]Cell
}

// Cell is a single table cell with its grid position
type Cell struct {
	Text string
	BBox Rect
	Row  int
	Col  int
}

// NewTable creates a table of empty cells
func NewTable(rows, cols int) *Table {
	t := &Table{Rows: make([][]Cell, rows)}
	for i := range t.Rows {
		t.Rows[i] = make([]Cell, cols)
		for j := range t.Rows[i] {
			t.Rows[i][j] = Cell{Row: i, Col: j}
		}
	}
	return t
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns
func (t *Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// GetCell returns the cell at (row, col) or nil when out of range
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// ToCSV writes one record per row terminated by "\n". A field is quoted
// when it contains a comma, a double quote or a line break; embedded quotes
// are doubled.
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			text := cell.Text
			if strings.ContainsAny(text, ",\"\n\r") {
				text = `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
			}
			sb.WriteString(text)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ToText lays the table out in space-padded columns separated by two
// spaces. Trailing spaces are trimmed from each row.
func (t *Table) ToText() string {
	widths := make([]int, t.ColCount())
	for _, row := range t.Rows {
		for j, cell := range row {
			widths[j] = max(widths[j], utf8.RuneCountInString(flatten(cell.Text)))
		}
	}

	var sb strings.Builder
	for _, row := range t.Rows {
		var line strings.Builder
		for j, cell := range row {
			if j > 0 {
				line.WriteString("  ")
			}
			text := flatten(cell.Text)
			line.WriteString(text)
			line.WriteString(strings.Repeat(" ", widths[j]-utf8.RuneCountInString(text)))
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ToMarkdown converts the table to a pipe table. The first row becomes the
// header; '|' inside cells is escaped.
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 || t.ColCount() == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for _, c := range cells {
			sb.WriteString(" ")
			sb.WriteString(c)
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.ReplaceAll(flatten(cell.Text), "|", `\|`)
		}
		writeRow(cells)
		if i == 0 {
			sep := make([]string, len(row))
			for j := range sep {
				sep[j] = "---"
			}
			writeRow(sep)
		}
	}
	return sb.String()
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
