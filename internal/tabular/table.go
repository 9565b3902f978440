// Package tabular reads and writes the flat tables the pipeline works on.
// CSV and xlsx inputs are both loaded into the same in-memory Table; the
// multi-sheet output workbook is written through Workbook.
package tabular

// Table is an in-memory tabular file: one header row plus string cells.
// Header order is preserved exactly as read; ragged rows are padded on
// access rather than at load time.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Index returns the position of the given header, or -1.
func (t *Table) Index(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col), or "" when the row is shorter than
// the header (trailing empty cells are routinely dropped by csv exports).
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }
