// Package table holds the immutable wide-table value passed between the
// read, merge, and reshape stages.
//
// A cell is nil (missing), a string (raw text from the source), or a float64
// (a value already coerced by an upstream stage). A Table never exposes its
// backing slices; every stage that changes shape builds a new Table.
package table

import (
	"math"
	"strconv"
	"strings"
)

// Table is a named, ordered set of columns and rows.
type Table struct {
	name    string
	columns []string
	rows    [][]any
	index   map[string]int
}

// New copies columns and rows into a new Table. Rows shorter than the column
// list read as nil for the missing cells; longer rows are truncated.
func New(name string, columns []string, rows [][]any) Table {
	cols := append([]string(nil), columns...)
	out := make([][]any, len(rows))
	for i, r := range rows {
		row := make([]any, len(cols))
		copy(row, r)
		out[i] = row
	}
	return Table{name: name, columns: cols, rows: out, index: buildIndex(cols)}
}

// buildIndex maps each header to its first position. Duplicate header names
// resolve to the leftmost column.
func buildIndex(cols []string) map[string]int {
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := idx[c]; !dup {
			idx[c] = i
		}
	}
	return idx
}

// Name returns the table's label (used in error messages).
func (t Table) Name() string { return t.name }

// Columns returns a copy of the header row.
func (t Table) Columns() []string { return append([]string(nil), t.columns...) }

// Width is the number of columns.
func (t Table) Width() int { return len(t.columns) }

// Len is the number of data rows.
func (t Table) Len() int { return len(t.rows) }

// Cell returns the value at (row, col), or nil when out of range.
func (t Table) Cell(row, col int) any {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.columns) {
		return nil
	}
	return t.rows[row][col]
}

// Row returns a copy of row i.
func (t Table) Row(i int) []any {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	return append([]any(nil), t.rows[i]...)
}

// Index looks up a column by exact name first and then by whitespace-trimmed
// name, so " Economic Freedom Summary Index" and its trimmed form both
// resolve.
func (t Table) Index(name string) (int, bool) {
	if i, ok := t.index[name]; ok {
		return i, true
	}
	want := strings.TrimSpace(name)
	for i, c := range t.columns {
		if strings.TrimSpace(c) == want {
			return i, true
		}
	}
	return -1, false
}

// WithColumns returns a copy of t whose headers are replaced by fn(header).
func (t Table) WithColumns(fn func(string) string) Table {
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		cols[i] = fn(c)
	}
	return Table{name: t.name, columns: cols, rows: t.rows, index: buildIndex(cols)}
}

// Float coerces a cell to a finite float64. Missing, blank, non-numeric,
// NaN, and infinite values report ok=false.
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FloatPtr is Float returning nil for missing values.
func FloatPtr(v any) *float64 {
	f, ok := Float(v)
	if !ok {
		return nil
	}
	return &f
}

// Text renders a cell as trimmed text; nil becomes "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}
