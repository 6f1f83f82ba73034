// Package table defines the in-memory tabular model shared by every pipeline
// stage: an ordered column list plus rows of loosely typed cells. Inputs arrive
// with arbitrary column names, order, and casing; the model preserves the
// source column order so positional fallbacks (first/second/last column) stay
// well defined.
//
// The package also owns the boundary codecs (tolerant CSV reading, canonical
// CSV writing) and the value-coercion helpers used by the engines. Per-cell
// coercion failures are never fatal; callers receive an ok flag and decide how
// to count the anomaly.
package table

// Row maps a column name to a cell value. Cells read from CSV are strings;
// engines may replace them with typed values in derived tables.
type Row map[string]any

// Table is an ordered set of columns plus the rows beneath them. A Row may
// omit columns; readers treat missing cells as nil.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given column order.
func New(columns ...string) Table {
	return Table{Columns: columns}
}

// Append adds a row to the table.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// HasColumn reports whether name is an exact column of the table.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }
