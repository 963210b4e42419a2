package domain

// Table is a generic tabular query result: ordered column names plus rows of
// dynamically typed cells. Each query defines its own column set, so consumers
// address cells by column name rather than through a fixed struct.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Empty reports whether the table holds no rows. An empty table means either
// "no matching data" or "the query failed"; the error returned alongside the
// table is what distinguishes the two.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// RowCount returns the number of rows.
func (t Table) RowCount() int { return len(t.Rows) }

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at (row, column). ok is false when the row or column
// does not exist.
func (t Table) Value(row int, column string) (any, bool) {
	i := t.ColumnIndex(column)
	if i < 0 || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return nil, false
	}
	return t.Rows[row][i], true
}
