package tabular

import (
	"fmt"
)

// Table is a named rectangular table of typed cells. Tables are treated as
// immutable once produced: every stage operation returns a new Table and no
// stage mutates a table it did not build, so views derived from a shared
// upstream table never observe each other's changes.
type Table struct {
	name  string
	cols  []string
	index map[string]int
	rows  [][]Value
}

// New creates an empty table with the given column set.
func New(name string, cols []string) (*Table, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if c == "" {
			return nil, NewSchemaError(name, c, "empty column name")
		}
		if _, dup := index[c]; dup {
			return nil, NewSchemaError(name, c, "duplicate column name")
		}
		index[c] = i
	}
	return &Table{
		name:  name,
		cols:  append([]string(nil), cols...),
		index: index,
	}, nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// AppendRow adds a row. The cell count must match the column count.
func (t *Table) AppendRow(cells ...Value) error {
	if len(cells) != len(t.cols) {
		return fmt.Errorf("table %q: row has %d cells, want %d", t.name, len(cells), len(t.cols))
	}
	t.rows = append(t.rows, append([]Value(nil), cells...))
	return nil
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value {
	return append([]Value(nil), t.rows[i]...)
}

// Value returns the cell at row i, named column. Asking for an unknown
// column is a programming error against the table's declared contract.
func (t *Table) Value(i int, col string) (Value, error) {
	j, ok := t.index[col]
	if !ok {
		return Missing(), NewSchemaError(t.name, col, "column not present")
	}
	return t.rows[i][j], nil
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(col string) ([]Value, error) {
	j, ok := t.index[col]
	if !ok {
		return nil, NewSchemaError(t.name, col, "column not present")
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[j]
	}
	return out, nil
}

// Select returns a new table restricted to the named columns, in the given
// order. Row cardinality is preserved.
func (t *Table) Select(cols ...string) (*Table, error) {
	out, err := New(t.name, cols)
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(cols))
	for i, c := range cols {
		j, ok := t.index[c]
		if !ok {
			return nil, NewSchemaError(t.name, c, "column not present")
		}
		idx[i] = j
	}
	for _, row := range t.rows {
		cells := make([]Value, len(cols))
		for i, j := range idx {
			cells[i] = row[j]
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}

// WithColumn returns a new table with an extra column appended. The cell
// slice must match the row count.
func (t *Table) WithColumn(name string, cells []Value) (*Table, error) {
	if t.HasColumn(name) {
		return nil, NewSchemaError(t.name, name, "column already present")
	}
	if len(cells) != len(t.rows) {
		return nil, fmt.Errorf("table %q: column %q has %d cells, want %d", t.name, name, len(cells), len(t.rows))
	}
	out, err := New(t.name, append(t.Columns(), name))
	if err != nil {
		return nil, err
	}
	for i, row := range t.rows {
		cells := append(append([]Value(nil), row...), cells[i])
		out.rows = append(out.rows, cells)
	}
	return out, nil
}

// Filter returns a new table containing the rows for which keep returns
// true. The predicate receives the row index and must not retain the table.
func (t *Table) Filter(keep func(i int) bool) *Table {
	out := &Table{name: t.name, cols: t.cols, index: t.index}
	for i := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, t.rows[i])
		}
	}
	return out
}

// Rename returns a copy of the table under a new name. Views use this to
// publish a stage output under the view's contract name.
func (t *Table) Rename(name string) *Table {
	return &Table{name: name, cols: t.cols, index: t.index, rows: t.rows}
}
