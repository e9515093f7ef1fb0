package table

import "strings"

// Row maps column name to cell value. Every row of a normalized table has
// exactly the table's columns as keys.
type Row map[string]Value

// Table is the in-memory tabular store. Column order is insertion order and
// determines display and export order. Engine operators never mutate a table
// they receive; they clone and return a new value.
type Table struct {
	ColumnNames []string `json:"columns"`
	Rows        []Row    `json:"rows"`
}

// New builds a normalized table: every row gets every column, absent or
// surplus keys fixed up against the column list.
func New(columns []string, rows []Row) *Table {
	t := &Table{ColumnNames: append([]string(nil), columns...)}
	t.Rows = make([]Row, 0, len(rows))
	for _, r := range rows {
		t.Rows = append(t.Rows, t.normalizeRow(r))
	}
	return t
}

func (t *Table) normalizeRow(r Row) Row {
	out := make(Row, len(t.ColumnNames))
	for _, name := range t.ColumnNames {
		if v, ok := r[name]; ok {
			out[name] = v
		} else {
			out[name] = Missing()
		}
	}
	return out
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.ColumnNames) }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.ColumnNames {
		if c == name {
			return true
		}
	}
	return false
}

// Clone deep-copies the table. Values are plain structs, so copying rows
// copies cells.
func (t *Table) Clone() *Table {
	out := &Table{
		ColumnNames: append([]string(nil), t.ColumnNames...),
		Rows:        make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}

// ColumnValues returns the column's cells in row order.
func (t *Table) ColumnValues(name string) []Value {
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[name]
	}
	return out
}

// NumericValues returns the parseable numeric cells of a column in row order,
// missing and unparseable cells excluded.
func (t *Table) NumericValues(name string) []float64 {
	out := make([]float64, 0, len(t.Rows))
	for _, r := range t.Rows {
		if f, ok := r[name].Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// DropColumn removes the named column from the order and from every row.
// No-op when the column does not exist.
func (t *Table) DropColumn(name string) {
	idx := -1
	for i, c := range t.ColumnNames {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	t.ColumnNames = append(t.ColumnNames[:idx], t.ColumnNames[idx+1:]...)
	for _, r := range t.Rows {
		delete(r, name)
	}
}

// AddColumn appends a column at the end of the order, filling rows from
// values (missing when values is short).
func (t *Table) AddColumn(name string, values []Value) {
	t.ColumnNames = append(t.ColumnNames, name)
	for i, r := range t.Rows {
		if i < len(values) {
			r[name] = values[i]
		} else {
			r[name] = Missing()
		}
	}
}

// RowSignature builds a canonical key over all columns in order, used for
// value-level duplicate detection.
func (t *Table) RowSignature(r Row) string {
	var b strings.Builder
	for i, name := range t.ColumnNames {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(r[name].Key())
	}
	return b.String()
}
