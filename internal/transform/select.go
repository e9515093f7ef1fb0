package transform

import (
	"scour/domain/core"
	"scour/domain/table"
)

// SelectColumns projects the table onto keep, preserving the caller's order.
// Dropped columns are gone from this table state; recovery is the caller's
// concern via the original table it holds.
func SelectColumns(t *table.Table, keep []string) (*table.Table, error) {
	for _, name := range keep {
		if !t.HasColumn(name) {
			return nil, core.NewColumnNotFoundError(name)
		}
	}
	rows := make([]table.Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(table.Row, len(keep))
		for _, name := range keep {
			nr[name] = r[name]
		}
		rows[i] = nr
	}
	return table.New(keep, rows), nil
}
