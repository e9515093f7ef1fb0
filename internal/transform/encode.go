package transform

import (
	"scour/domain/core"
	"scour/domain/table"
)

// EncodeOneHot adds one 1/0 column per unique non-missing value, named
// "{col}_{value}", appended after the existing columns in first-seen order,
// and drops the source column. Rows with a missing source cell get 0 in
// every generated column.
func EncodeOneHot(t *table.Table, column string) (*table.Table, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}

	var uniques []table.Value
	seen := make(map[string]struct{})
	for _, r := range t.Rows {
		v := r[column]
		if v.IsMissing() {
			continue
		}
		if _, ok := seen[v.Key()]; ok {
			continue
		}
		seen[v.Key()] = struct{}{}
		uniques = append(uniques, v)
	}

	out := t.Clone()
	for _, u := range uniques {
		values := make([]table.Value, len(out.Rows))
		for i, r := range out.Rows {
			if r[column].Equal(u) {
				values[i] = table.NewNumber(1)
			} else {
				values[i] = table.NewNumber(0)
			}
		}
		out.AddColumn(column+"_"+u.Display(), values)
	}
	out.DropColumn(column)
	return out, nil
}

// EncodeOrdinal maps each value to its 0-based rank in the caller-supplied
// category order, in place. Values absent from the order (including missing
// cells) map to -1. An empty order is an error.
func EncodeOrdinal(t *table.Table, column string, order []string) (*table.Table, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}
	if len(order) == 0 {
		return nil, core.ErrMalformedOrdinalOrder
	}
	rank := make(map[string]int, len(order))
	for i, cat := range order {
		rank[cat] = i
	}

	out := t.Clone()
	for _, r := range out.Rows {
		v := r[column]
		if v.IsMissing() {
			r[column] = table.NewNumber(-1)
			continue
		}
		if i, ok := rank[v.Display()]; ok {
			r[column] = table.NewNumber(float64(i))
		} else {
			r[column] = table.NewNumber(-1)
		}
	}
	return out, nil
}

// EncodeLabel maps each unique non-missing value, in first-seen order, to a
// 0-based integer, replacing the column in place. Missing cells stay missing.
func EncodeLabel(t *table.Table, column string) (*table.Table, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}
	labels := make(map[string]int)
	next := 0

	out := t.Clone()
	for _, r := range out.Rows {
		v := r[column]
		if v.IsMissing() {
			continue
		}
		key := v.Key()
		if _, ok := labels[key]; !ok {
			labels[key] = next
			next++
		}
		r[column] = table.NewNumber(float64(labels[key]))
	}
	return out, nil
}
