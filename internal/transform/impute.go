package transform

import (
	"math"
	"sort"

	"scour/domain/core"
	"scour/domain/table"
	"scour/internal/describe"
)

// knnNeighbors is the fixed neighborhood size for KNN imputation.
const knnNeighbors = 5

// ImputeMean replaces the column's missing cells with its mean, rounded to 2
// decimals. No-op when the column has no numeric values.
func ImputeMean(t *table.Table, column string) (*table.Table, error) {
	cs, err := describe.Column(t, column)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return t, nil
	}
	return fillMissing(t, column, table.NewNumber(round2(cs.Mean))), nil
}

// ImputeMedian replaces the column's missing cells with its median.
func ImputeMedian(t *table.Table, column string) (*table.Table, error) {
	cs, err := describe.Column(t, column)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return t, nil
	}
	return fillMissing(t, column, table.NewNumber(cs.Median)), nil
}

// ImputeMode replaces the column's missing cells with its most frequent
// non-missing value (string-keyed frequency, first-seen tie-break).
func ImputeMode(t *table.Table, column string) (*table.Table, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}
	freq := make(map[string]int)
	var order []string
	byKey := make(map[string]table.Value)
	for _, r := range t.Rows {
		v := r[column]
		if v.IsMissing() {
			continue
		}
		key := v.Key()
		if _, seen := freq[key]; !seen {
			order = append(order, key)
			byKey[key] = v
		}
		freq[key]++
	}
	if len(order) == 0 {
		return t, nil
	}
	bestKey, bestCount := "", 0
	for _, key := range order {
		if freq[key] > bestCount {
			bestKey, bestCount = key, freq[key]
		}
	}
	return fillMissing(t, column, byKey[bestKey]), nil
}

// ImputeConstant replaces the column's missing cells with a caller-supplied
// literal.
func ImputeConstant(t *table.Table, column string, value table.Value) (*table.Table, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}
	return fillMissing(t, column, value), nil
}

// ImputeFFill propagates the nearest preceding non-missing value forward.
// Leading missing cells with no predecessor stay missing.
func ImputeFFill(t *table.Table, column string) (*table.Table, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}
	out := t.Clone()
	last := table.Missing()
	for _, r := range out.Rows {
		if r[column].IsMissing() {
			if !last.IsMissing() {
				r[column] = last
			}
			continue
		}
		last = r[column]
	}
	return out, nil
}

// ImputeBFill propagates the nearest following non-missing value backward.
// Trailing missing cells with no successor stay missing.
func ImputeBFill(t *table.Table, column string) (*table.Table, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}
	out := t.Clone()
	next := table.Missing()
	for i := len(out.Rows) - 1; i >= 0; i-- {
		r := out.Rows[i]
		if r[column].IsMissing() {
			if !next.IsMissing() {
				r[column] = next
			}
			continue
		}
		next = r[column]
	}
	return out, nil
}

// ImputeInterpolate linearly interpolates missing cells between the nearest
// valid numeric neighbors by row index. With only one valid side the value is
// copied. Results are rounded to 2 decimals.
func ImputeInterpolate(t *table.Table, column string) (*table.Table, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}
	out := t.Clone()

	type anchor struct {
		index int
		value float64
	}
	var anchors []anchor
	for i, r := range out.Rows {
		if v, ok := r[column].Float(); ok {
			anchors = append(anchors, anchor{i, v})
		}
	}
	if len(anchors) == 0 {
		return t, nil
	}

	for i, r := range out.Rows {
		if !r[column].IsMissing() {
			continue
		}
		var prev, next *anchor
		for a := range anchors {
			if anchors[a].index < i {
				prev = &anchors[a]
			} else if anchors[a].index > i {
				next = &anchors[a]
				break
			}
		}
		switch {
		case prev != nil && next != nil:
			span := float64(next.index - prev.index)
			frac := float64(i-prev.index) / span
			r[column] = table.NewNumber(round2(prev.value + frac*(next.value-prev.value)))
		case prev != nil:
			r[column] = table.NewNumber(round2(prev.value))
		case next != nil:
			r[column] = table.NewNumber(round2(next.value))
		}
	}
	return out, nil
}

// ImputeKNN fills each missing target cell with the average target value of
// the k=5 nearest rows by Euclidean distance over the other numeric columns.
// Distances are mean-normalized per dimension; dimensions where either side
// is not numeric are excluded from that pair. Rounded to 2 decimals.
func ImputeKNN(t *table.Table, column string) (*table.Table, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}

	var features []string
	for _, c := range t.Profile() {
		if c.Name != column && c.Type == table.TypeNumeric {
			features = append(features, c.Name)
		}
	}

	means := make(map[string]float64, len(features))
	for _, f := range features {
		if cs, _ := describe.Column(t, f); cs != nil {
			means[f] = cs.Mean
		}
	}

	type candidate struct {
		index  int
		target float64
	}
	var candidates []candidate
	for i, r := range t.Rows {
		if v, ok := r[column].Float(); ok {
			candidates = append(candidates, candidate{i, v})
		}
	}
	if len(candidates) == 0 {
		return t, nil
	}

	out := t.Clone()
	for i, r := range out.Rows {
		if !r[column].IsMissing() {
			continue
		}
		type scored struct {
			candidate
			dist float64
		}
		var ranked []scored
		for _, c := range candidates {
			d, ok := rowDistance(out.Rows[i], out.Rows[c.index], features, means)
			if !ok {
				d = math.Inf(1)
			}
			ranked = append(ranked, scored{c, d})
		}
		sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].dist < ranked[b].dist })
		k := knnNeighbors
		if k > len(ranked) {
			k = len(ranked)
		}
		var sum float64
		for _, s := range ranked[:k] {
			sum += s.target
		}
		r[column] = table.NewNumber(round2(sum / float64(k)))
	}
	return out, nil
}

// rowDistance computes the mean-normalized Euclidean distance between two
// rows over the usable feature dimensions. ok is false when no dimension is
// usable for this pair.
func rowDistance(a, b table.Row, features []string, means map[string]float64) (float64, bool) {
	var sum float64
	dims := 0
	for _, f := range features {
		av, okA := a[f].Float()
		bv, okB := b[f].Float()
		if !okA || !okB {
			continue
		}
		d := av - bv
		if m := means[f]; m != 0 {
			d /= m
		}
		sum += d * d
		dims++
	}
	if dims == 0 {
		return 0, false
	}
	return math.Sqrt(sum), true
}

// DropMissing removes the rows where the target column is missing.
func DropMissing(t *table.Table, column string) (*table.Table, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}
	out := t.Clone()
	kept := out.Rows[:0]
	for _, r := range out.Rows {
		if !r[column].IsMissing() {
			kept = append(kept, r)
		}
	}
	out.Rows = kept
	return out, nil
}

// fillMissing replaces the column's missing cells with the given value.
func fillMissing(t *table.Table, column string, value table.Value) *table.Table {
	out := t.Clone()
	for _, r := range out.Rows {
		if r[column].IsMissing() {
			r[column] = value
		}
	}
	return out
}
