package transform

import (
	"scour/domain/table"
	"scour/internal/describe"
)

// ScaleMinMax rescales the column to (v-min)/(max-min), rounded to 4
// decimals. No-op on a degenerate range.
func ScaleMinMax(t *table.Table, column string) (*table.Table, error) {
	cs, err := describe.Column(t, column)
	if err != nil {
		return nil, err
	}
	if cs == nil || cs.Max == cs.Min {
		return t, nil
	}
	span := cs.Max - cs.Min
	return scaleWith(t, column, func(v float64) float64 { return (v - cs.Min) / span }), nil
}

// ScaleStandard rescales the column to (v-mean)/std, rounded to 4 decimals.
// No-op on zero variance.
func ScaleStandard(t *table.Table, column string) (*table.Table, error) {
	cs, err := describe.Column(t, column)
	if err != nil {
		return nil, err
	}
	if cs == nil || cs.Std == 0 {
		return t, nil
	}
	return scaleWith(t, column, func(v float64) float64 { return (v - cs.Mean) / cs.Std }), nil
}

// ScaleRobust rescales the column to (v-median)/iqr, rounded to 4 decimals.
// No-op on zero IQR.
func ScaleRobust(t *table.Table, column string) (*table.Table, error) {
	cs, err := describe.Column(t, column)
	if err != nil {
		return nil, err
	}
	if cs == nil || cs.IQR == 0 {
		return t, nil
	}
	return scaleWith(t, column, func(v float64) float64 { return (v - cs.Median) / cs.IQR }), nil
}

// scaleWith applies fn to every parseable numeric cell of the column,
// in place on a clone. Missing and non-numeric cells stay untouched.
func scaleWith(t *table.Table, column string, fn func(float64) float64) *table.Table {
	out := t.Clone()
	for _, r := range out.Rows {
		if v, ok := r[column].Float(); ok {
			r[column] = table.NewNumber(round4(fn(v)))
		}
	}
	return out
}
