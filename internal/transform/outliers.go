package transform

import (
	"fmt"
	"math"
	"sort"

	"scour/domain/core"
	"scour/domain/table"
	"scour/internal/describe"
	"scour/internal/detect"
)

// Default winsorization percentiles.
const (
	WinsorLowerDefault = 5.0
	WinsorUpperDefault = 95.0
)

// zScoreLimit is the |z| threshold beyond which a value counts as extreme.
const zScoreLimit = 3.0

// ClampOutliersIQR clamps values strictly outside the Tukey fence to the
// fence bounds.
func ClampOutliersIQR(t *table.Table, column string) (*table.Table, error) {
	report, err := detect.OutliersIQR(t, column)
	if err != nil {
		return nil, err
	}
	if len(report.Indices) == 0 {
		return t, nil
	}
	out := t.Clone()
	for _, i := range report.Indices {
		v, _ := out.Rows[i][column].Float()
		out.Rows[i][column] = table.NewNumber(math.Min(math.Max(v, report.LowerBound), report.UpperBound))
	}
	return out, nil
}

// Winsorize clamps values outside the column's empirical [lowerPct, upperPct]
// percentile values, computed by nearest-rank on the sorted data.
func Winsorize(t *table.Table, column string, lowerPct, upperPct float64) (*table.Table, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}
	if lowerPct < 0 || upperPct > 100 || lowerPct >= upperPct {
		return nil, fmt.Errorf("invalid winsor percentiles %.4g/%.4g", lowerPct, upperPct)
	}
	values := t.NumericValues(column)
	if len(values) == 0 {
		return t, nil
	}
	sort.Float64s(values)
	lo := values[nearestRank(len(values), lowerPct)]
	hi := values[nearestRank(len(values), upperPct)]

	out := t.Clone()
	changed := false
	for _, r := range out.Rows {
		v, ok := r[column].Float()
		if !ok {
			continue
		}
		if v < lo {
			r[column] = table.NewNumber(lo)
			changed = true
		} else if v > hi {
			r[column] = table.NewNumber(hi)
			changed = true
		}
	}
	if !changed {
		return t, nil
	}
	return out, nil
}

// nearestRank maps a percentile to a sorted index via floor(n*p/100),
// clamped to the last element.
func nearestRank(n int, pct float64) int {
	idx := int(float64(n) * pct / 100)
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// TreatOutliersZScore replaces values with |z| > 3 by the column mean when
// the distribution is normal, otherwise by the median, rounded to 2 decimals.
// No-op on zero variance.
func TreatOutliersZScore(t *table.Table, column string) (*table.Table, error) {
	cs, err := describe.Column(t, column)
	if err != nil {
		return nil, err
	}
	if cs == nil || cs.Std == 0 {
		return t, nil
	}
	replacement := cs.Median
	if cs.IsNormal {
		replacement = cs.Mean
	}
	replacement = round2(replacement)

	out := t.Clone()
	changed := false
	for _, r := range out.Rows {
		v, ok := r[column].Float()
		if !ok {
			continue
		}
		if math.Abs((v-cs.Mean)/cs.Std) > zScoreLimit {
			r[column] = table.NewNumber(replacement)
			changed = true
		}
	}
	if !changed {
		return t, nil
	}
	return out, nil
}
