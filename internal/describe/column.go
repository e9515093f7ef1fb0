// Package describe computes descriptive column statistics and pairwise
// correlation over the tabular store. Snapshots are recomputed on demand and
// never cached, so they always reflect the current data.
package describe

import (
	"math"
	"sort"
	"strconv"

	"scour/domain/core"
	"scour/domain/table"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Thresholds that govern downstream method selection. Fixed design constants.
const (
	NormalSkewLimit    = 0.5
	SymmetricSkewLimit = 1.0
)

// ColumnStats is a snapshot of one column's numeric distribution.
type ColumnStats struct {
	Count       int     `json:"count"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	Mode        float64 `json:"mode"`
	Std         float64 `json:"std"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Q1          float64 `json:"q1"`
	Q3          float64 `json:"q3"`
	IQR         float64 `json:"iqr"`
	Skewness    float64 `json:"skewness"`
	IsNormal    bool    `json:"is_normal"`
	IsSymmetric bool    `json:"is_symmetric"`
	// NormalP is an approximate normality p-value (Jarque-Bera style over
	// skewness and excess kurtosis). Informational only: method selection
	// uses the skewness thresholds above.
	NormalP float64 `json:"normal_p"`
}

// Column computes the statistics snapshot for one column. Returns (nil, nil)
// when the column holds zero valid numeric values; that is a documented
// steady state, not an error.
func Column(t *table.Table, column string) (*ColumnStats, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}
	values := t.NumericValues(column)
	if len(values) == 0 {
		return nil, nil
	}
	return FromValues(values), nil
}

// FromValues computes the snapshot from numeric values in row order.
func FromValues(values []float64) *ColumnStats {
	n := len(values)
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	std, _ := stats.StandardDeviationPopulation(values)

	// Nearest-rank quartiles, floor(n*p). A fixed reproducible convention,
	// deliberately not an interpolating quantile estimator.
	q1 := sorted[int(float64(n)*0.25)]
	q3 := sorted[int(float64(n)*0.75)]

	skew := skewness(values, mean, std)

	cs := &ColumnStats{
		Count:       n,
		Mean:        mean,
		Median:      median,
		Mode:        mode(values),
		Std:         std,
		Min:         sorted[0],
		Max:         sorted[n-1],
		Q1:          q1,
		Q3:          q3,
		IQR:         q3 - q1,
		Skewness:    skew,
		IsNormal:    math.Abs(skew) < NormalSkewLimit,
		IsSymmetric: math.Abs(skew) < SymmetricSkewLimit,
	}
	cs.NormalP = normalityPValue(values, mean, std, skew)
	return cs
}

// skewness is the adjusted Fisher-Pearson coefficient:
// (n / ((n-1)(n-2))) * sum(((v-mean)/std)^3), zero for n<=2 or zero variance.
func skewness(values []float64, mean, std float64) float64 {
	n := float64(len(values))
	if len(values) <= 2 || std == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := (v - mean) / std
		sum += d * d * d
	}
	return n / ((n - 1) * (n - 2)) * sum
}

// mode is the most frequent value by string-keyed frequency count; ties break
// toward the value encountered first in row order.
func mode(values []float64) float64 {
	freq := make(map[string]int, len(values))
	order := make([]string, 0, len(values))
	byKey := make(map[string]float64, len(values))
	for _, v := range values {
		key := strconv.FormatFloat(v, 'f', -1, 64)
		if _, seen := freq[key]; !seen {
			order = append(order, key)
			byKey[key] = v
		}
		freq[key]++
	}
	bestKey, bestCount := "", 0
	for _, key := range order {
		if freq[key] > bestCount {
			bestKey, bestCount = key, freq[key]
		}
	}
	return byKey[bestKey]
}

// normalityPValue approximates a normality test p-value from skewness and
// excess kurtosis against a chi-square(2) reference.
func normalityPValue(values []float64, mean, std, skew float64) float64 {
	if len(values) < 3 || std == 0 {
		return 1.0
	}
	var sum float64
	for _, v := range values {
		d := (v - mean) / std
		sum += d * d * d * d
	}
	excessKurtosis := sum/float64(len(values)) - 3
	testStat := math.Abs(skew) + math.Abs(excessKurtosis)/2
	chi := distuv.ChiSquared{K: 2}
	return 1 - chi.CDF(testStat*testStat)
}
