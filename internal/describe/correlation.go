package describe

import (
	"math"

	"scour/domain/core"
	"scour/domain/table"
)

// CorrelationMatrix computes the Pearson correlation matrix over the given
// ordered numeric columns using the population formula
// sum(dx*dy) / sqrt(sum(dx^2) * sum(dy^2)). Pairs are aligned on rows where
// both columns parse numerically; a zero denominator yields 0 and the
// diagonal is fixed to 1. Each ordered pair is computed independently, which
// makes the matrix symmetric by construction.
func CorrelationMatrix(t *table.Table, columns []string) ([][]float64, []string, error) {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return nil, nil, core.NewColumnNotFoundError(c)
		}
	}

	matrix := make([][]float64, len(columns))
	for i := range columns {
		matrix[i] = make([]float64, len(columns))
		for j := range columns {
			if i == j {
				matrix[i][j] = 1.0
				continue
			}
			matrix[i][j] = pairwisePearson(t, columns[i], columns[j])
		}
	}
	return matrix, append([]string(nil), columns...), nil
}

// pairwisePearson correlates two columns over their complete observations.
func pairwisePearson(t *table.Table, a, b string) float64 {
	var xs, ys []float64
	for _, r := range t.Rows {
		x, okX := r[a].Float()
		y, okY := r[b].Float()
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return Pearson(xs, ys)
}

// Pearson computes the population Pearson coefficient of two aligned series.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}
	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var num, denX, denY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		num += dx * dy
		denX += dx * dx
		denY += dy * dy
	}
	if denX == 0 || denY == 0 {
		return 0
	}
	return num / math.Sqrt(denX*denY)
}
