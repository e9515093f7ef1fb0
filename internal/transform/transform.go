// Package transform implements the pure table operators: imputation, outlier
// treatment, encoding, scaling and column selection. Every operator takes a
// table and returns a new one; inputs are never mutated. Operators that find
// nothing to do (no missing cells, zero-variance column) return the input
// table unchanged: skipping is a valid steady state, not an error.
package transform

import (
	"math"

	"scour/domain/table"
)

// ChangedCells counts the cells in one column that differ between two
// row-aligned tables.
func ChangedCells(before, after *table.Table, column string) int {
	if before == after || len(before.Rows) != len(after.Rows) {
		return 0
	}
	n := 0
	for i := range before.Rows {
		if !before.Rows[i][column].Equal(after.Rows[i][column]) {
			n++
		}
	}
	return n
}

// round2 rounds imputed and replaced values to 2 decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round4 rounds scaled values to 4 decimals.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
