package detect

import (
	"scour/domain/table"
	"scour/internal/describe"
)

// OutlierReport holds the rows flagged by the Tukey fence for one column.
type OutlierReport struct {
	Indices    []int   `json:"indices"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// OutliersIQR flags rows whose numeric value falls strictly outside the
// classic Tukey fence [q1-1.5*iqr, q3+1.5*iqr]. Cells that do not parse as
// numbers are never outliers. A column with no numeric data yields an empty
// report.
func OutliersIQR(t *table.Table, column string) (OutlierReport, error) {
	cs, err := describe.Column(t, column)
	if err != nil {
		return OutlierReport{}, err
	}
	if cs == nil {
		return OutlierReport{}, nil
	}

	lower := cs.Q1 - 1.5*cs.IQR
	upper := cs.Q3 + 1.5*cs.IQR
	report := OutlierReport{LowerBound: lower, UpperBound: upper}
	for i, r := range t.Rows {
		if v, ok := r[column].Float(); ok && (v < lower || v > upper) {
			report.Indices = append(report.Indices, i)
		}
	}
	return report, nil
}
