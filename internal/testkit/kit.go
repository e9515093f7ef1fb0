// Package testkit builds deterministic dirty tables for tests and demo
// seeding: duplicates, missing cells, outliers and categorical columns with
// known shapes.
package testkit

import (
	"math/rand"

	"scour/domain/table"
)

// DirtyTable generates a reproducible table exhibiting every quality problem
// the pipeline handles: exact duplicate rows, missing values in numeric and
// categorical columns, IQR outliers and a target-like categorical column.
func DirtyTable(rows int) *table.Table {
	rng := rand.New(rand.NewSource(42))
	cities := []string{"Austin", "Boston", "Chicago", "Denver"}

	columns := []string{"id", "age", "income", "city", "target"}
	var out []table.Row

	for i := 0; i < rows; i++ {
		r := table.Row{
			"id":     table.NewNumber(float64(i + 1)),
			"age":    table.NewNumber(30 + float64(rng.Intn(21))), // 30..50, roughly symmetric
			"income": table.NewNumber(40000 + rng.Float64()*20000),
			"city":   table.NewText(cities[rng.Intn(len(cities))]),
			"target": table.NewText([]string{"stay", "churned"}[rng.Intn(2)]),
		}
		// Spread some missingness around.
		if i%7 == 3 {
			r["age"] = table.Missing()
		}
		if i%11 == 5 {
			r["city"] = table.Missing()
		}
		// A few gross income outliers.
		if i%13 == 7 {
			r["income"] = table.NewNumber(900000)
		}
		out = append(out, r)
	}

	// Exact duplicates of the first two rows.
	if rows >= 2 {
		out = append(out, cloneRow(out[0]), cloneRow(out[1]))
	}
	return table.New(columns, out)
}

// SmallTable builds a fixed tiny table handy for exact-value assertions.
func SmallTable() *table.Table {
	columns := []string{"x", "label"}
	values := []float64{1, 2, 3, 4, 5, 100}
	labels := []string{"a", "b", "a", "b", "a", "b"}
	rows := make([]table.Row, len(values))
	for i := range values {
		rows[i] = table.Row{
			"x":     table.NewNumber(values[i]),
			"label": table.NewText(labels[i]),
		}
	}
	return table.New(columns, rows)
}

// NumericColumn builds a one-column table from raw values; nil entries become
// missing cells.
func NumericColumn(name string, values []*float64) *table.Table {
	rows := make([]table.Row, len(values))
	for i, v := range values {
		if v == nil {
			rows[i] = table.Row{name: table.Missing()}
		} else {
			rows[i] = table.Row{name: table.NewNumber(*v)}
		}
	}
	return table.New([]string{name}, rows)
}

// F is a convenience for building optional numeric cells.
func F(v float64) *float64 { return &v }

func cloneRow(r table.Row) table.Row {
	out := make(table.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
