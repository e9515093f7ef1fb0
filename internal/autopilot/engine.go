// Package autopilot implements the rule-based cleaning engine: five ordered
// phases executed once per invocation, no backtracking. Every decision is
// journaled with a phase tag; a failing column is skipped without aborting
// the run.
package autopilot

import (
	"fmt"
	"sort"
	"strings"

	"scour/domain/table"
	"scour/internal/describe"
	"scour/internal/detect"
	"scour/internal/transform"
)

// Decision thresholds, fixed for output parity with the rule table.
const (
	dropNullPctLimit = 40.0
	meanNullPctLimit = 10.0
	ordinalUniqueMin = 15
)

// targetNameTokens flags target-like columns for label encoding. Multi-char
// tokens match as substrings of the lower-cased name; the single-char "y"
// matches only the whole name, so "city" stays one-hot eligible.
var targetNameTokens = []string{"target", "label", "outcome", "y", "class", "churn", "survived", "price_range"}

// Skip records a column the engine had to pass over.
type Skip struct {
	Phase  string `json:"phase"`
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// Result is the outcome of one autopilot run.
type Result struct {
	Table   *table.Table `json:"-"`
	Entries []string     `json:"entries"`
	Skipped []Skip       `json:"skipped"`
}

// Run executes the phases Duplicates -> Missing -> Outliers -> Encoding ->
// Scaling over the table and returns the final table with the ordered journal
// entries. Deterministic: two runs over fresh copies of the same table yield
// identical tables and entries.
func Run(t *table.Table) *Result {
	res := &Result{Table: t}
	res.runDuplicates()
	res.runMissing()
	res.runOutliers()
	numericBefore := res.numericColumns()
	res.runEncoding()
	res.runScaling(numericBefore)
	return res
}

func (res *Result) journal(phase, format string, args ...interface{}) {
	res.Entries = append(res.Entries, fmt.Sprintf("[%s] ", phase)+fmt.Sprintf(format, args...))
}

func (res *Result) skip(phase, column string, err error) {
	res.Skipped = append(res.Skipped, Skip{Phase: phase, Column: column, Reason: err.Error()})
	res.journal(phase, "Skipped '%s': %v", column, err)
}

func (res *Result) runDuplicates() {
	deduped, removed := detect.RemoveDuplicates(res.Table)
	res.Table = deduped
	if removed > 0 {
		res.journal("duplicates", "Removed %d duplicate row(s)", removed)
	}
}

func (res *Result) runMissing() {
	for _, col := range res.Table.Profile() {
		if col.NullCount == 0 {
			continue
		}
		switch {
		case col.NullPercentage > dropNullPctLimit:
			next, err := transform.DropMissing(res.Table, col.Name)
			if err != nil {
				res.skip("missing", col.Name, err)
				continue
			}
			res.Table = next
			res.journal("missing", "Dropped %d row(s) with missing '%s' (%.1f%% missing)", col.NullCount, col.Name, col.NullPercentage)
		case col.Type == table.TypeNumeric:
			res.imputeNumeric(col)
		default:
			next, err := transform.ImputeMode(res.Table, col.Name)
			if err != nil {
				res.skip("missing", col.Name, err)
				continue
			}
			res.Table = next
			res.journal("missing", "Imputed %d missing value(s) in '%s' using mode", col.NullCount, col.Name)
		}
	}
}

// imputeNumeric picks mean for symmetric, outlier-free columns that miss
// fewer than 10% of their cells; median otherwise.
func (res *Result) imputeNumeric(col table.Column) {
	cs, err := describe.Column(res.Table, col.Name)
	if err != nil {
		res.skip("missing", col.Name, err)
		return
	}
	report, err := detect.OutliersIQR(res.Table, col.Name)
	if err != nil {
		res.skip("missing", col.Name, err)
		return
	}

	method := "median"
	apply := transform.ImputeMedian
	if cs != nil && cs.IsSymmetric && len(report.Indices) == 0 && col.NullPercentage < meanNullPctLimit {
		method = "mean"
		apply = transform.ImputeMean
	}
	next, err := apply(res.Table, col.Name)
	if err != nil {
		res.skip("missing", col.Name, err)
		return
	}
	res.Table = next
	res.journal("missing", "Imputed %d missing value(s) in '%s' using %s", col.NullCount, col.Name, method)
}

func (res *Result) runOutliers() {
	for _, col := range res.Table.Profile() {
		if col.Type != table.TypeNumeric {
			continue
		}
		report, err := detect.OutliersIQR(res.Table, col.Name)
		if err != nil {
			res.skip("outliers", col.Name, err)
			continue
		}
		if len(report.Indices) == 0 {
			continue
		}
		cs, err := describe.Column(res.Table, col.Name)
		if err != nil || cs == nil {
			continue
		}

		var (
			method string
			next   *table.Table
		)
		switch {
		case cs.IsNormal:
			method = "z-score replacement"
			next, err = transform.TreatOutliersZScore(res.Table, col.Name)
		case cs.IsSymmetric:
			method = "IQR clamping"
			next, err = transform.ClampOutliersIQR(res.Table, col.Name)
		default:
			method = "winsorization"
			next, err = transform.Winsorize(res.Table, col.Name, transform.WinsorLowerDefault, transform.WinsorUpperDefault)
		}
		if err != nil {
			res.skip("outliers", col.Name, err)
			continue
		}
		treated := transform.ChangedCells(res.Table, next, col.Name)
		res.Table = next
		res.journal("outliers", "Treated %d outlier(s) in '%s' using %s", treated, col.Name, method)
	}
}

func (res *Result) runEncoding() {
	for _, col := range res.Table.Profile() {
		if col.Type != table.TypeCategorical {
			continue
		}
		switch {
		case isTargetLikeName(col.Name):
			next, err := transform.EncodeLabel(res.Table, col.Name)
			if err != nil {
				res.skip("encoding", col.Name, err)
				continue
			}
			res.Table = next
			res.journal("encoding", "Label-encoded '%s' (target-like name)", col.Name)
		case col.UniqueCount > ordinalUniqueMin:
			order := res.lexicographicCategories(col.Name)
			next, err := transform.EncodeOrdinal(res.Table, col.Name, order)
			if err != nil {
				res.skip("encoding", col.Name, err)
				continue
			}
			res.Table = next
			res.journal("encoding", "Ordinal-encoded '%s' over %d lexicographically auto-ordered categories", col.Name, len(order))
		default:
			next, err := transform.EncodeOneHot(res.Table, col.Name)
			if err != nil {
				res.skip("encoding", col.Name, err)
				continue
			}
			res.Table = next
			res.journal("encoding", "One-hot encoded '%s' into %d column(s)", col.Name, col.UniqueCount)
		}
	}
}

func (res *Result) runScaling(numericBefore []string) {
	for _, name := range numericBefore {
		if !res.Table.HasColumn(name) {
			continue
		}
		cs, err := describe.Column(res.Table, name)
		if err != nil || cs == nil {
			continue
		}
		report, err := detect.OutliersIQR(res.Table, name)
		if err != nil {
			res.skip("scaling", name, err)
			continue
		}

		var (
			method string
			next   *table.Table
		)
		switch {
		case cs.IsNormal && len(report.Indices) == 0:
			method = "standard"
			next, err = transform.ScaleStandard(res.Table, name)
		case len(report.Indices) > 0:
			method = "robust"
			next, err = transform.ScaleRobust(res.Table, name)
		default:
			method = "min-max"
			next, err = transform.ScaleMinMax(res.Table, name)
		}
		if err != nil {
			res.skip("scaling", name, err)
			continue
		}
		res.Table = next
		res.journal("scaling", "Scaled '%s' using %s scaling", name, method)
	}
}

// numericColumns captures the numeric column list before encoding so freshly
// generated 0/1 indicator columns never get scaled.
func (res *Result) numericColumns() []string {
	var out []string
	for _, col := range res.Table.Profile() {
		if col.Type == table.TypeNumeric {
			out = append(out, col.Name)
		}
	}
	return out
}

// lexicographicCategories builds the automatic ordinal order: distinct
// non-missing values sorted lexicographically. Alphabetical order is a
// documented heuristic, not a semantic rank.
func (res *Result) lexicographicCategories(column string) []string {
	seen := make(map[string]struct{})
	var cats []string
	for _, r := range res.Table.Rows {
		v := r[column]
		if v.IsMissing() {
			continue
		}
		d := v.Display()
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			cats = append(cats, d)
		}
	}
	sort.Strings(cats)
	return cats
}

func isTargetLikeName(name string) bool {
	lower := strings.ToLower(name)
	for _, token := range targetNameTokens {
		if len(token) == 1 {
			if lower == token {
				return true
			}
			continue
		}
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}
