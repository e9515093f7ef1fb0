package transform

import (
	"testing"

	"scour/domain/core"
	"scour/domain/table"
	"scour/internal/testkit"
)

func numAt(t *testing.T, tab *table.Table, column string, row int) float64 {
	t.Helper()
	v, ok := tab.Rows[row][column].Float()
	if !ok {
		t.Fatalf("row %d column %q is not numeric: %v", row, column, tab.Rows[row][column])
	}
	return v
}

// TestImputeMean_RoundsToTwoDecimals verifies the fill value is the mean of
// the present values rounded to 2 decimals.
func TestImputeMean_RoundsToTwoDecimals(t *testing.T) {
	tab := testkit.NumericColumn("v", []*float64{testkit.F(1), nil, testkit.F(2)})
	out, err := ImputeMean(tab, "v")
	if err != nil {
		t.Fatalf("ImputeMean returned error: %v", err)
	}
	if got := numAt(t, out, "v", 1); got != 1.5 {
		t.Errorf("filled value = %v, want 1.5", got)
	}
	// Input stays missing; transforms never mutate their input.
	if !tab.Rows[1]["v"].IsMissing() {
		t.Error("input table mutated")
	}
}

func TestImputeMean_ThirdsRounding(t *testing.T) {
	tab := testkit.NumericColumn("v", []*float64{testkit.F(1), testkit.F(1), testkit.F(2), nil})
	out, err := ImputeMean(tab, "v")
	if err != nil {
		t.Fatalf("ImputeMean returned error: %v", err)
	}
	// mean = 4/3 = 1.333..., rounded to 1.33.
	if got := numAt(t, out, "v", 3); got != 1.33 {
		t.Errorf("filled value = %v, want 1.33", got)
	}
}

// TestImputeMean_NoNumericData verifies the documented no-op: the input table
// comes back unchanged when there is nothing to average.
func TestImputeMean_NoNumericData(t *testing.T) {
	tab := testkit.NumericColumn("v", []*float64{nil, nil})
	out, err := ImputeMean(tab, "v")
	if err != nil {
		t.Fatalf("ImputeMean returned error: %v", err)
	}
	if out != tab {
		t.Error("expected the input table back for the no-op case")
	}
	if !out.Rows[0]["v"].IsMissing() {
		t.Error("cells should stay missing when no mean exists")
	}
}

func TestImputeMedian_EvenCount(t *testing.T) {
	tab := testkit.NumericColumn("v", []*float64{testkit.F(1), testkit.F(2), testkit.F(3), testkit.F(10), nil})
	out, err := ImputeMedian(tab, "v")
	if err != nil {
		t.Fatalf("ImputeMedian returned error: %v", err)
	}
	if got := numAt(t, out, "v", 4); got != 2.5 {
		t.Errorf("filled value = %v, want 2.5", got)
	}
}

// TestImputeMode_FirstSeenTieBreak verifies a frequency tie resolves to the
// value first encountered in row order.
func TestImputeMode_FirstSeenTieBreak(t *testing.T) {
	tab := table.New([]string{"c"}, []table.Row{
		{"c": table.NewText("b")},
		{"c": table.NewText("a")},
		{"c": table.NewText("a")},
		{"c": table.NewText("b")},
		{"c": table.Missing()},
	})
	out, err := ImputeMode(tab, "c")
	if err != nil {
		t.Fatalf("ImputeMode returned error: %v", err)
	}
	if got := out.Rows[4]["c"].Display(); got != "b" {
		t.Errorf("filled value = %q, want first-seen %q", got, "b")
	}
}

func TestImputeConstant(t *testing.T) {
	tab := testkit.NumericColumn("v", []*float64{nil, testkit.F(3)})
	out, err := ImputeConstant(tab, "v", table.NewNumber(-1))
	if err != nil {
		t.Fatalf("ImputeConstant returned error: %v", err)
	}
	if got := numAt(t, out, "v", 0); got != -1 {
		t.Errorf("filled value = %v, want -1", got)
	}
	if got := numAt(t, out, "v", 1); got != 3 {
		t.Errorf("present value changed to %v", got)
	}
}

// TestImputeFFill_LeadingGapStaysMissing verifies forward fill carries the
// last seen value and leaves untouchable leading gaps alone.
func TestImputeFFill_LeadingGapStaysMissing(t *testing.T) {
	tab := testkit.NumericColumn("v", []*float64{nil, testkit.F(1), nil, nil, testkit.F(4), nil})
	out, err := ImputeFFill(tab, "v")
	if err != nil {
		t.Fatalf("ImputeFFill returned error: %v", err)
	}
	if !out.Rows[0]["v"].IsMissing() {
		t.Error("leading gap should stay missing")
	}
	if got := numAt(t, out, "v", 2); got != 1 {
		t.Errorf("row 2 = %v, want carried 1", got)
	}
	if got := numAt(t, out, "v", 3); got != 1 {
		t.Errorf("row 3 = %v, want carried 1", got)
	}
	if got := numAt(t, out, "v", 5); got != 4 {
		t.Errorf("row 5 = %v, want carried 4", got)
	}
}

func TestImputeBFill_TrailingGapStaysMissing(t *testing.T) {
	tab := testkit.NumericColumn("v", []*float64{nil, testkit.F(1), nil, testkit.F(4), nil})
	out, err := ImputeBFill(tab, "v")
	if err != nil {
		t.Fatalf("ImputeBFill returned error: %v", err)
	}
	if got := numAt(t, out, "v", 0); got != 1 {
		t.Errorf("row 0 = %v, want pulled-back 1", got)
	}
	if got := numAt(t, out, "v", 2); got != 4 {
		t.Errorf("row 2 = %v, want pulled-back 4", got)
	}
	if !out.Rows[4]["v"].IsMissing() {
		t.Error("trailing gap should stay missing")
	}
}

// TestImputeInterpolate_LinearByRowIndex pins the interpolation convention:
// position within the gap, not value count, determines the weight.
func TestImputeInterpolate_LinearByRowIndex(t *testing.T) {
	tab := testkit.NumericColumn("v", []*float64{testkit.F(10), nil, nil, testkit.F(40)})
	out, err := ImputeInterpolate(tab, "v")
	if err != nil {
		t.Fatalf("ImputeInterpolate returned error: %v", err)
	}
	if got := numAt(t, out, "v", 1); got != 20 {
		t.Errorf("row 1 = %v, want 20", got)
	}
	if got := numAt(t, out, "v", 2); got != 30 {
		t.Errorf("row 2 = %v, want 30", got)
	}
}

// TestImputeInterpolate_OneSidedCopies verifies edge gaps copy the single
// available neighbor instead of extrapolating.
func TestImputeInterpolate_OneSidedCopies(t *testing.T) {
	tab := testkit.NumericColumn("v", []*float64{nil, testkit.F(5), testkit.F(9), nil})
	out, err := ImputeInterpolate(tab, "v")
	if err != nil {
		t.Fatalf("ImputeInterpolate returned error: %v", err)
	}
	if got := numAt(t, out, "v", 0); got != 5 {
		t.Errorf("leading gap = %v, want copied 5", got)
	}
	if got := numAt(t, out, "v", 3); got != 9 {
		t.Errorf("trailing gap = %v, want copied 9", got)
	}
}

// TestImputeKNN_AveragesNearestNeighbors builds two clusters in feature
// space; the missing target must average its own cluster's targets.
func TestImputeKNN_AveragesNearestNeighbors(t *testing.T) {
	rows := []table.Row{
		{"x": table.NewNumber(1.0), "y": table.NewNumber(10)},
		{"x": table.NewNumber(1.1), "y": table.NewNumber(11)},
		{"x": table.NewNumber(0.9), "y": table.NewNumber(12)},
		{"x": table.NewNumber(1.2), "y": table.NewNumber(13)},
		{"x": table.NewNumber(0.8), "y": table.NewNumber(14)},
		{"x": table.NewNumber(50), "y": table.NewNumber(900)},
		{"x": table.NewNumber(51), "y": table.NewNumber(950)},
		{"x": table.NewNumber(1.0), "y": table.Missing()},
	}
	tab := table.New([]string{"x", "y"}, rows)
	out, err := ImputeKNN(tab, "y")
	if err != nil {
		t.Fatalf("ImputeKNN returned error: %v", err)
	}
	// Five nearest rows by x are the small-x cluster: mean(10..14) = 12.
	if got := numAt(t, out, "y", 7); got != 12 {
		t.Errorf("KNN fill = %v, want 12", got)
	}
}

// TestImputeKNN_FewerCandidatesThanK verifies k shrinks to the candidate
// count instead of erroring.
func TestImputeKNN_FewerCandidatesThanK(t *testing.T) {
	rows := []table.Row{
		{"x": table.NewNumber(1), "y": table.NewNumber(10)},
		{"x": table.NewNumber(2), "y": table.NewNumber(20)},
		{"x": table.NewNumber(3), "y": table.Missing()},
	}
	tab := table.New([]string{"x", "y"}, rows)
	out, err := ImputeKNN(tab, "y")
	if err != nil {
		t.Fatalf("ImputeKNN returned error: %v", err)
	}
	if got := numAt(t, out, "y", 2); got != 15 {
		t.Errorf("KNN fill = %v, want mean of both candidates 15", got)
	}
}

func TestDropMissing(t *testing.T) {
	tab := testkit.NumericColumn("v", []*float64{testkit.F(1), nil, testkit.F(3), nil})
	out, err := DropMissing(tab, "v")
	if err != nil {
		t.Fatalf("DropMissing returned error: %v", err)
	}
	if out.RowCount() != 2 {
		t.Fatalf("RowCount = %d, want 2", out.RowCount())
	}
	if numAt(t, out, "v", 0) != 1 || numAt(t, out, "v", 1) != 3 {
		t.Error("surviving rows out of order")
	}
	if tab.RowCount() != 4 {
		t.Error("input table mutated")
	}
}

func TestImputation_UnknownColumn(t *testing.T) {
	tab := testkit.SmallTable()
	if _, err := ImputeMean(tab, "nope"); !core.IsColumnNotFound(err) {
		t.Errorf("ImputeMean: expected column-not-found, got %v", err)
	}
	if _, err := ImputeMode(tab, "nope"); !core.IsColumnNotFound(err) {
		t.Errorf("ImputeMode: expected column-not-found, got %v", err)
	}
	if _, err := DropMissing(tab, "nope"); !core.IsColumnNotFound(err) {
		t.Errorf("DropMissing: expected column-not-found, got %v", err)
	}
}
