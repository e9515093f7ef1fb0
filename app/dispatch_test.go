package app

import (
	"errors"
	"strings"
	"testing"

	"scour/domain/core"
	"scour/internal/testkit"
)

func TestApplyOperation_RemoveDuplicates(t *testing.T) {
	next, entry, err := applyOperation(testkit.DirtyTable(20), OpRemoveDuplicates, Params{})
	if err != nil {
		t.Fatalf("applyOperation returned error: %v", err)
	}
	if next.RowCount() != 20 {
		t.Errorf("RowCount = %d, want 20", next.RowCount())
	}
	if !strings.Contains(entry, "2 duplicate") {
		t.Errorf("entry = %q, want duplicate count", entry)
	}
}

func TestApplyOperation_ImputationRecordsNullCount(t *testing.T) {
	tab := testkit.NumericColumn("v", []*float64{testkit.F(1), nil, nil, testkit.F(4)})
	next, entry, err := applyOperation(tab, OpImputeMedian, Params{"column": "v"})
	if err != nil {
		t.Fatalf("applyOperation returned error: %v", err)
	}
	if !strings.Contains(entry, "Imputed 2 missing value(s) in 'v' using median") {
		t.Errorf("entry = %q", entry)
	}
	for i, r := range next.Rows {
		if r["v"].IsMissing() {
			t.Errorf("row %d still missing", i)
		}
	}
}

func TestApplyOperation_SelectColumns(t *testing.T) {
	// []interface{} mirrors what JSON request decoding hands over.
	next, entry, err := applyOperation(testkit.DirtyTable(10), OpSelectColumns, Params{
		"columns": []interface{}{"id", "age"},
	})
	if err != nil {
		t.Fatalf("applyOperation returned error: %v", err)
	}
	if next.ColumnCount() != 2 {
		t.Errorf("ColumnCount = %d, want 2", next.ColumnCount())
	}
	if !strings.Contains(entry, "Selected 2 column(s)") {
		t.Errorf("entry = %q", entry)
	}
}

func TestApplyOperation_ImputeConstantValueTypes(t *testing.T) {
	tab := testkit.NumericColumn("v", []*float64{nil, testkit.F(2)})
	next, _, err := applyOperation(tab, OpImputeConstant, Params{"column": "v", "value": float64(0)})
	if err != nil {
		t.Fatalf("applyOperation returned error: %v", err)
	}
	if v, _ := next.Rows[0]["v"].Float(); v != 0 {
		t.Errorf("filled = %v, want 0", v)
	}
}

func TestApplyOperation_WinsorCustomBounds(t *testing.T) {
	_, entry, err := applyOperation(testkit.SmallTable(), OpTreatOutliersWinsor, Params{
		"column": "x",
		"lower":  10.0,
		"upper":  90.0,
	})
	if err != nil {
		t.Fatalf("applyOperation returned error: %v", err)
	}
	if !strings.Contains(entry, "winsorization (10/90)") {
		t.Errorf("entry = %q, want custom percentiles recorded", entry)
	}
}

// Values 1..10 carry no Tukey outliers, yet 10/90 winsorization clamps the
// minimum: the journal entry counts the cells actually clamped, not the
// fence-detected set.
func TestApplyOperation_WinsorEntryCountsClampedCells(t *testing.T) {
	vals := make([]*float64, 0, 10)
	for i := 1; i <= 10; i++ {
		vals = append(vals, testkit.F(float64(i)))
	}
	next, entry, err := applyOperation(testkit.NumericColumn("v", vals), OpTreatOutliersWinsor, Params{
		"column": "v",
		"lower":  10.0,
		"upper":  90.0,
	})
	if err != nil {
		t.Fatalf("applyOperation returned error: %v", err)
	}
	if !strings.Contains(entry, "Treated 1 outlier(s)") {
		t.Errorf("entry = %q, want exactly one treated cell recorded", entry)
	}
	if v, _ := next.Rows[0]["v"].Float(); v != 2 {
		t.Errorf("clamped minimum = %v, want 2", v)
	}
}

func TestApplyOperation_UnknownOperation(t *testing.T) {
	_, _, err := applyOperation(testkit.SmallTable(), "proofread", Params{})
	if !errors.Is(err, core.ErrUnknownOperation) {
		t.Fatalf("expected ErrUnknownOperation, got %v", err)
	}
}

func TestApplyOperation_MissingColumnParam(t *testing.T) {
	_, _, err := applyOperation(testkit.SmallTable(), OpImputeMean, Params{})
	if !errors.Is(err, core.ErrMissingParam) {
		t.Fatalf("expected ErrMissingParam, got %v", err)
	}
}

func TestApplyOperation_UnknownColumnAborts(t *testing.T) {
	_, _, err := applyOperation(testkit.SmallTable(), OpMinMaxScale, Params{"column": "ghost"})
	if !core.IsColumnNotFound(err) {
		t.Fatalf("expected column-not-found, got %v", err)
	}
}

func TestParams_StringList(t *testing.T) {
	p := Params{"order": []interface{}{"a", "b"}}
	got, err := p.StringList("order")
	if err != nil || len(got) != 2 {
		t.Fatalf("StringList = %v, %v", got, err)
	}
	p = Params{"order": []interface{}{"a", 3}}
	if _, err := p.StringList("order"); err == nil {
		t.Error("mixed-type list should fail")
	}
}
