package transform

import (
	"errors"
	"testing"

	"scour/domain/core"
	"scour/domain/table"
	"scour/internal/testkit"
)

// TestEncodeOneHot_ColumnsAndValues verifies indicator columns appear in
// first-seen order after the existing columns, and the source is dropped.
func TestEncodeOneHot_ColumnsAndValues(t *testing.T) {
	out, err := EncodeOneHot(testkit.SmallTable(), "label")
	if err != nil {
		t.Fatalf("EncodeOneHot returned error: %v", err)
	}
	want := []string{"x", "label_a", "label_b"}
	if len(out.ColumnNames) != len(want) {
		t.Fatalf("columns = %v, want %v", out.ColumnNames, want)
	}
	for i, name := range want {
		if out.ColumnNames[i] != name {
			t.Fatalf("columns = %v, want %v", out.ColumnNames, want)
		}
	}

	// labels alternate a,b,a,b,a,b.
	for i := 0; i < 6; i++ {
		a := numAt(t, out, "label_a", i)
		b := numAt(t, out, "label_b", i)
		if a+b != 1 {
			t.Errorf("row %d indicators sum to %v, want exactly one set", i, a+b)
		}
		if i%2 == 0 && a != 1 {
			t.Errorf("row %d label_a = %v, want 1", i, a)
		}
	}
}

// TestEncodeOneHot_MissingSourceAllZeros verifies a row with a missing source
// cell gets 0 in every indicator column.
func TestEncodeOneHot_MissingSourceAllZeros(t *testing.T) {
	tab := table.New([]string{"c"}, []table.Row{
		{"c": table.NewText("a")},
		{"c": table.Missing()},
		{"c": table.NewText("b")},
	})
	out, err := EncodeOneHot(tab, "c")
	if err != nil {
		t.Fatalf("EncodeOneHot returned error: %v", err)
	}
	if numAt(t, out, "c_a", 1) != 0 || numAt(t, out, "c_b", 1) != 0 {
		t.Error("missing source row must be all zeros")
	}
}

func TestEncodeOrdinal_RanksAndUnknowns(t *testing.T) {
	tab := table.New([]string{"size"}, []table.Row{
		{"size": table.NewText("medium")},
		{"size": table.NewText("low")},
		{"size": table.NewText("high")},
		{"size": table.NewText("weird")},
		{"size": table.Missing()},
	})
	out, err := EncodeOrdinal(tab, "size", []string{"low", "medium", "high"})
	if err != nil {
		t.Fatalf("EncodeOrdinal returned error: %v", err)
	}
	wantRanks := []float64{1, 0, 2, -1, -1}
	for i, want := range wantRanks {
		if got := numAt(t, out, "size", i); got != want {
			t.Errorf("row %d rank = %v, want %v", i, got, want)
		}
	}
}

// TestEncodeOrdinal_EmptyOrder verifies the malformed-order sentinel; an
// empty category list can never be a valid ranking.
func TestEncodeOrdinal_EmptyOrder(t *testing.T) {
	_, err := EncodeOrdinal(testkit.SmallTable(), "label", nil)
	if !errors.Is(err, core.ErrMalformedOrdinalOrder) {
		t.Fatalf("expected ErrMalformedOrdinalOrder, got %v", err)
	}
}

// TestEncodeLabel_FirstSeenOrder verifies codes are assigned 0-based in first
// appearance order and missing cells stay missing.
func TestEncodeLabel_FirstSeenOrder(t *testing.T) {
	tab := table.New([]string{"c"}, []table.Row{
		{"c": table.NewText("beta")},
		{"c": table.NewText("alpha")},
		{"c": table.Missing()},
		{"c": table.NewText("beta")},
	})
	out, err := EncodeLabel(tab, "c")
	if err != nil {
		t.Fatalf("EncodeLabel returned error: %v", err)
	}
	if got := numAt(t, out, "c", 0); got != 0 {
		t.Errorf("beta = %v, want first-seen code 0", got)
	}
	if got := numAt(t, out, "c", 1); got != 1 {
		t.Errorf("alpha = %v, want code 1", got)
	}
	if !out.Rows[2]["c"].IsMissing() {
		t.Error("missing cell must stay missing under label encoding")
	}
	if got := numAt(t, out, "c", 3); got != 0 {
		t.Errorf("repeat beta = %v, want code 0", got)
	}
}

func TestEncode_UnknownColumn(t *testing.T) {
	tab := testkit.SmallTable()
	if _, err := EncodeOneHot(tab, "nope"); !core.IsColumnNotFound(err) {
		t.Errorf("EncodeOneHot: expected column-not-found, got %v", err)
	}
	if _, err := EncodeOrdinal(tab, "nope", []string{"a"}); !core.IsColumnNotFound(err) {
		t.Errorf("EncodeOrdinal: expected column-not-found, got %v", err)
	}
	if _, err := EncodeLabel(tab, "nope"); !core.IsColumnNotFound(err) {
		t.Errorf("EncodeLabel: expected column-not-found, got %v", err)
	}
}
