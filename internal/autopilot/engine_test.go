package autopilot

import (
	"strings"
	"testing"

	"scour/domain/table"
	"scour/internal/testkit"
)

// idTable builds a table with a unique id column plus one value column, so
// the duplicate phase never collapses rows the test cares about.
func idTable(name string, values []*float64) *table.Table {
	rows := make([]table.Row, len(values))
	for i, v := range values {
		cell := table.Missing()
		if v != nil {
			cell = table.NewNumber(*v)
		}
		rows[i] = table.Row{
			"id": table.NewNumber(float64(i + 1)),
			name: cell,
		}
	}
	return table.New([]string{"id", name}, rows)
}

func entriesContaining(entries []string, substr string) []string {
	var out []string
	for _, e := range entries {
		if strings.Contains(e, substr) {
			out = append(out, e)
		}
	}
	return out
}

// TestRun_EndToEnd exercises the full sequence on the dirty fixture: exact
// duplicates removed, missing cells imputed, the categorical city one-hot
// encoded, the target-like column label encoded and numeric columns scaled.
func TestRun_EndToEnd(t *testing.T) {
	res := Run(testkit.DirtyTable(40))

	if res.Table.RowCount() != 40 {
		t.Errorf("RowCount = %d, want 40 after removing the 2 seeded duplicates", res.Table.RowCount())
	}

	// Age had ~15% missing: imputed (median, above the 10%% mean cutoff).
	for i, r := range res.Table.Rows {
		if r["age"].IsMissing() {
			t.Fatalf("row %d age still missing after run", i)
		}
	}
	ageEntries := entriesContaining(res.Entries, "'age'")
	if len(ageEntries) == 0 {
		t.Fatal("no journal entry for age")
	}
	if !strings.Contains(ageEntries[0], "median") {
		t.Errorf("age imputation entry = %q, want median (15%% missing)", ageEntries[0])
	}

	// City is categorical with 4 values: one-hot into city_* columns, source
	// dropped.
	if res.Table.HasColumn("city") {
		t.Error("city column should be dropped after one-hot encoding")
	}
	cityCols := 0
	for _, name := range res.Table.ColumnNames {
		if strings.HasPrefix(name, "city_") {
			cityCols++
		}
	}
	if cityCols != 4 {
		t.Errorf("city indicator columns = %d, want 4", cityCols)
	}

	// Indicator columns were born after the scaling snapshot: values stay 0/1.
	for _, name := range res.Table.ColumnNames {
		if !strings.HasPrefix(name, "city_") {
			continue
		}
		for i, r := range res.Table.Rows {
			if v, _ := r[name].Float(); v != 0 && v != 1 {
				t.Fatalf("row %d %s = %v, indicator columns must not be scaled", i, name, v)
			}
		}
	}

	// Target-like name: label encoded in place to 0/1 codes.
	if !res.Table.HasColumn("target") {
		t.Fatal("target column should survive label encoding")
	}
	for i, r := range res.Table.Rows {
		v, ok := r["target"].Float()
		if !ok || (v != 0 && v != 1) {
			t.Fatalf("row %d target = %v, want label code 0 or 1", i, r["target"])
		}
	}

	// Every entry carries its phase tag.
	for _, e := range res.Entries {
		if !strings.HasPrefix(e, "[") {
			t.Errorf("entry %q missing phase tag", e)
		}
	}
}

// TestRun_Deterministic verifies two runs over fresh copies of the same data
// produce identical tables and journals.
func TestRun_Deterministic(t *testing.T) {
	first := Run(testkit.DirtyTable(40))
	second := Run(testkit.DirtyTable(40))

	if len(first.Entries) != len(second.Entries) {
		t.Fatalf("entry counts differ: %d vs %d", len(first.Entries), len(second.Entries))
	}
	for i := range first.Entries {
		if first.Entries[i] != second.Entries[i] {
			t.Errorf("entry %d differs:\n%q\n%q", i, first.Entries[i], second.Entries[i])
		}
	}

	if len(first.Table.ColumnNames) != len(second.Table.ColumnNames) {
		t.Fatalf("column counts differ")
	}
	for i := range first.Table.Rows {
		a := first.Table.RowSignature(first.Table.Rows[i])
		b := second.Table.RowSignature(second.Table.Rows[i])
		if a != b {
			t.Fatalf("row %d differs between runs", i)
		}
	}
}

// TestRun_MeanBelowTenPercent: symmetric, outlier-free column missing fewer
// than 10% of its cells gets the mean.
func TestRun_MeanBelowTenPercent(t *testing.T) {
	values := []*float64{
		testkit.F(1), testkit.F(3), testkit.F(4), testkit.F(4), testkit.F(5),
		testkit.F(6), testkit.F(7), testkit.F(8), testkit.F(9), testkit.F(10),
		nil, // 1 of 11 = 9.1%
	}
	res := Run(idTable("v", values))
	entries := entriesContaining(res.Entries, "'v'")
	if len(entries) == 0 || !strings.Contains(entries[0], "mean") {
		t.Fatalf("entries = %v, want mean imputation", entries)
	}
	if res.Table.Rows[10]["v"].IsMissing() {
		t.Error("gap still missing after run")
	}
}

// TestRun_MedianAtExactlyTenPercent: the mean cutoff is strict, so 10%
// missing falls to the median even for a symmetric outlier-free column.
func TestRun_MedianAtExactlyTenPercent(t *testing.T) {
	values := []*float64{
		testkit.F(1), testkit.F(3), testkit.F(4), testkit.F(4), testkit.F(5),
		testkit.F(6), testkit.F(7), testkit.F(8), testkit.F(9),
		nil, // 1 of 10 = 10%
	}
	res := Run(idTable("v", values))
	entries := entriesContaining(res.Entries, "'v'")
	if len(entries) == 0 || !strings.Contains(entries[0], "median") {
		t.Fatalf("entries = %v, want median imputation at the boundary", entries)
	}
	if res.Table.Rows[9]["v"].IsMissing() {
		t.Error("gap still missing after run")
	}
}

// TestRun_KeepsColumnAtExactlyFortyPercent: the drop cutoff is strict, so a
// column missing exactly 40% is imputed, not dropped.
func TestRun_KeepsColumnAtExactlyFortyPercent(t *testing.T) {
	values := []*float64{
		testkit.F(1), testkit.F(2), testkit.F(3), testkit.F(4),
		testkit.F(5), testkit.F(6), nil, nil, nil, nil,
	}
	res := Run(idTable("v", values))
	if res.Table.RowCount() != 10 {
		t.Fatalf("RowCount = %d, want all 10 rows kept at the 40%% boundary", res.Table.RowCount())
	}
	for i, r := range res.Table.Rows {
		if r["v"].IsMissing() {
			t.Fatalf("row %d still missing, want imputation", i)
		}
	}
}

// TestRun_DropsRowsAboveFortyPercent: past the cutoff the offending rows are
// dropped instead of imputed.
func TestRun_DropsRowsAboveFortyPercent(t *testing.T) {
	values := []*float64{
		testkit.F(1), testkit.F(2), testkit.F(3), testkit.F(4), testkit.F(5),
		nil, nil, nil, nil, nil,
	}
	res := Run(idTable("v", values))
	if res.Table.RowCount() != 5 {
		t.Fatalf("RowCount = %d, want 5 after dropping 50%%-missing rows", res.Table.RowCount())
	}
	entries := entriesContaining(res.Entries, "Dropped")
	if len(entries) != 1 {
		t.Errorf("drop entries = %v, want exactly one", entries)
	}
}

// TestRun_NoFindingsNoEntries verifies a clean table passes through with an
// empty journal (scaling excepted, which always normalizes numerics).
func TestRun_NoFindingsNoEntries(t *testing.T) {
	values := []*float64{testkit.F(1), testkit.F(2), testkit.F(3), testkit.F(4)}
	res := Run(idTable("v", values))
	for _, e := range res.Entries {
		if !strings.HasPrefix(e, "[scaling]") {
			t.Errorf("unexpected non-scaling entry on clean data: %q", e)
		}
	}
	if len(res.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", res.Skipped)
	}
}

func TestIsTargetLikeName(t *testing.T) {
	cases := map[string]bool{
		"target":      true,
		"churn_flag":  true,
		"Survived":    true,
		"y":           true,
		"price_range": true,
		"city":        false, // "y" matches whole names only
		"age":         false,
		"income":      false,
	}
	for name, want := range cases {
		if got := isTargetLikeName(name); got != want {
			t.Errorf("isTargetLikeName(%q) = %v, want %v", name, got, want)
		}
	}
}
