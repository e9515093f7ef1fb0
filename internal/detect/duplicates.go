// Package detect implements the read-only quality detectors: duplicate rows,
// IQR outliers. Missingness comes straight off the column metadata and needs
// no separate pass.
package detect

import "scour/domain/table"

// RemoveDuplicates drops rows whose every column value compares equal to an
// earlier row, keeping the first occurrence of each group. Order-preserving.
func RemoveDuplicates(t *table.Table) (*table.Table, int) {
	seen := make(map[string]struct{}, len(t.Rows))
	out := t.Clone()
	kept := out.Rows[:0]
	for _, r := range out.Rows {
		sig := out.RowSignature(r)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		kept = append(kept, r)
	}
	removed := len(out.Rows) - len(kept)
	out.Rows = kept
	return out, removed
}
