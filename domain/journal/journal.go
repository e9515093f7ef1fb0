// Package journal holds the append-only transformation log: one
// human-readable entry per applied operation, in application order.
package journal

import (
	"fmt"
	"strings"
)

// Journal is an ordered, append-only record of applied transformations.
// Entries are never removed or reordered.
type Journal struct {
	entries []string
}

// New creates an empty journal.
func New() *Journal {
	return &Journal{}
}

// FromEntries rebuilds a journal from persisted entries.
func FromEntries(entries []string) *Journal {
	return &Journal{entries: append([]string(nil), entries...)}
}

// Append records one applied operation.
func (j *Journal) Append(entry string) {
	j.entries = append(j.entries, entry)
}

// AppendAll records a batch of entries in order.
func (j *Journal) AppendAll(entries []string) {
	j.entries = append(j.entries, entries...)
}

// Entries returns a copy of the log in application order.
func (j *Journal) Entries() []string {
	return append([]string(nil), j.entries...)
}

// Len returns the number of recorded operations.
func (j *Journal) Len() int {
	return len(j.entries)
}

// Markdown renders the journal as a numbered markdown report.
func (j *Journal) Markdown() string {
	var b strings.Builder
	b.WriteString("# Transformation Journal\n\n")
	if len(j.entries) == 0 {
		b.WriteString("No transformations applied.\n")
		return b.String()
	}
	for i, e := range j.entries {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e)
	}
	return b.String()
}
