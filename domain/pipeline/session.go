// Package pipeline defines the cleaning session: the single owner of the
// current table state and its transformation journal. The engine itself is
// stateless; sessions are where mutation lives.
package pipeline

import (
	"time"

	"scour/domain/core"
	"scour/domain/journal"
	"scour/domain/table"
)

// Session owns one dataset's cleaning state. Original is the untouched import
// kept for reset; Current is the latest transformed table. Sessions are
// isolated from each other: operators on one session never observe another.
type Session struct {
	ID        core.SessionID   `json:"id"`
	Name      string           `json:"name"`
	Original  *table.Table     `json:"-"`
	Current   *table.Table     `json:"-"`
	Journal   *journal.Journal `json:"-"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewSession creates a session around an imported table.
func NewSession(name string, t *table.Table) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        core.SessionID(core.NewID()),
		Name:      name,
		Original:  t.Clone(),
		Current:   t,
		Journal:   journal.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy: tables and journal are independent of the
// receiver. The identity and timestamps carry over unchanged.
func (s *Session) Clone() *Session {
	return &Session{
		ID:        s.ID,
		Name:      s.Name,
		Original:  s.Original.Clone(),
		Current:   s.Current.Clone(),
		Journal:   journal.FromEntries(s.Journal.Entries()),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// Reset restores the original imported table. The journal keeps its history
// and records the reset itself; entries are never removed.
func (s *Session) Reset() {
	s.Current = s.Original.Clone()
	s.Journal.Append("Reset to original imported data")
	s.UpdatedAt = time.Now().UTC()
}
