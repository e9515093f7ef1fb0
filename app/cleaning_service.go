// Package app wires the cleaning engine to session state: named-operation
// dispatch, autopilot runs, journal ownership and per-session isolation.
package app

import (
	"context"
	"sync"
	"time"

	"scour/domain/core"
	"scour/domain/pipeline"
	"scour/domain/table"
	"scour/internal/autopilot"
	"scour/internal/describe"
	"scour/ports"
)

// CleaningService orchestrates cleaning sessions. Operators within one
// session run strictly sequentially; sessions never share state.
type CleaningService struct {
	store ports.SessionStore

	mu    sync.Mutex
	locks map[core.SessionID]*sync.Mutex
}

// NewCleaningService creates a service over the given session store.
func NewCleaningService(store ports.SessionStore) *CleaningService {
	return &CleaningService{
		store: store,
		locks: make(map[core.SessionID]*sync.Mutex),
	}
}

// sessionLock returns the per-session mutex, creating it on first use.
func (s *CleaningService) sessionLock(id core.SessionID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[id]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[id] = l
	return l
}

// CreateSession starts a cleaning session around an imported table.
func (s *CleaningService) CreateSession(ctx context.Context, name string, t *table.Table) (*pipeline.Session, error) {
	session := pipeline.NewSession(name, t)
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession fetches one session by ID.
func (s *CleaningService) GetSession(ctx context.Context, id core.SessionID) (*pipeline.Session, error) {
	return s.store.Get(ctx, id)
}

// ListSessions returns all known sessions.
func (s *CleaningService) ListSessions(ctx context.Context) ([]*pipeline.Session, error) {
	return s.store.List(ctx)
}

// DeleteSession removes a session and forgets its lock.
func (s *CleaningService) DeleteSession(ctx context.Context, id core.SessionID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
	return nil
}

// Apply runs one named operator against the session's current table. On
// success the new table replaces the current one and the journal gains one
// entry; on error the session is untouched.
func (s *CleaningService) Apply(ctx context.Context, id core.SessionID, op string, params Params) (*pipeline.Session, string, error) {
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	next, entry, err := applyOperation(session.Current, op, params)
	if err != nil {
		return nil, "", err
	}
	session.Current = next
	session.Journal.Append(entry)
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, "", err
	}
	return session, entry, nil
}

// RunAutopilot executes the full rule-based cleaning sequence on the session
// and appends the phase-tagged entries to its journal.
func (s *CleaningService) RunAutopilot(ctx context.Context, id core.SessionID) (*pipeline.Session, *autopilot.Result, error) {
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	result := autopilot.Run(session.Current)
	session.Current = result.Table
	session.Journal.AppendAll(result.Entries)
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, nil, err
	}
	return session, result, nil
}

// Reset restores the session's original imported table.
func (s *CleaningService) Reset(ctx context.Context, id core.SessionID) (*pipeline.Session, error) {
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Reset()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Columns returns fresh per-column metadata for the session's current table.
func (s *CleaningService) Columns(ctx context.Context, id core.SessionID) ([]table.Column, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return session.Current.Profile(), nil
}

// ColumnStats returns the statistics snapshot for one column, nil when the
// column holds no numeric data.
func (s *CleaningService) ColumnStats(ctx context.Context, id core.SessionID, column string) (*describe.ColumnStats, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return describe.Column(session.Current, column)
}

// Correlation computes the Pearson matrix over the session's numeric columns,
// or over an explicit column list when given.
func (s *CleaningService) Correlation(ctx context.Context, id core.SessionID, columns []string) ([][]float64, []string, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if len(columns) == 0 {
		for _, c := range session.Current.Profile() {
			if c.Type == table.TypeNumeric {
				columns = append(columns, c.Name)
			}
		}
	}
	return describe.CorrelationMatrix(session.Current, columns)
}
