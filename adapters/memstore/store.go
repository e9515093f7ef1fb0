// Package memstore is the default in-process session store. Good for a
// single-node service and for tests; swap in the postgres adapter for
// durability.
package memstore

import (
	"context"
	"sort"
	"sync"

	"scour/domain/core"
	"scour/domain/pipeline"
)

// Store keeps sessions in a mutex-guarded map.
type Store struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*pipeline.Session
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{sessions: make(map[core.SessionID]*pipeline.Session)}
}

// Save inserts or replaces a session. The store keeps its own clone so the
// caller cannot mutate stored state afterwards.
func (s *Store) Save(_ context.Context, session *pipeline.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	return nil
}

// Get fetches a session by ID. The result is a clone; mutating it never
// touches the stored session, matching the postgres adapter's value-copy
// semantics.
func (s *Store) Get(_ context.Context, id core.SessionID) (*pipeline.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// List returns cloned sessions ordered by creation time.
func (s *Store) List(_ context.Context) ([]*pipeline.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*pipeline.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Delete removes a session; deleting an unknown ID is not an error.
func (s *Store) Delete(_ context.Context, id core.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
