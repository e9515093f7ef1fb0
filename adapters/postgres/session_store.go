// Package postgres persists cleaning sessions and their journals when a
// DATABASE_URL is configured. Tables are serialized as JSON; the Value
// variant round-trips losslessly through JSON scalars.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scour/domain/core"
	"scour/domain/journal"
	"scour/domain/pipeline"
	"scour/domain/table"
	"scour/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// SessionStore implements ports.SessionStore over PostgreSQL.
type SessionStore struct {
	db *sqlx.DB
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a PostgreSQL-backed session store.
func NewSessionStore(db *sqlx.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Ready pings the database so the ops server can report readiness.
func (s *SessionStore) Ready() error {
	return s.db.Ping()
}

// Connect opens and pings a database connection.
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the schema when absent.
func Migrate(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS cleaning_sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		original_table JSONB NOT NULL,
		current_table JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS journal_entries (
		session_id TEXT NOT NULL REFERENCES cleaning_sessions(id) ON DELETE CASCADE,
		position INT NOT NULL,
		entry TEXT NOT NULL,
		PRIMARY KEY (session_id, position)
	);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate cleaning schema: %w", err)
	}
	return nil
}

type sessionRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Original  []byte    `db:"original_table"`
	Current   []byte    `db:"current_table"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Save upserts the session and rewrites its journal rows in order. The
// journal is append-only in the domain, so a full rewrite preserves order.
func (s *SessionStore) Save(ctx context.Context, session *pipeline.Session) error {
	original, err := json.Marshal(session.Original)
	if err != nil {
		return fmt.Errorf("marshal original table: %w", err)
	}
	current, err := json.Marshal(session.Current)
	if err != nil {
		return fmt.Errorf("marshal current table: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cleaning_sessions (id, name, original_table, current_table, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET current_table = $4, updated_at = $6
	`, session.ID.String(), session.Name, original, current, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM journal_entries WHERE session_id = $1`, session.ID.String()); err != nil {
		return fmt.Errorf("clear journal: %w", err)
	}
	for i, entry := range session.Journal.Entries() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO journal_entries (session_id, position, entry) VALUES ($1, $2, $3)
		`, session.ID.String(), i, entry); err != nil {
			return fmt.Errorf("save journal entry: %w", err)
		}
	}
	return tx.Commit()
}

// Get loads a session with its journal.
func (s *SessionStore) Get(ctx context.Context, id core.SessionID) (*pipeline.Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, original_table, current_table, created_at, updated_at
		FROM cleaning_sessions WHERE id = $1
	`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var entries []string
	if err := s.db.SelectContext(ctx, &entries, `
		SELECT entry FROM journal_entries WHERE session_id = $1 ORDER BY position
	`, id.String()); err != nil {
		return nil, err
	}
	return row.toSession(entries)
}

// List returns all sessions ordered by creation time.
func (s *SessionStore) List(ctx context.Context) ([]*pipeline.Session, error) {
	var rows []sessionRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, original_table, current_table, created_at, updated_at
		FROM cleaning_sessions ORDER BY created_at
	`); err != nil {
		return nil, err
	}
	out := make([]*pipeline.Session, 0, len(rows))
	for _, row := range rows {
		var entries []string
		if err := s.db.SelectContext(ctx, &entries, `
			SELECT entry FROM journal_entries WHERE session_id = $1 ORDER BY position
		`, row.ID); err != nil {
			return nil, err
		}
		session, err := row.toSession(entries)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	return out, nil
}

// Delete removes a session; the journal cascades.
func (s *SessionStore) Delete(ctx context.Context, id core.SessionID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cleaning_sessions WHERE id = $1`, id.String())
	return err
}

func (r sessionRow) toSession(entries []string) (*pipeline.Session, error) {
	var original, current table.Table
	if err := json.Unmarshal(r.Original, &original); err != nil {
		return nil, fmt.Errorf("unmarshal original table: %w", err)
	}
	if err := json.Unmarshal(r.Current, &current); err != nil {
		return nil, fmt.Errorf("unmarshal current table: %w", err)
	}
	return &pipeline.Session{
		ID:        core.SessionID(r.ID),
		Name:      r.Name,
		Original:  &original,
		Current:   &current,
		Journal:   journal.FromEntries(entries),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}
