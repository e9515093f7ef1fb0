package ports

import (
	"context"

	"scour/domain/core"
	"scour/domain/pipeline"
)

// SessionStore persists cleaning sessions. Implementations must keep sessions
// isolated per ID; the service layer serializes operators within a session.
type SessionStore interface {
	Save(ctx context.Context, s *pipeline.Session) error
	Get(ctx context.Context, id core.SessionID) (*pipeline.Session, error)
	List(ctx context.Context) ([]*pipeline.Session, error)
	Delete(ctx context.Context, id core.SessionID) error
}
