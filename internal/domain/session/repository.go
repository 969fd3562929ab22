package session

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for sessions.
type Repository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, sessionID uuid.UUID) (*Session, error)
	DeleteByID(ctx context.Context, sessionID uuid.UUID) error
	UpdateLastSeen(ctx context.Context, sessionID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int, error)
}
