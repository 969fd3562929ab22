package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgeup/marketplace/internal/domain/session"
)

// SessionRepository implements session.Repository.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO sessions
		(session_id, user_id, created_at, expires_at, last_seen_at, user_agent, ip_address)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, s.SessionID, s.UserID, s.CreatedAt, s.ExpiresAt, s.LastSeenAt, s.UserAgent, s.IPAddress).Scan(&s.ID)
	return mapError("sessions.create", err)
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID uuid.UUID) (*session.Session, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, session_id, user_id, created_at, expires_at, last_seen_at, user_agent, ip_address::text
		FROM sessions WHERE session_id=$1
	`, sessionID)
	s, err := scanSession(row)
	return s, mapError("sessions.get", err)
}

func (r *SessionRepository) DeleteByID(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE session_id=$1`, sessionID)
	return mapError("sessions.delete", err)
}

func (r *SessionRepository) UpdateLastSeen(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE sessions SET last_seen_at=$1 WHERE session_id=$2`, time.Now().UTC(), sessionID)
	return mapError("sessions.touch", err)
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, time.Now().UTC())
	if err != nil {
		return 0, mapError("sessions.delete_expired", err)
	}
	return int(res.RowsAffected()), nil
}

func scanSession(row pgx.Row) (*session.Session, error) {
	var s session.Session
	if err := row.Scan(&s.ID, &s.SessionID, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &s.LastSeenAt, &s.UserAgent, &s.IPAddress); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
