package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgeup/marketplace/internal/domain/approval"
)

const requestColumns = `id, request_id, user_id, pitch, status, reviewed_by, requested_at, decided_at`

// ApprovalRepository implements approval.Repository over trusted_requests.
type ApprovalRepository struct {
	pool *pgxpool.Pool
}

func NewApprovalRepository(pool *pgxpool.Pool) *ApprovalRepository {
	return &ApprovalRepository{pool: pool}
}

func (r *ApprovalRepository) Create(ctx context.Context, req *approval.Request) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO trusted_requests
		(request_id, user_id, pitch, status, reviewed_by, requested_at, decided_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, req.RequestID, req.UserID, req.Pitch, req.Status, req.ReviewedBy, req.RequestedAt, req.DecidedAt).Scan(&req.ID)
	return mapError("trusted_requests.create", err)
}

// Update writes a decision if the row is still pending and reports whether
// it did.
func (r *ApprovalRepository) Update(ctx context.Context, req *approval.Request) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE trusted_requests
		SET status=$1, reviewed_by=$2, decided_at=$3
		WHERE request_id=$4 AND status='pending'
	`, req.Status, req.ReviewedBy, req.DecidedAt, req.RequestID)
	if err != nil {
		return false, mapError("trusted_requests.update", err)
	}
	return res.RowsAffected() > 0, nil
}

func (r *ApprovalRepository) GetByID(ctx context.Context, requestID uuid.UUID) (*approval.Request, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM trusted_requests WHERE request_id=$1`, requestID)
	req, err := scanRequest(row)
	return req, mapError("trusted_requests.get", err)
}

func (r *ApprovalRepository) GetPendingForUser(ctx context.Context, userID uuid.UUID) (*approval.Request, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM trusted_requests WHERE user_id=$1 AND status='pending'`, userID)
	req, err := scanRequest(row)
	return req, mapError("trusted_requests.get_pending", err)
}

func (r *ApprovalRepository) List(ctx context.Context, filter approval.Filter, limit, offset int) ([]*approval.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM trusted_requests`
	args := []interface{}{}
	idx := 1
	if filter.Status != nil {
		query += " WHERE status=$" + itoa(idx)
		args = append(args, *filter.Status)
		idx++
	}
	if filter.UserID != nil {
		query += addWhere(query) + " user_id=$" + itoa(idx)
		args = append(args, *filter.UserID)
		idx++
	}
	query += " ORDER BY requested_at DESC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("trusted_requests.list", err)
	}
	defer rows.Close()
	var out []*approval.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, mapError("trusted_requests.list", err)
		}
		out = append(out, req)
	}
	return out, mapError("trusted_requests.list", rows.Err())
}

func scanRequest(row pgx.Row) (*approval.Request, error) {
	var req approval.Request
	if err := row.Scan(&req.ID, &req.RequestID, &req.UserID, &req.Pitch, &req.Status, &req.ReviewedBy, &req.RequestedAt, &req.DecidedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}
