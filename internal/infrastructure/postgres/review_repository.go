package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgeup/marketplace/internal/domain/review"
)

// ReviewRepository implements review.Repository.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (review_id, product_id, user_id, rating, comment, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, rv.ReviewID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt).Scan(&rv.ID)
	return mapError("reviews.create", err)
}

func (r *ReviewRepository) Exists(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE product_id=$1 AND user_id=$2)`, productID, userID).Scan(&ok)
	if err != nil {
		return false, mapError("reviews.exists", err)
	}
	return ok, nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*review.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, review_id, product_id, user_id, rating, comment, created_at FROM reviews
		WHERE product_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, productID, limit, offset)
	if err != nil {
		return nil, mapError("reviews.list", err)
	}
	defer rows.Close()
	var out []*review.Review
	for rows.Next() {
		var rv review.Review
		if err := rows.Scan(&rv.ID, &rv.ReviewID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, mapError("reviews.list", err)
		}
		out = append(out, &rv)
	}
	return out, mapError("reviews.list", rows.Err())
}
