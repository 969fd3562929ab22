package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgeup/marketplace/internal/domain/favorite"
)

// FavoriteRepository implements favorite.Repository.
type FavoriteRepository struct {
	pool *pgxpool.Pool
}

func NewFavoriteRepository(pool *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

func (r *FavoriteRepository) Add(ctx context.Context, fav *favorite.Favorite) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO favorites (user_id, product_id, created_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`, fav.UserID, fav.ProductID, fav.CreatedAt)
	return mapError("favorites.add", err)
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return false, mapError("favorites.remove", err)
	}
	return res.RowsAffected() > 0, nil
}

func (r *FavoriteRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*favorite.Favorite, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, product_id, created_at FROM favorites
		WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, mapError("favorites.list", err)
	}
	defer rows.Close()
	var out []*favorite.Favorite
	for rows.Next() {
		var f favorite.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.ProductID, &f.CreatedAt); err != nil {
			return nil, mapError("favorites.list", err)
		}
		out = append(out, &f)
	}
	return out, mapError("favorites.list", rows.Err())
}
