package favorite

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Favorite marks a product saved by a user.
type Favorite struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	ProductID uuid.UUID `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository defines persistence for favorites.
type Repository interface {
	// Add is idempotent per (user, product).
	Add(ctx context.Context, fav *Favorite) error
	Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Favorite, error)
}
