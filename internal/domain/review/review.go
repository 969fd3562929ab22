package review

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Review is a buyer's rating of a product they received.
type Review struct {
	ID        int64     `json:"id"`
	ReviewID  uuid.UUID `json:"reviewId"`
	ProductID uuid.UUID `json:"productId"`
	UserID    uuid.UUID `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}

// Repository defines persistence for reviews.
type Repository interface {
	Create(ctx context.Context, r *Review) error
	Exists(ctx context.Context, productID, userID uuid.UUID) (bool, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*Review, error)
}
