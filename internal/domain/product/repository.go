package product

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"

	"github.com/google/uuid"
)

// Filter controls product listing.
type Filter struct {
	Category *Category
	SellerID *uuid.UUID
	Status   *Status
	Search   *string
	MinPrice *int64
	MaxPrice *int64
}

// Repository defines persistence for products.
type Repository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, productID uuid.UUID) (*Product, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Product, error)
}
