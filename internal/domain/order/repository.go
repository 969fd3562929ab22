package order

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Store,Tx

import (
	"context"

	"github.com/google/uuid"

	"github.com/edgeup/marketplace/internal/domain/product"
)

// Filter controls order listing.
type Filter struct {
	BuyerID  *uuid.UUID
	SellerID *uuid.UUID
	Status   *Status
}

// Store scopes order mutations to a single database transaction.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Order, error)
	HasDelivered(ctx context.Context, buyerID, productID uuid.UUID) (bool, error)
}

// Tx is the set of row-locking operations available inside InTx.
type Tx interface {
	LockProduct(ctx context.Context, productID uuid.UUID) (*product.Product, error)
	LockOrder(ctx context.Context, orderID uuid.UUID) (*Order, error)
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error
	IncrementStock(ctx context.Context, productID uuid.UUID, qty int) error
	CreateOrder(ctx context.Context, o *Order) error
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to Status) error
}
