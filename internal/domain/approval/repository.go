package approval

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"

	"github.com/google/uuid"
)

// Filter controls request listing.
type Filter struct {
	Status *Status
	UserID *uuid.UUID
}

// Repository defines persistence for trusted-seller requests.
type Repository interface {
	Create(ctx context.Context, req *Request) error
	// Update persists a decision; it only applies to rows still pending.
	Update(ctx context.Context, req *Request) (bool, error)
	GetByID(ctx context.Context, requestID uuid.UUID) (*Request, error)
	GetPendingForUser(ctx context.Context, userID uuid.UUID) (*Request, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Request, error)
}
