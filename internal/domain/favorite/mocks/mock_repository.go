package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/edgeup/marketplace/internal/domain/favorite"
)

// MockRepository is a mock implementation of favorite.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Add(ctx context.Context, fav *favorite.Favorite) error {
	args := m.Called(ctx, fav)
	return args.Error(0)
}

func (m *MockRepository) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*favorite.Favorite, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*favorite.Favorite), args.Error(1)
}
