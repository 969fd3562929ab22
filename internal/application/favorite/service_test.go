package favorite

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	"github.com/edgeup/marketplace/internal/domain/favorite/mocks"
	"github.com/edgeup/marketplace/internal/domain/product"
	productMocks "github.com/edgeup/marketplace/internal/domain/product/mocks"
	"github.com/edgeup/marketplace/internal/domain/user"
)

func TestService_Add(t *testing.T) {
	ctx := context.Background()
	actor := user.Actor{UserID: uuid.New()}

	t.Run("saves active product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		products := productMocks.NewMockRepository(ctrl)
		repo := new(mocks.MockRepository)
		service := NewService(repo, products, zerolog.Nop())
		p := &product.Product{ProductID: uuid.New(), Status: product.StatusActive}

		products.EXPECT().GetByID(ctx, p.ProductID).Return(p, nil)
		repo.On("Add", ctx, mock.AnythingOfType("*favorite.Favorite")).Return(nil)

		fav, err := service.Add(ctx, actor, p.ProductID)

		require.NoError(t, err)
		assert.Equal(t, actor.UserID, fav.UserID)
		repo.AssertExpectations(t)
	})

	t.Run("archived product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		products := productMocks.NewMockRepository(ctrl)
		service := NewService(new(mocks.MockRepository), products, zerolog.Nop())
		p := &product.Product{ProductID: uuid.New(), Status: product.StatusArchived}
		products.EXPECT().GetByID(ctx, p.ProductID).Return(p, nil)

		_, err := service.Add(ctx, actor, p.ProductID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestService_Remove(t *testing.T) {
	ctx := context.Background()
	actor := user.Actor{UserID: uuid.New()}
	productID := uuid.New()
	ctrl := gomock.NewController(t)
	repo := new(mocks.MockRepository)
	service := NewService(repo, productMocks.NewMockRepository(ctrl), zerolog.Nop())

	repo.On("Remove", ctx, actor.UserID, productID).Return(true, nil).Once()
	repo.On("Remove", ctx, actor.UserID, productID).Return(false, nil).Once()

	require.NoError(t, service.Remove(ctx, actor, productID))
	assert.ErrorIs(t, service.Remove(ctx, actor, productID), apperror.ErrNotFound)
}
