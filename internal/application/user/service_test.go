package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	domain "github.com/edgeup/marketplace/internal/domain/user"
	"github.com/edgeup/marketplace/internal/domain/user/mocks"
)

func TestService_SetRole(t *testing.T) {
	ctx := context.Background()
	admin := domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}

	t.Run("admin promotes user", func(t *testing.T) {
		repo := new(mocks.MockRepository)
		service := NewService(repo, zerolog.Nop())
		u := &domain.User{UserID: uuid.New(), Role: domain.RoleUntrusted}
		repo.On("GetByID", ctx, u.UserID).Return(u, nil)
		repo.On("Update", ctx, u).Return(nil)

		got, err := service.SetRole(ctx, admin, u.UserID, domain.RoleTrusted)

		require.NoError(t, err)
		assert.Equal(t, domain.RoleTrusted, got.Role)
		repo.AssertExpectations(t)
	})

	t.Run("same role is a no-op", func(t *testing.T) {
		repo := new(mocks.MockRepository)
		service := NewService(repo, zerolog.Nop())
		u := &domain.User{UserID: uuid.New(), Role: domain.RoleTrusted}
		repo.On("GetByID", ctx, u.UserID).Return(u, nil)

		_, err := service.SetRole(ctx, admin, u.UserID, domain.RoleTrusted)

		require.NoError(t, err)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		service := NewService(new(mocks.MockRepository), zerolog.Nop())
		_, err := service.SetRole(ctx, domain.Actor{UserID: uuid.New(), Role: domain.RoleTrusted}, uuid.New(), domain.RoleAdmin)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("self demotion rejected", func(t *testing.T) {
		service := NewService(new(mocks.MockRepository), zerolog.Nop())
		_, err := service.SetRole(ctx, admin, admin.UserID, domain.RoleUntrusted)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(mocks.MockRepository)
		service := NewService(repo, zerolog.Nop())
		id := uuid.New()
		repo.On("GetByID", ctx, id).Return(nil, nil)

		_, err := service.SetRole(ctx, admin, id, domain.RoleTrusted)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockRepository)
	service := NewService(repo, zerolog.Nop())
	u := &domain.User{UserID: uuid.New(), Name: "Ana", Role: domain.RoleUntrusted}
	repo.On("GetByID", ctx, u.UserID).Return(u, nil)
	repo.On("Update", ctx, u).Return(nil)

	city, country := " Braga ", "PT"
	got, err := service.UpdateProfile(ctx, u.UserID, UpdateProfileInput{City: &city, Country: &country})

	require.NoError(t, err)
	assert.Equal(t, "Braga, PT", got.ShippingAddress())

	blank := "  "
	_, err = service.UpdateProfile(ctx, u.UserID, UpdateProfileInput{Name: &blank})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
