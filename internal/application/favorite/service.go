package favorite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	domain "github.com/edgeup/marketplace/internal/domain/favorite"
	"github.com/edgeup/marketplace/internal/domain/product"
	"github.com/edgeup/marketplace/internal/domain/user"
)

// Service manages saved products.
type Service struct {
	repo     domain.Repository
	products product.Repository
	logger   zerolog.Logger
}

func NewService(repo domain.Repository, products product.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		logger:   logger.With().Str("service", "favorite").Logger(),
	}
}

// Add saves a product; saving it twice is not an error.
func (s *Service) Add(ctx context.Context, actor user.Actor, productID uuid.UUID) (*domain.Favorite, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsAvailable() {
		return nil, fmt.Errorf("product %s: %w", productID, apperror.ErrNotFound)
	}
	fav := &domain.Favorite{
		UserID:    actor.UserID,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Add(ctx, fav); err != nil {
		return nil, err
	}
	return fav, nil
}

func (s *Service) Remove(ctx context.Context, actor user.Actor, productID uuid.UUID) error {
	removed, err := s.repo.Remove(ctx, actor.UserID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("favorite %s: %w", productID, apperror.ErrNotFound)
	}
	return nil
}

func (s *Service) List(ctx context.Context, actor user.Actor, limit, offset int) ([]*domain.Favorite, error) {
	return s.repo.List(ctx, actor.UserID, limit, offset)
}
