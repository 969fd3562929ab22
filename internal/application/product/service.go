package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	domain "github.com/edgeup/marketplace/internal/domain/product"
	"github.com/edgeup/marketplace/internal/domain/user"
)

// Service manages seller listings.
type Service struct {
	repo   domain.Repository
	logger zerolog.Logger
}

func NewService(repo domain.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "product").Logger(),
	}
}

// CreateInput describes a new listing.
type CreateInput struct {
	Title          string
	Description    string
	Category       domain.Category
	ImageURL       *string
	Price          int64
	Stock          int
	AutoRejectRule *string
}

// UpdateInput holds optional listing changes; nil fields are left as is.
// An empty AutoRejectRule clears the rule.
type UpdateInput struct {
	Title          *string
	Description    *string
	Category       *domain.Category
	ImageURL       *string
	Price          *int64
	Stock          *int
	AutoRejectRule *string
}

// Create lists a new product. Only trusted sellers and admins may sell.
func (s *Service) Create(ctx context.Context, actor user.Actor, in CreateInput) (*domain.Product, error) {
	if !actor.CanSell() {
		return nil, fmt.Errorf("role %s cannot sell: %w", actor.Role, apperror.ErrForbidden)
	}
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}
	if err := domain.ValidateCategory(in.Category); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}
	if err := domain.ValidatePrice(in.Price); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}
	if err := domain.ValidateStock(in.Stock); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}
	rule, err := normalizeRule(in.AutoRejectRule)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ProductID:      uuid.New(),
		SellerID:       actor.UserID,
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		Category:       in.Category,
		ImageURL:       in.ImageURL,
		Price:          in.Price,
		Stock:          in.Stock,
		Status:         domain.StatusActive,
		AutoRejectRule: rule,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("product_id", p.ProductID.String()).
		Str("seller_id", p.SellerID.String()).
		Int64("price", p.Price).
		Int("stock", p.Stock).
		Msg("product created")
	return p, nil
}

// Update edits a listing owned by the actor (or any listing for admins).
func (s *Service) Update(ctx context.Context, actor user.Actor, productID uuid.UUID, in UpdateInput) (*domain.Product, error) {
	p, err := s.owned(ctx, actor, productID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if err := domain.ValidateTitle(*in.Title); err != nil {
			return nil, apperror.Invalid("%s", err.Error())
		}
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		if err := domain.ValidateCategory(*in.Category); err != nil {
			return nil, apperror.Invalid("%s", err.Error())
		}
		p.Category = *in.Category
	}
	if in.ImageURL != nil {
		p.ImageURL = in.ImageURL
	}
	if in.Price != nil {
		if err := domain.ValidatePrice(*in.Price); err != nil {
			return nil, apperror.Invalid("%s", err.Error())
		}
		p.Price = *in.Price
	}
	if in.Stock != nil {
		if err := domain.ValidateStock(*in.Stock); err != nil {
			return nil, apperror.Invalid("%s", err.Error())
		}
		p.Stock = *in.Stock
	}
	if in.AutoRejectRule != nil {
		rule, err := normalizeRule(in.AutoRejectRule)
		if err != nil {
			return nil, err
		}
		p.AutoRejectRule = rule
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Archive withdraws a listing. Pending offers on it can no longer be accepted.
func (s *Service) Archive(ctx context.Context, actor user.Actor, productID uuid.UUID) (*domain.Product, error) {
	p, err := s.owned(ctx, actor, productID)
	if err != nil {
		return nil, err
	}
	if p.Status == domain.StatusArchived {
		return p, nil
	}
	p.Status = domain.StatusArchived
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", productID.String()).Msg("product archived")
	return p, nil
}

// Get returns a product. Archived listings are only visible to their seller
// and admins.
func (s *Service) Get(ctx context.Context, actor user.Actor, productID uuid.UUID) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || (!p.IsAvailable() && p.SellerID != actor.UserID && !actor.IsAdmin()) {
		return nil, fmt.Errorf("product %s: %w", productID, apperror.ErrNotFound)
	}
	return p, nil
}

// List browses the catalogue. Unless a status is requested only active
// listings are returned; other statuses are limited to the actor's own.
func (s *Service) List(ctx context.Context, actor user.Actor, filter domain.Filter, limit, offset int) ([]*domain.Product, error) {
	if filter.Status == nil {
		active := domain.StatusActive
		filter.Status = &active
	} else if *filter.Status != domain.StatusActive && !actor.IsAdmin() {
		id := actor.UserID
		filter.SellerID = &id
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, apperror.Invalid("minPrice must not exceed maxPrice")
	}
	return s.repo.List(ctx, filter, limit, offset)
}

func (s *Service) owned(ctx context.Context, actor user.Actor, productID uuid.UUID) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product %s: %w", productID, apperror.ErrNotFound)
	}
	if p.SellerID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("product %s: %w", productID, apperror.ErrForbidden)
	}
	return p, nil
}

func normalizeRule(rule *string) (*string, error) {
	if rule == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*rule)
	if trimmed == "" {
		return nil, nil
	}
	if err := domain.ValidateRule(trimmed); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}
	return &trimmed, nil
}
