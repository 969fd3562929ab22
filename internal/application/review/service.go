package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	"github.com/edgeup/marketplace/internal/domain/notification"
	"github.com/edgeup/marketplace/internal/domain/order"
	"github.com/edgeup/marketplace/internal/domain/product"
	domain "github.com/edgeup/marketplace/internal/domain/review"
	"github.com/edgeup/marketplace/internal/domain/user"
)

const maxCommentLength = 2000

// Service handles product reviews.
type Service struct {
	repo       domain.Repository
	products   product.Repository
	orders     order.Store
	dispatcher notification.Dispatcher
	logger     zerolog.Logger
}

func NewService(repo domain.Repository, products product.Repository, orders order.Store, dispatcher notification.Dispatcher, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		products:   products,
		orders:     orders,
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "review").Logger(),
	}
}

// Create records a review. The reviewer must have a delivered order for the
// product and may review it once.
func (s *Service) Create(ctx context.Context, actor user.Actor, productID uuid.UUID, rating int, comment string) (*domain.Review, error) {
	if err := domain.ValidateRating(rating); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxCommentLength {
		return nil, apperror.Invalid("comment must be at most %d characters", maxCommentLength)
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product %s: %w", productID, apperror.ErrNotFound)
	}
	delivered, err := s.orders.HasDelivered(ctx, actor.UserID, productID)
	if err != nil {
		return nil, err
	}
	if !delivered {
		return nil, fmt.Errorf("no delivered order for product %s: %w", productID, apperror.ErrForbidden)
	}
	exists, err := s.repo.Exists(ctx, productID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("product %s already reviewed: %w", productID, apperror.ErrConflict)
	}

	r := &domain.Review{
		ReviewID:  uuid.New(),
		ProductID: productID,
		UserID:    actor.UserID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, []notification.Event{
		notification.NewEvent(
			notification.KindReviewCreated,
			p.SellerID,
			notification.TypeReview,
			fmt.Sprintf("New %d-star review on %q", rating, p.Title),
			map[string]interface{}{
				"reviewId":  r.ReviewID,
				"productId": productID,
				"rating":    rating,
			},
		),
	})
	s.logger.Info().Str("review_id", r.ReviewID.String()).Str("product_id", productID.String()).Int("rating", rating).Msg("review created")
	return r, nil
}

func (s *Service) ListForProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*domain.Review, error) {
	return s.repo.ListByProduct(ctx, productID, limit, offset)
}
