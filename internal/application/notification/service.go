package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	domain "github.com/edgeup/marketplace/internal/domain/notification"
)

// Service handles a user's notification inbox.
type Service struct {
	repo   domain.Repository
	logger zerolog.Logger
}

// NewService creates a notification service.
func NewService(repo domain.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "notification").Logger(),
	}
}

// ListNotifications returns the user's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, error) {
	return s.repo.List(ctx, domain.Filter{UserID: userID, UnreadOnly: unreadOnly}, limit, offset)
}

// MarkRead marks one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*domain.Notification, error) {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n == nil || n.UserID != userID {
		return nil, fmt.Errorf("notification %s: %w", notificationID, apperror.ErrNotFound)
	}
	if n.IsRead {
		return n, nil
	}
	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}

// MarkAllRead marks every unread notification of the user as read.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.logger.Debug().Str("user_id", userID.String()).Int("count", count).Msg("notifications marked read")
	return count, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
