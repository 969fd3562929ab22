package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	domain "github.com/edgeup/marketplace/internal/domain/user"
)

// Service handles user profiles and role management.
type Service struct {
	repo   domain.Repository
	logger zerolog.Logger
}

// NewService creates a user service.
func NewService(repo domain.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "user").Logger(),
	}
}

// UpdateProfileInput defines self-service profile changes.
type UpdateProfileInput struct {
	Name      *string
	Country   *string
	City      *string
	AvatarURL *string
}

func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", userID, apperror.ErrNotFound)
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*domain.User, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if err := domain.ValidateName(*in.Name); err != nil {
			return nil, apperror.Invalid("%s", err.Error())
		}
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Country != nil {
		u.Country = strings.TrimSpace(*in.Country)
	}
	if in.City != nil {
		u.City = strings.TrimSpace(*in.City)
	}
	if in.AvatarURL != nil {
		u.AvatarURL = in.AvatarURL
	}
	u.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetRole changes a user's role. Admin only; admins cannot demote themselves.
func (s *Service) SetRole(ctx context.Context, actor domain.Actor, userID uuid.UUID, role domain.Role) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("role change requires admin: %w", apperror.ErrForbidden)
	}
	if err := domain.ValidateRole(role); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}
	if actor.UserID == userID && role != domain.RoleAdmin {
		return nil, apperror.Invalid("admins cannot demote themselves")
	}
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role == role {
		return u, nil
	}
	previous := u.Role
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("user_id", userID.String()).
		Str("from", string(previous)).
		Str("to", string(role)).
		Str("by", actor.UserID.String()).
		Msg("user role changed")
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, filter domain.Filter, limit, offset int) ([]*domain.User, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
