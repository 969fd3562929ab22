package approval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	domainApproval "github.com/edgeup/marketplace/internal/domain/approval"
	"github.com/edgeup/marketplace/internal/domain/notification"
	"github.com/edgeup/marketplace/internal/domain/user"
)

// Service handles requests from untrusted users to become sellers.
type Service struct {
	approvalRepo domainApproval.Repository
	userRepo     user.Repository
	dispatcher   notification.Dispatcher
	logger       zerolog.Logger
}

// NewService creates an approval service.
func NewService(approvalRepo domainApproval.Repository, userRepo user.Repository, dispatcher notification.Dispatcher, logger zerolog.Logger) *Service {
	return &Service{
		approvalRepo: approvalRepo,
		userRepo:     userRepo,
		dispatcher:   dispatcher,
		logger:       logger.With().Str("service", "approval").Logger(),
	}
}

// Submit files a trusted-seller request. Only untrusted users may ask and
// only one request may be pending at a time.
func (s *Service) Submit(ctx context.Context, actor user.Actor, pitch string) (*domainApproval.Request, error) {
	if actor.Role != user.RoleUntrusted {
		return nil, fmt.Errorf("role %s cannot request trust: %w", actor.Role, apperror.ErrForbidden)
	}
	if err := domainApproval.ValidatePitch(pitch); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}
	pending, err := s.approvalRepo.GetPendingForUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, fmt.Errorf("request %s is still pending: %w", pending.RequestID, apperror.ErrConflict)
	}
	req := &domainApproval.Request{
		RequestID:   uuid.New(),
		UserID:      actor.UserID,
		Pitch:       strings.TrimSpace(pitch),
		Status:      domainApproval.StatusPending,
		RequestedAt: time.Now().UTC(),
	}
	if err := s.approvalRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	s.logger.Info().Str("request_id", req.RequestID.String()).Str("user_id", actor.UserID.String()).Msg("trusted request submitted")
	return req, nil
}

// Review records an admin decision. Approving promotes the requester to
// Trusted. Either way the requester receives a system notification.
func (s *Service) Review(ctx context.Context, actor user.Actor, requestID uuid.UUID, decision domainApproval.Decision) (*domainApproval.Request, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("review requires admin: %w", apperror.ErrForbidden)
	}
	req, err := s.approvalRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("request %s: %w", requestID, apperror.ErrNotFound)
	}
	if !req.IsPending() {
		return nil, fmt.Errorf("request is %s: %w", req.Status, apperror.ErrInvalidState)
	}
	if err := req.Decide(decision, actor.UserID, time.Now().UTC()); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}
	updated, err := s.approvalRepo.Update(ctx, req)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("request %s decided concurrently: %w", requestID, apperror.ErrInvalidState)
	}

	if req.Status == domainApproval.StatusApproved {
		if err := s.promote(ctx, req.UserID); err != nil {
			return nil, err
		}
	}

	msg := "Your trusted seller request was rejected"
	if req.Status == domainApproval.StatusApproved {
		msg = "Your trusted seller request was approved. You can now list products"
	}
	s.dispatcher.Dispatch(ctx, []notification.Event{
		notification.NewEvent(notification.KindTrustedDecision, req.UserID, notification.TypeSystem, msg, map[string]interface{}{
			"requestId": req.RequestID,
			"status":    req.Status,
		}),
	})
	s.logger.Info().
		Str("request_id", requestID.String()).
		Str("status", string(req.Status)).
		Str("reviewed_by", actor.UserID.String()).
		Msg("trusted request decided")
	return req, nil
}

// List returns requests. Admins see everything; other users only their own.
func (s *Service) List(ctx context.Context, actor user.Actor, filter domainApproval.Filter, limit, offset int) ([]*domainApproval.Request, error) {
	if !actor.IsAdmin() {
		id := actor.UserID
		filter.UserID = &id
	}
	return s.approvalRepo.List(ctx, filter, limit, offset)
}

func (s *Service) promote(ctx context.Context, userID uuid.UUID) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("user %s: %w", userID, apperror.ErrNotFound)
	}
	if u.Role != user.RoleUntrusted {
		return nil
	}
	u.Role = user.RoleTrusted
	u.UpdatedAt = time.Now().UTC()
	return s.userRepo.Update(ctx, u)
}
