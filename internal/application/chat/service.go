package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	domain "github.com/edgeup/marketplace/internal/domain/chat"
	"github.com/edgeup/marketplace/internal/domain/user"
)

// Service handles buyer-seller conversations.
type Service struct {
	repo   domain.Repository
	users  user.Repository
	logger zerolog.Logger
}

func NewService(repo domain.Repository, users user.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		logger: logger.With().Str("service", "chat").Logger(),
	}
}

// StartConversation opens (or returns) the thread between the actor as
// buyer and sellerID.
func (s *Service) StartConversation(ctx context.Context, actor user.Actor, sellerID uuid.UUID) (*domain.Conversation, error) {
	if sellerID == actor.UserID {
		return nil, fmt.Errorf("conversation with yourself: %w", apperror.ErrSelfDeal)
	}
	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, fmt.Errorf("user %s: %w", sellerID, apperror.ErrNotFound)
	}
	return s.repo.GetOrCreateConversation(ctx, &domain.Conversation{
		ConversationID: uuid.New(),
		SellerID:       sellerID,
		BuyerID:        actor.UserID,
		CreatedAt:      time.Now().UTC(),
	})
}

// Send posts a message to the other participant.
func (s *Service) Send(ctx context.Context, actor user.Actor, conversationID uuid.UUID, body string) (*domain.Message, error) {
	if err := domain.ValidateBody(body); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}
	conv, err := s.participantOf(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}
	msg := &domain.Message{
		MessageID:      uuid.New(),
		ConversationID: conv.ConversationID,
		FromUser:       actor.UserID,
		ToUser:         conv.Counterpart(actor.UserID),
		Body:           strings.TrimSpace(body),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("conversation_id", conversationID.String()).
		Str("message_id", msg.MessageID.String()).
		Msg("message sent")
	return msg, nil
}

func (s *Service) ListConversations(ctx context.Context, actor user.Actor, limit, offset int) ([]*domain.Conversation, error) {
	return s.repo.ListConversations(ctx, actor.UserID, limit, offset)
}

// ListMessages returns messages oldest first.
func (s *Service) ListMessages(ctx context.Context, actor user.Actor, conversationID uuid.UUID, limit, offset int) ([]*domain.Message, error) {
	if _, err := s.participantOf(ctx, actor, conversationID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conversationID, limit, offset)
}

// MarkRead marks every message addressed to the actor as read.
func (s *Service) MarkRead(ctx context.Context, actor user.Actor, conversationID uuid.UUID) (int, error) {
	if _, err := s.participantOf(ctx, actor, conversationID); err != nil {
		return 0, err
	}
	return s.repo.MarkRead(ctx, conversationID, actor.UserID)
}

func (s *Service) participantOf(ctx context.Context, actor user.Actor, conversationID uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, apperror.ErrNotFound)
	}
	if !conv.IsParticipant(actor.UserID) {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, apperror.ErrForbidden)
	}
	return conv, nil
}
