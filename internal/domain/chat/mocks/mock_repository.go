package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/edgeup/marketplace/internal/domain/chat"
)

// MockRepository is a mock implementation of chat.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetOrCreateConversation(ctx context.Context, conv *chat.Conversation) (*chat.Conversation, error) {
	args := m.Called(ctx, conv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Conversation), args.Error(1)
}

func (m *MockRepository) GetConversation(ctx context.Context, conversationID uuid.UUID) (*chat.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Conversation), args.Error(1)
}

func (m *MockRepository) ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*chat.Conversation, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chat.Conversation), args.Error(1)
}

func (m *MockRepository) CreateMessage(ctx context.Context, msg *chat.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*chat.Message, error) {
	args := m.Called(ctx, conversationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chat.Message), args.Error(1)
}

func (m *MockRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int, error) {
	args := m.Called(ctx, conversationID, readerID)
	return args.Int(0), args.Error(1)
}
