package chat

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for conversations and messages.
type Repository interface {
	// GetOrCreateConversation returns the existing thread for the pair or
	// inserts conv.
	GetOrCreateConversation(ctx context.Context, conv *Conversation) (*Conversation, error)
	GetConversation(ctx context.Context, conversationID uuid.UUID) (*Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Conversation, error)
	CreateMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*Message, error)
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int, error)
}
