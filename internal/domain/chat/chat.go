package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxMessageLength = 4000

// Conversation is a thread between one seller and one buyer.
type Conversation struct {
	ID             int64     `json:"id"`
	ConversationID uuid.UUID `json:"conversationId"`
	SellerID       uuid.UUID `json:"sellerId"`
	BuyerID        uuid.UUID `json:"buyerId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// IsParticipant reports whether userID belongs to the conversation.
func (c *Conversation) IsParticipant(userID uuid.UUID) bool {
	return c.SellerID == userID || c.BuyerID == userID
}

// Counterpart returns the other participant.
func (c *Conversation) Counterpart(userID uuid.UUID) uuid.UUID {
	if c.SellerID == userID {
		return c.BuyerID
	}
	return c.SellerID
}

// Message is a single chat line.
type Message struct {
	ID             int64     `json:"id"`
	MessageID      uuid.UUID `json:"messageId"`
	ConversationID uuid.UUID `json:"conversationId"`
	FromUser       uuid.UUID `json:"fromUser"`
	ToUser         uuid.UUID `json:"toUser"`
	Body           string    `json:"body"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

func ValidateBody(body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return errors.New("message is required")
	}
	if len(body) > maxMessageLength {
		return errors.New("message is too long")
	}
	return nil
}
