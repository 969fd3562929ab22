package notification

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type classifies a user-facing notification.
type Type string

const (
	TypeOrder   Type = "order"
	TypePayment Type = "payment"
	TypeReview  Type = "review"
	TypeSystem  Type = "system"
)

// Kind names the business event behind a notification. It is used as the
// broker routing key.
type Kind string

const (
	KindOfferReceived   Kind = "negotiation.proposed"
	KindOfferRejected   Kind = "negotiation.rejected"
	KindOfferAccepted   Kind = "negotiation.accepted"
	KindOrderCreated    Kind = "order.created"
	KindOrderStatus     Kind = "order.status_changed"
	KindReviewCreated   Kind = "review.created"
	KindTrustedDecision Kind = "trusted_request.decided"
)

var ErrEmptyMessage = errors.New("notification message is required")

// Notification is a message addressed to one user.
type Notification struct {
	ID             int64     `json:"id"`
	NotificationID uuid.UUID `json:"notificationId"`
	UserID         uuid.UUID `json:"userId"`
	Type           Type      `json:"type"`
	Message        string    `json:"message"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewNotification creates an unread notification.
func NewNotification(userID uuid.UUID, t Type, message string) (*Notification, error) {
	if err := ValidateType(t); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	return &Notification{
		NotificationID: uuid.New(),
		UserID:         userID,
		Type:           t,
		Message:        message,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func ValidateType(t Type) error {
	switch t {
	case TypeOrder, TypePayment, TypeReview, TypeSystem:
		return nil
	default:
		return errors.New("invalid notification type")
	}
}

// Event is a post-commit side effect produced by a state transition. It is
// recorded as a notification for UserID and published to the event broker.
type Event struct {
	EventID    uuid.UUID       `json:"eventId"`
	Kind       Kind            `json:"kind"`
	UserID     uuid.UUID       `json:"userId"`
	Type       Type            `json:"type"`
	Message    string          `json:"message"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// NewEvent builds an event. Payload marshalling failures leave Payload empty.
func NewEvent(kind Kind, userID uuid.UUID, t Type, message string, payload interface{}) Event {
	ev := Event{
		EventID:    uuid.New(),
		Kind:       kind,
		UserID:     userID,
		Type:       t,
		Message:    message,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			ev.Payload = b
		}
	}
	return ev
}
