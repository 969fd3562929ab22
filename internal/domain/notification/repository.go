package notification

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository,Publisher,Dispatcher

import (
	"context"

	"github.com/google/uuid"
)

// Filter controls notification listing.
type Filter struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Type       *Type
}

// Repository defines persistence for notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, notificationID uuid.UUID) (*Notification, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// Publisher forwards events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Dispatcher delivers post-commit events. Implementations never fail the
// caller; delivery problems are logged.
type Dispatcher interface {
	Dispatch(ctx context.Context, events []Event)
}
