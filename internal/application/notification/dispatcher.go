package notification

import (
	"context"

	"github.com/rs/zerolog"

	domain "github.com/edgeup/marketplace/internal/domain/notification"
)

// Dispatcher records post-commit events as notifications and forwards them
// to the event broker. Failures are logged and never surface to the caller:
// the transition that produced the events has already committed.
type Dispatcher struct {
	repo      domain.Repository
	publisher domain.Publisher
	logger    zerolog.Logger
}

// NewDispatcher creates a dispatcher. A nil publisher disables forwarding.
func NewDispatcher(repo domain.Repository, publisher domain.Publisher, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With().Str("service", "notification_dispatcher").Logger(),
	}
}

// Dispatch handles each event independently.
func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.Event) {
	for _, ev := range events {
		d.notify(ctx, ev)
		d.publish(ctx, ev)
	}
}

func (d *Dispatcher) notify(ctx context.Context, ev domain.Event) {
	n, err := domain.NewNotification(ev.UserID, ev.Type, ev.Message)
	if err != nil {
		d.logger.Warn().Err(err).Str("event_id", ev.EventID.String()).Str("kind", string(ev.Kind)).Msg("invalid notification event")
		return
	}
	if err := d.repo.Create(ctx, n); err != nil {
		d.logger.Error().Err(err).
			Str("event_id", ev.EventID.String()).
			Str("user_id", ev.UserID.String()).
			Msg("failed to store notification")
		return
	}
	d.logger.Debug().
		Str("notification_id", n.NotificationID.String()).
		Str("user_id", n.UserID.String()).
		Str("type", string(n.Type)).
		Msg("notification stored")
}

func (d *Dispatcher) publish(ctx context.Context, ev domain.Event) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, ev); err != nil {
		d.logger.Warn().Err(err).
			Str("event_id", ev.EventID.String()).
			Str("kind", string(ev.Kind)).
			Msg("failed to publish event")
	}
}
