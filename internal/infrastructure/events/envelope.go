package events

import (
	"encoding/json"
	"time"

	"github.com/edgeup/marketplace/internal/domain/notification"
)

// Envelope is the wire format shared by every broker.
type Envelope struct {
	EventID    string          `json:"event_id"`
	Kind       string          `json:"kind"`
	UserID     string          `json:"user_id"`
	Type       string          `json:"type"`
	Message    string          `json:"message"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewEnvelope(ev notification.Event) Envelope {
	return Envelope{
		EventID:    ev.EventID.String(),
		Kind:       string(ev.Kind),
		UserID:     ev.UserID.String(),
		Type:       string(ev.Type),
		Message:    ev.Message,
		Payload:    ev.Payload,
		OccurredAt: ev.OccurredAt,
	}
}

// Encode marshals ev as an Envelope.
func Encode(ev notification.Event) ([]byte, error) {
	return json.Marshal(NewEnvelope(ev))
}
