package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeup/marketplace/internal/domain/notification"
)

func TestEncode(t *testing.T) {
	userID := uuid.New()
	ev := notification.NewEvent(notification.KindOrderCreated, userID, notification.TypeOrder, "New order", map[string]int{"quantity": 3})

	body, err := Encode(ev)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, ev.EventID.String(), decoded["event_id"])
	assert.Equal(t, "order.created", decoded["kind"])
	assert.Equal(t, userID.String(), decoded["user_id"])
	assert.Equal(t, "order", decoded["type"])
	assert.Equal(t, map[string]interface{}{"quantity": float64(3)}, decoded["payload"])
	assert.Contains(t, decoded, "occurred_at")
}

func TestNew(t *testing.T) {
	p, closeFn, err := New(Options{Broker: ""}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Noop{}, p)
	closeFn()

	_, _, err = New(Options{Broker: "kafka"}, zerolog.Nop())
	assert.Error(t, err)

	_, _, err = New(Options{Broker: "amqp"}, zerolog.Nop())
	assert.Error(t, err)

	_, _, err = New(Options{Broker: "carrier-pigeon"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestKafkaPublisher_QueueBehaviour(t *testing.T) {
	// Not started: nothing drains the inbox.
	p := NewKafkaPublisher([]string{"127.0.0.1:1"}, "marketplace.events", 1, zerolog.Nop())
	ev := notification.NewEvent(notification.KindOfferReceived, uuid.New(), notification.TypeOrder, "offer", nil)

	require.NoError(t, p.Publish(context.Background(), ev))
	assert.ErrorIs(t, p.Publish(context.Background(), ev), ErrQueueFull)
}
