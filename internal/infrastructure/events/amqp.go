package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/edgeup/marketplace/internal/domain/notification"
)

// AMQPPublisher publishes events to a durable topic exchange with the event
// kind as routing key.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev notification.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := Encode(ev)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.Publish(p.exchange, string(ev.Kind), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID.String(),
		Timestamp:    ev.OccurredAt,
		Type:         string(ev.Kind),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", ev.Kind, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
