package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/edgeup/marketplace/internal/domain/notification"
)

// ErrQueueFull is returned when the producer buffer has no room left.
var ErrQueueFull = errors.New("event queue full")

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("publisher closed")

// KafkaPublisher buffers events and writes them asynchronously, keyed by
// user id so one user's events stay ordered within a partition.
type KafkaPublisher struct {
	w      *kafka.Writer
	inbox  chan kafka.Message
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
	logger zerolog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, buf int, logger zerolog.Logger) *KafkaPublisher {
	if buf <= 0 {
		buf = 1024
	}
	log := logger.With().Str("component", "kafka_publisher").Str("topic", topic).Logger()
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					log.Error().Err(err).Int("count", len(messages)).Msg("kafka write failed")
				}
			},
		},
		inbox:  make(chan kafka.Message, buf),
		done:   make(chan struct{}),
		logger: log,
	}
}

// Start runs the writer loop until Close is called.
func (p *KafkaPublisher) Start() {
	go func() {
		defer close(p.done)
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.logger.Error().Err(err).Str("key", string(m.Key)).Msg("kafka enqueue failed")
			}
		}
		if err := p.w.Close(); err != nil {
			p.logger.Warn().Err(err).Msg("kafka writer close")
		}
	}()
}

// Publish enqueues ev without blocking on the broker.
func (p *KafkaPublisher) Publish(ctx context.Context, ev notification.Event) error {
	body, err := Encode(ev)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(ev.UserID.String()),
		Value: body,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(ev.Kind)},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Close flushes buffered events and waits for the writer to finish.
func (p *KafkaPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()
	<-p.done
}
