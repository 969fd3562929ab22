package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edgeup/marketplace/internal/domain/notification"
)

// Broker names accepted by New.
const (
	BrokerNone  = "none"
	BrokerKafka = "kafka"
	BrokerAMQP  = "amqp"
)

// Options selects and configures the event broker.
type Options struct {
	Broker       string
	KafkaBrokers []string
	KafkaTopic   string
	AMQPURL      string
	AMQPExchange string
}

// Noop drops events after logging them at debug level.
type Noop struct {
	logger zerolog.Logger
}

func NewNoop(logger zerolog.Logger) *Noop {
	return &Noop{logger: logger.With().Str("component", "noop_publisher").Logger()}
}

func (n *Noop) Publish(_ context.Context, ev notification.Event) error {
	n.logger.Debug().Str("event_id", ev.EventID.String()).Str("kind", string(ev.Kind)).Msg("event dropped")
	return nil
}

// New builds the configured publisher and a close func releasing it.
func New(opts Options, logger zerolog.Logger) (notification.Publisher, func(), error) {
	switch strings.ToLower(strings.TrimSpace(opts.Broker)) {
	case "", BrokerNone:
		return NewNoop(logger), func() {}, nil
	case BrokerKafka:
		if len(opts.KafkaBrokers) == 0 || opts.KafkaTopic == "" {
			return nil, nil, fmt.Errorf("kafka brokers and topic are required")
		}
		p := NewKafkaPublisher(opts.KafkaBrokers, opts.KafkaTopic, 0, logger)
		p.Start()
		return p, p.Close, nil
	case BrokerAMQP:
		if opts.AMQPURL == "" || opts.AMQPExchange == "" {
			return nil, nil, fmt.Errorf("amqp url and exchange are required")
		}
		p, err := NewAMQPPublisher(opts.AMQPURL, opts.AMQPExchange)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown event broker %q", opts.Broker)
	}
}
