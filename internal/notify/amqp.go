// Package notify publishes contact form events to RabbitMQ.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/udsehati/sehati-web/internal/domain/contact"
)

// EventContactReceived is the event type and default routing key of a new
// contact message.
const EventContactReceived = "contact.received"

var _ contact.Notifier = (*Publisher)(nil)

// Config configures the RabbitMQ publisher.
type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends one persistent JSON message per stored contact message.
type Publisher struct {
	conn       *amqp.Connection
	exchange   string
	routingKey string
	now        func() time.Time

	mu sync.Mutex
	ch channel
}

// Dial connects to RabbitMQ and declares the durable topic exchange.
func Dial(cfg Config) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}
	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "declare exchange %q", cfg.Exchange)
	}
	p := newPublisher(ch, cfg)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, cfg Config) *Publisher {
	key := cfg.RoutingKey
	if key == "" {
		key = EventContactReceived
	}
	return &Publisher{
		ch:         ch,
		exchange:   cfg.Exchange,
		routingKey: key,
		now:        time.Now,
	}
}

// NotifyMessage publishes m.
func (p *Publisher) NotifyMessage(ctx context.Context, m contact.Message) error {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	EncodeEvent(e, EventContactReceived, m)

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    m.ID,
		Type:         EventContactReceived,
		Timestamp:    p.now(),
		Body:         append([]byte(nil), e.Bytes()...),
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg); err != nil {
		return errors.Wrap(err, "publish")
	}
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		return errors.Wrap(err, "close channel")
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return errors.Wrap(err, "close connection")
		}
	}
	return nil
}

// EncodeMessage writes m as a JSON object.
func EncodeMessage(e *jx.Encoder, m contact.Message) {
	e.Obj(func(e *jx.Encoder) {
		writeMessageFields(e, m)
	})
}

// EncodeEvent writes m as a JSON object tagged with the event type.
func EncodeEvent(e *jx.Encoder, eventType string, m contact.Message) {
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart("type")
		e.Str(eventType)
		writeMessageFields(e, m)
	})
}

func writeMessageFields(e *jx.Encoder, m contact.Message) {
	e.FieldStart("id")
	e.Str(m.ID)
	e.FieldStart("name")
	e.Str(m.Name)
	e.FieldStart("email")
	e.Str(m.Email)
	e.FieldStart("phone")
	e.Str(m.Phone)
	e.FieldStart("message")
	e.Str(m.Message)
	e.FieldStart("created_at")
	e.Str(m.CreatedAt.UTC().Format(time.RFC3339))
}
