// Package events publishes assessment notifications to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Event types, used as routing keys on the topic exchange.
const (
	TypeAttemptCompleted = "assessment.attempt.completed"
	TypeBadgeAwarded     = "assessment.badge.awarded"
)

// Envelope is the JSON body of every published message.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher sends events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
	Close() error
}

// AMQPPublisher publishes JSON envelopes to a durable topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	body, err := encode(eventType, payload)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, eventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         eventType,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func encode(eventType string, payload any) ([]byte, error) {
	body, err := json.Marshal(Envelope{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", eventType, err)
	}
	return body, nil
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

// Memory keeps published envelopes in memory for tests.
type Memory struct {
	mu     sync.Mutex
	events []Envelope
	Err    error
}

func (m *Memory) Publish(_ context.Context, eventType string, payload any) error {
	if _, err := encode(eventType, payload); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, Envelope{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload})
	return nil
}

func (m *Memory) Close() error { return nil }

// Events returns a copy of everything published so far.
func (m *Memory) Events() []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Envelope(nil), m.events...)
}
