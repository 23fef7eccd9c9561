// Package mailer hands outbound email to a delivery worker over RabbitMQ.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"translateapi/internal/config"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Result reports what happened to a message. Callers surface it to the client
// instead of failing the request that triggered the mail.
type Result struct {
	Queued  bool  `json:"queued"`
	Skipped bool  `json:"skipped,omitempty"`
	Err     error `json:"-"`
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) Result
}

// Disabled drops every message. It is used when RABBITMQ_URL is not set.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) Result {
	return Result{Skipped: true}
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// envelope is the JSON body consumed by the mail delivery worker.
type envelope struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// RabbitMQ publishes messages to a durable topic exchange.
type RabbitMQ struct {
	conn       *amqp.Connection
	ch         publisher
	exchange   string
	routingKey string
	from       string
}

// NewRabbitMQ dials the broker and declares the mail exchange.
func NewRabbitMQ(cfg config.RabbitMQConfig) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	m := newPublisher(ch, cfg)
	m.conn = conn
	return m, nil
}

func newPublisher(ch publisher, cfg config.RabbitMQConfig) *RabbitMQ {
	return &RabbitMQ{
		ch:         ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		from:       cfg.FromAddress,
	}
}

func (m *RabbitMQ) Send(ctx context.Context, msg Message) Result {
	body, err := json.Marshal(envelope{From: m.from, To: msg.To, Subject: msg.Subject, Body: msg.Body})
	if err != nil {
		return Result{Err: err}
	}

	err = m.ch.PublishWithContext(ctx, m.exchange, m.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return Result{Err: fmt.Errorf("publish mail: %w", err)}
	}
	return Result{Queued: true}
}

// Close tears down the broker connection.
func (m *RabbitMQ) Close() error {
	if m.conn == nil {
		return nil
	}
	return m.conn.Close()
}
