// Package events publishes availability hints for the Listing service to
// RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/logger"
)

// AvailabilityHint is the message body consumed by the Listing service.
type AvailabilityHint struct {
	SuitID     int32             `json:"suit_id"`
	Available  bool              `json:"available"`
	Status     domain.SuitStatus `json:"status"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Channel is the publishing half of *amqp.Channel.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AvailabilityPublisher implements service.ListingNotifier over AMQP.
type AvailabilityPublisher struct {
	mu    sync.Mutex
	ch    Channel
	queue string
	now   func() time.Time
}

func NewAvailabilityPublisher(ch Channel, queue string) *AvailabilityPublisher {
	return &AvailabilityPublisher{ch: ch, queue: queue, now: time.Now}
}

// Dial connects to the broker and declares the durable hint queue. The
// returned close func releases the channel and the connection.
func Dial(url, queue string) (*AvailabilityPublisher, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq queue declare %s: %w", queue, err)
	}

	closeFn := func() error {
		_ = ch.Close()
		return conn.Close()
	}
	return NewAvailabilityPublisher(ch, queue), closeFn, nil
}

// BuildPublishing renders a hint as a persistent JSON message.
func BuildPublishing(hint AvailabilityHint) (amqp.Publishing, error) {
	body, err := json.Marshal(hint)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    hint.OccurredAt,
		Type:         "suit.availability_hint",
		Body:         body,
	}, nil
}

func (p *AvailabilityPublisher) SetAvailabilityHint(ctx context.Context, suitID int32, available bool) error {
	hint := AvailabilityHint{
		SuitID:     suitID,
		Available:  available,
		Status:     domain.SuitStatusRented,
		OccurredAt: p.now().UTC(),
	}
	if available {
		hint.Status = domain.SuitStatusAvailable
	}

	msg, err := BuildPublishing(hint)
	if err != nil {
		return fmt.Errorf("marshal availability hint: %w", err)
	}

	logger.ExternalServiceCall(ctx, "rabbitmq", "publish", "queue", p.queue, "suitID", suitID, "available", available)
	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		msg,
	)
	p.mu.Unlock()
	logger.ExternalServiceResult(ctx, "rabbitmq", "publish", err)
	if err != nil {
		return fmt.Errorf("publish availability hint for suit %d: %w", suitID, err)
	}
	return nil
}
