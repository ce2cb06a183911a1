package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/daveharmswebdev/property-manager-sub008/internal/realtime"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

// EventRelay mirrors notification envelopes onto a durable per-account queue
// so offline consumers (digests, audit) can pick them up later. Delivery to
// the queue is best-effort, matching the real-time broadcast semantics.
type EventRelay struct {
	rmq *Connection
	log zerolog.Logger
}

func NewEventRelay(r *Connection, log zerolog.Logger) *EventRelay {
	return &EventRelay{rmq: r, log: log}
}

func queueName(accountID string) string {
	return fmt.Sprintf("account_%s_events", accountID)
}

func (p *EventRelay) RelayEvent(ctx context.Context, accountID string, env realtime.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ch, err := p.rmq.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	queue := queueName(accountID)
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue declare failed: %w", err)
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode %s envelope: %w", env.Type, err)
	}

	err = ch.Publish(
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Type:        env.Type,
			MessageId:   uuid.New().String(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", env.Type, err)
	}

	return nil
}
