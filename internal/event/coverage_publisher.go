package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"insurance-service/internal/services"

	amqp "github.com/rabbitmq/amqp091-go"
)

// CoverageEventQueue carries coverage activation/deactivation events for the
// notification service.
const CoverageEventQueue = "coverage_events"

// CoveragePublisher publishes coverage toggle events to RabbitMQ. It
// implements services.EventPublisher.
type CoveragePublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

func NewCoveragePublisher(conn *RabbitMQConnection) *CoveragePublisher {
	return &CoveragePublisher{
		conn:            conn,
		lastPublishTime: time.Now(),
	}
}

// PublishCoverageEvent publishes one coverage event to the coverage_events queue.
func (p *CoveragePublisher) PublishCoverageEvent(ctx context.Context, event services.CoverageEvent) error {
	// Ensure the queue exists
	_, err := p.conn.Channel.QueueDeclare(
		CoverageEventQueue, // queue name
		true,               // durable
		false,              // delete when unused
		false,              // exclusive
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to marshal coverage event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",                 // exchange
		CoverageEventQueue, // routing key (queue name)
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish coverage event: %w", err)
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()

	slog.Info("Coverage event published",
		"queue", CoverageEventQueue,
		"policy_number", event.PolicyNumber,
		"action", event.Action,
	)

	return nil
}
