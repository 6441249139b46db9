package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/pkg/logger"
)

// ActivitySink persists consumed events; satisfied by
// repository.ActivityRepo.
type ActivitySink interface {
	Insert(ctx context.Context, e model.ActivityLog) error
}

// StartActivityConsumer connects to RabbitMQ, declares the durable
// activity.recorded queue and consumes it forever, appending each event
// to the activity_logs table. It runs a reconnect loop with exponential
// backoff and keeps going across broker restarts; failed messages are
// rejected without requeue to avoid tight redelivery loops. Run it in
// its own goroutine.
func StartActivityConsumer(sink ActivitySink, log logger.Logger) {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("activity consumer dial failed", "error", err, "retry_in", backoff.String())
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, sink, log); err != nil {
			log.Warn("activity consume loop ended", "error", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, sink ActivitySink, log logger.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("activity consumer set QoS failed", "error", err)
	}

	if _, err := ch.QueueDeclare(ActivityQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(ActivityQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, sink); err != nil {
			log.Error("activity message handling failed", "error", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, sink ActivitySink) error {
	var ev ActivityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := model.ActivityLog{
		UserID:      ev.UserID,
		AccountID:   ev.AccountID,
		EntityType:  ev.EntityType,
		ActionType:  ev.ActionType,
		Description: ev.Description,
		Details:     model.ActivityDetails{Before: ev.Before, After: ev.After},
	}
	if err := sink.Insert(ctx, entry); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
