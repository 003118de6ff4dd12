package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Sender delivers a rendered email to a single recipient.  The notify
// package provides the production implementation backed by the Brevo
// HTTP API.
type Sender interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

// StartEmailConsumer connects to RabbitMQ, declares the durable
// email.outbound queue and delivers each event through the given
// Sender.  It runs a reconnect loop with exponential backoff and is
// intended to be started in a goroutine from main.  Delivery is
// best-effort: a message that cannot be processed is logged and
// rejected without requeueing so one bad event cannot wedge the queue.
func StartEmailConsumer(url string, sender Sender) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("email-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeEmails(conn, sender); err != nil {
			log.Printf("email-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeEmails(conn *amqp.Connection, sender Sender) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(20, 0, false); err != nil {
		log.Printf("email-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(emailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(emailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := deliverEmail(d.Body, sender); err != nil {
			log.Printf("email-consumer: deliver failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func deliverEmail(body []byte, sender Sender) error {
	var ev EmailEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.To == "" {
		return errors.New("event has no recipient")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := sender.Send(ctx, ev.To, ev.Subject, ev.TextBody, ev.HTMLBody); err != nil {
		return fmt.Errorf("send to %s: %w", ev.To, err)
	}
	return nil
}
