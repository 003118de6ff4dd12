package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const emailQueueName = "email.outbound"

// Publisher sends EmailEvents to the email.outbound queue.  Errors are
// logged and returned so callers can ignore failures without
// interrupting the main request flow; the booking or tournament
// mutation has already committed by the time anything is published.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher that connects to the broker at the
// given AMQP URL on every publish.  Publishing is infrequent (a
// handful of emails per state change), so a connection per call keeps
// the publisher free of channel state and reconnect bookkeeping.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// PublishEmail publishes the event to the email.outbound queue.  The
// queue is declared durable and messages are marked persistent so
// pending emails survive a broker restart.  The function never
// panics; any error is logged and returned.
func (p *Publisher) PublishEmail(ctx context.Context, event EmailEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		emailQueueName, // name
		true,           // durable
		false,          // autoDelete
		false,          // exclusive
		false,          // noWait
		nil,            // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",             // default exchange
		emailQueueName, // routing key = queue name
		false,          // mandatory
		false,          // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
