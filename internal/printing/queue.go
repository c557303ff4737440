package printing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueDispatcher publishes tickets to a durable RabbitMQ queue for a print
// bridge running next to the physical printer. Publisher confirms are on, so
// Dispatch only returns nil once the broker has accepted the message; the
// mutex serializes publishes because confirms arrive on one shared channel.
type QueueDispatcher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	acks  <-chan amqp.Confirmation
	queue string

	mu sync.Mutex
}

// NewQueueDispatcher dials the broker at url and declares the durable ticket
// queue.
func NewQueueDispatcher(url, queue string) (*QueueDispatcher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declaring queue %s: %w", queue, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enabling publisher confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &QueueDispatcher{conn: conn, ch: ch, acks: acks, queue: queue}, nil
}

// Dispatch publishes one ticket as a persistent message. The device name
// travels in a header so a single bridge can feed several printers.
func (d *QueueDispatcher) Dispatch(ctx context.Context, device string, payload []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.ch.PublishWithContext(
		ctx,
		"",      // default exchange
		d.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/octet-stream",
			Timestamp:    time.Now(),
			Headers:      amqp.Table{"device": device},
			Body:         payload,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing ticket: %w", err)
	}

	select {
	case conf := <-d.acks:
		if conf.Ack {
			return nil
		}
		return errors.New("publish NACK from broker")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts down the channel and connection.
func (d *QueueDispatcher) Close() {
	if d.ch != nil {
		_ = d.ch.Close()
	}
	if d.conn != nil {
		_ = d.conn.Close()
	}
}
