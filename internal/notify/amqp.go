package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/workforce-api/internal/redact"
	amqp "github.com/rabbitmq/amqp091-go"
)

// publishChannel is the part of *amqp.Channel the publisher uses.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// DeadLetterQueue names the queue that collects reminders rejected from
// queue.
func DeadLetterQueue(queue string) string {
	return queue + ".dead"
}

// queueArgs routes rejected messages through the default exchange to the
// dead-letter queue.
func queueArgs(queue string) amqp.Table {
	return amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": DeadLetterQueue(queue),
	}
}

// DeclareQueue declares the durable reminder queue on ch together with its
// dead-letter queue.
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	dead := DeadLetterQueue(name)
	if _, err := ch.QueueDeclare(dead, true, false, false, false, nil); err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare queue %q: %w", dead, err)
	}
	q, err := ch.QueueDeclare(name, true, false, false, false, queueArgs(name))
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare queue %q: %w", name, err)
	}
	return q, nil
}

// Dial opens a connection and channel and declares the queue.
func Dial(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %s", redact.Error(err))
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := DeclareQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}

	return conn, ch, nil
}

// AMQPPublisher queues reminders for the mailer worker.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel publishChannel
	queue   string
	logger  *slog.Logger
}

// NewAMQPPublisher connects to url and declares queue.
func NewAMQPPublisher(url, queue string, logger *slog.Logger) (*AMQPPublisher, error) {
	conn, ch, err := Dial(url, queue)
	if err != nil {
		return nil, err
	}
	p := newAMQPPublisher(ch, queue, logger)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch publishChannel, queue string, logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		channel: ch,
		queue:   queue,
		logger:  logger.With("component", "notify", "transport", "amqp"),
	}
}

// SendReminder implements Notifier by publishing a persistent JSON message
// on the default exchange, routed by queue name.
func (p *AMQPPublisher) SendReminder(ctx context.Context, r Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode reminder: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish reminder",
			"error", err,
			"task_id", r.TaskID)
		return fmt.Errorf("failed to publish reminder: %w", err)
	}

	p.logger.DebugContext(ctx, "reminder queued",
		"task_id", r.TaskID,
		"to", redact.Email(r.To))
	return nil
}

// Close closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

// Consumer reads queued reminders and hands them to a Notifier. A message
// that fails delivery is requeued once; a redelivered message that fails
// again is rejected to the dead-letter queue. Messages that cannot be
// decoded or are invalid are rejected straight away.
type Consumer struct {
	deliveries <-chan amqp.Delivery
	notifier   Notifier
	logger     *slog.Logger
}

// NewConsumer starts consuming queue on ch with manual acknowledgement.
func NewConsumer(ch *amqp.Channel, queue string, notifier Notifier, logger *slog.Logger) (*Consumer, error) {
	if err := ch.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}
	deliveries, err := ch.Consume(queue, "mailer", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}
	return newConsumer(deliveries, notifier, logger), nil
}

func newConsumer(deliveries <-chan amqp.Delivery, notifier Notifier, logger *slog.Logger) *Consumer {
	return &Consumer{
		deliveries: deliveries,
		notifier:   notifier,
		logger:     logger.With("component", "reminder_consumer"),
	}
}

// Run processes deliveries until ctx is done or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started")
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopping")
			return nil
		case d, ok := <-c.deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("handler panic recovered", "panic", r, "redelivered", d.Redelivered)
			c.retry(d)
		}
	}()

	var r Reminder
	if err := json.Unmarshal(d.Body, &r); err != nil {
		c.logger.Warn("dropping undecodable reminder", "error", err)
		c.reject(d)
		return
	}
	if err := r.Validate(); err != nil {
		c.logger.Warn("dropping invalid reminder", "error", err, "task_id", r.TaskID)
		c.reject(d)
		return
	}

	if err := c.notifier.SendReminder(ctx, r); err != nil {
		c.logger.Error("reminder delivery failed",
			"error", err,
			"task_id", r.TaskID,
			"redelivered", d.Redelivered)
		c.retry(d)
		return
	}

	if err := d.Ack(false); err != nil {
		c.logger.Error("failed to ack message", "error", err)
	}
}

// retry requeues a first failure and dead-letters a repeated one.
func (c *Consumer) retry(d amqp.Delivery) {
	if d.Redelivered {
		c.logger.Warn("giving up on reminder after redelivery")
		c.reject(d)
		return
	}
	if err := d.Nack(false, true); err != nil {
		c.logger.Error("failed to nack message", "error", err)
	}
}

func (c *Consumer) reject(d amqp.Delivery) {
	if err := d.Nack(false, false); err != nil {
		c.logger.Error("failed to nack message", "error", err)
	}
}
