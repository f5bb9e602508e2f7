package rabbitmq_consumer

import (
	"context"
	"fmt"
	"time"

	"listing-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler processes one delivery. A non-nil error sends the message
// into the retry loop (or nacks it when retries are disabled).
type MessageHandler func(ctx context.Context, d amqp.Delivery) error

// MessageConsumer delivers messages one at a time to its handler.
type MessageConsumer struct {
	baseConsumer *baseConsumer
	handler      MessageHandler
}

func NewMessageConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*MessageConsumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("message Consumer: message handler is required")
	}

	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("message Consumer: %w", err)
	}

	return &MessageConsumer{
		baseConsumer: bc,
		handler:      handler,
	}, nil
}

// StartConsuming blocks until the context is cancelled or the connection
// drops.
func (c *MessageConsumer) StartConsuming(ctx context.Context) error {
	if c.baseConsumer.channel == nil || c.baseConsumer.connection.IsClosed() {
		return fmt.Errorf("message Consumer: not connected")
	}

	msgs, err := c.baseConsumer.channel.Consume(
		c.baseConsumer.actualQueueName,
		c.baseConsumer.config.ConsumerTag,
		false, // auto-ack
		c.baseConsumer.config.ExclusiveConsumer,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("message Consumer: failed to register a consumer: %w", err)
	}

	c.baseConsumer.Logger.Info("[*] Waiting for messages on queue",
		"queue_name", c.baseConsumer.actualQueueName)

	c.baseConsumer.wg.Add(1)
	go func() {
		defer c.baseConsumer.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.baseConsumer.Logger.Info("Context cancelled. Stopping message loop.")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.baseConsumer.Logger.Info("Deliveries channel closed.")
					return
				}
				c.processMessage(ctx, msg)
			}
		}
	}()

	notifyClose := make(chan *amqp.Error)
	c.baseConsumer.connection.NotifyClose(notifyClose)

	select {
	case <-ctx.Done():
		c.baseConsumer.Logger.Info("Context cancelled for consumer. Shutting down.",
			"consumer_tag", c.baseConsumer.config.ConsumerTag)
		return nil
	case err := <-notifyClose:
		c.baseConsumer.Logger.Error(err, "Connection closed for consumer",
			"consumer_tag", c.baseConsumer.config.ConsumerTag)
		return err
	}
}

func (c *MessageConsumer) processMessage(ctx context.Context, d amqp.Delivery) {
	if err := c.handler(ctx, d); err == nil {
		_ = d.Ack(false)
		return
	} else {
		c.baseConsumer.Logger.Error(err, "Handler returned error for message",
			"delivery_tag", d.DeliveryTag)
	}

	if !c.baseConsumer.config.EnableRetryMechanism {
		c.baseConsumer.Logger.Info("Retry disabled. Nacking message without requeue.",
			"delivery_tag", d.DeliveryTag)
		_ = d.Nack(false, false)
		return
	}

	deathCount := c.baseConsumer.getDeathCount(d, c.baseConsumer.actualQueueName)
	if deathCount < int64(c.baseConsumer.config.MaxRetries) {
		c.baseConsumer.Logger.Info("Nacking message for retry",
			"delivery_tag", d.DeliveryTag,
			"death_count", deathCount)
		_ = d.Nack(false, false) // requeue=false, dead-letters into the retry loop
		return
	}

	c.baseConsumer.Logger.Info("Max retries reached for message. Publishing to final DLX.",
		"delivery_tag", d.DeliveryTag)
	err := c.baseConsumer.finalDlxPublisher.Publish(
		context.Background(),
		c.baseConsumer.config.FinalDLQRoutingKey,
		amqp.Publishing{
			ContentType:  d.ContentType,
			Body:         d.Body,
			Headers:      d.Headers,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		c.baseConsumer.Logger.Error(err, "Failed to publish to final DLX. Nacking to trigger retry loop again.",
			"delivery_tag", d.DeliveryTag)
		_ = d.Nack(false, false)
	} else {
		_ = d.Ack(false)
	}
}

// Close waits for the in-flight handler and closes the channel.
func (c *MessageConsumer) Close() error {
	c.baseConsumer.Logger.Info("Closing consumer")
	return c.baseConsumer.Close()
}
