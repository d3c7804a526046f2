package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	// Declare exchange
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// Declare queue
	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Bind both routing keys to the one queue so a single consumer sees
	// creates and deletes in publish order.
	for _, key := range []string{RoutingKeySync, RoutingKeyDelete} {
		if err := c.channel.QueueBind(c.queueName, key, c.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue for %s: %w", key, err)
		}
	}

	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent, // make message persistent
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// PublishRecordSync publishes a record sync message
func (c *Client) PublishRecordSync(ctx context.Context, id int64) error {
	body, err := NewRecordSyncMessage(id).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, RoutingKeySync, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published record sync message",
		"id", id,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// PublishRecordDelete publishes a record delete message
func (c *Client) PublishRecordDelete(ctx context.Context, id int64, remoteID string) error {
	body, err := NewRecordDeleteMessage(id, remoteID).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, RoutingKeyDelete, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published record delete message",
		"id", id,
		"remote_id", remoteID,
		"exchange", c.exchangeName)
	return nil
}

// ConsumeMessages consumes the sync queue, dispatching on routing key.
// Handler errors requeue the delivery; undecodable payloads are dropped.
func (c *Client) ConsumeMessages(
	ctx context.Context,
	syncHandler func(*RecordSyncMessage) error,
	deleteHandler func(*RecordDeleteMessage) error,
) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming record messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.handleDelivery(ctx, delivery, syncHandler, deleteHandler)
		}
	}
}

func (c *Client) handleDelivery(
	ctx context.Context,
	delivery amqp091.Delivery,
	syncHandler func(*RecordSyncMessage) error,
	deleteHandler func(*RecordDeleteMessage) error,
) {
	switch delivery.RoutingKey {
	case RoutingKeySync:
		msg, err := RecordSyncMessageFromJSON(delivery.Body)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to unmarshal sync message", "error", err)
			delivery.Nack(false, false) // reject and don't requeue
			return
		}
		if err := syncHandler(msg); err != nil {
			slog.ErrorContext(ctx, "Failed to handle sync message", "error", err, "id", msg.ID)
			delivery.Nack(false, true) // reject and requeue
			return
		}
		delivery.Ack(false)
		slog.InfoContext(ctx, "Processed record sync message", "id", msg.ID)

	case RoutingKeyDelete:
		msg, err := RecordDeleteMessageFromJSON(delivery.Body)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to unmarshal delete message", "error", err)
			delivery.Nack(false, false)
			return
		}
		if err := deleteHandler(msg); err != nil {
			slog.ErrorContext(ctx, "Failed to handle delete message", "error", err, "id", msg.ID)
			delivery.Nack(false, true)
			return
		}
		delivery.Ack(false)
		slog.InfoContext(ctx, "Processed record delete message", "id", msg.ID)

	default:
		slog.WarnContext(ctx, "Unknown routing key", "routing_key", delivery.RoutingKey)
		delivery.Nack(false, false)
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
