package broker

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeMessages      = "messages_exchange"
	ExchangeNotifications = "notifications_exchange"

	QueueMessages      = "messages_queue"
	QueueNotifications = "notifications_queue"

	RoutingKeyMessage      = "message"
	RoutingKeyNotification = "notification"
)

// RabbitMQBroker is the bridge to the message broker: two direct
// exchanges, each bound to one durable queue with a fixed routing key.
// Publishing is best-effort from the caller's point of view; delivery to
// subscribers carries no ordering guarantee relative to presence changes.
type RabbitMQBroker struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQBroker(url string) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	b := &RabbitMQBroker{
		conn:    conn,
		channel: channel,
	}
	if err := b.declareTopology(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *RabbitMQBroker) declareTopology() error {
	bindings := []struct {
		exchange string
		queue    string
		key      string
	}{
		{ExchangeMessages, QueueMessages, RoutingKeyMessage},
		{ExchangeNotifications, QueueNotifications, RoutingKeyNotification},
	}

	for _, binding := range bindings {
		if err := b.channel.ExchangeDeclare(
			binding.exchange,
			"direct",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		); err != nil {
			return err
		}

		if _, err := b.channel.QueueDeclare(
			binding.queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		); err != nil {
			return err
		}

		if err := b.channel.QueueBind(
			binding.queue,
			binding.key,
			binding.exchange,
			false,
			nil,
		); err != nil {
			return err
		}
	}
	return nil
}

// Publish marshals payload to JSON and publishes it on the exchange with
// the given routing key.
func (b *RabbitMQBroker) Publish(ctx context.Context, exchange, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return b.channel.PublishWithContext(
		ctx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Consume opens a delivery stream on a queue. Deliveries must be acked by
// the consumer.
func (b *RabbitMQBroker) Consume(queue string) (<-chan amqp.Delivery, error) {
	return b.channel.Consume(
		queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
}

func (b *RabbitMQBroker) Close() error {
	if b.channel != nil {
		if err := b.channel.Close(); err != nil {
			return err
		}
	}
	return b.conn.Close()
}
