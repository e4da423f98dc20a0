package consumers

import (
	"context"
	"encoding/json"
	"log"

	"realtimeChat/internal/broker"
	brokerModels "realtimeChat/internal/models/broker"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BrokerChannel is the slice of the broker the consumer needs: pull
// deliveries from a queue, republish on an exchange.
type BrokerChannel interface {
	Consume(queue string) (<-chan amqp.Delivery, error)
	Publish(ctx context.Context, exchange, routingKey string, payload interface{}) error
}

// NotificationPusher delivers a notification to a live connection if the
// user has one. Fire-and-forget: offline users miss it.
type NotificationPusher interface {
	PushNotification(userID uint, notification brokerModels.NotificationEvent)
}

// ChatConsumer bridges the two broker channels: message-created events
// become notification events, notification events become live pushes.
// Handler failures are logged and the delivery is acked regardless, so a
// poisoned payload is dropped rather than redelivered forever.
type ChatConsumer struct {
	ctx    context.Context
	broker BrokerChannel
	pusher NotificationPusher
}

func NewChatConsumer(ctx context.Context, brokerChannel BrokerChannel, pusher NotificationPusher) *ChatConsumer {
	return &ChatConsumer{
		ctx:    ctx,
		broker: brokerChannel,
		pusher: pusher,
	}
}

// Start opens both subscriptions and consumes them on their own
// goroutines until the delivery channels close.
func (cc *ChatConsumer) Start() error {
	messageDeliveries, err := cc.broker.Consume(broker.QueueMessages)
	if err != nil {
		return err
	}
	notificationDeliveries, err := cc.broker.Consume(broker.QueueNotifications)
	if err != nil {
		return err
	}

	go cc.consume(messageDeliveries, cc.HandleMessageCreated)
	go cc.consume(notificationDeliveries, cc.HandleNotification)
	return nil
}

func (cc *ChatConsumer) consume(deliveries <-chan amqp.Delivery, handler func(body []byte) error) {
	for delivery := range deliveries {
		if err := handler(delivery.Body); err != nil {
			log.Printf("Error processing delivery from queue: %v", err)
		}
		if err := delivery.Ack(false); err != nil {
			log.Printf("Error acking delivery: %v", err)
		}
	}
}

// HandleMessageCreated republishes a message-created event on the
// notification channel. Pass-through today; the place to hang extra
// fan-out (mail, mobile push) later.
func (cc *ChatConsumer) HandleMessageCreated(body []byte) error {
	var event brokerModels.MessageCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}

	notification := brokerModels.NotificationEvent{
		Type:           brokerModels.NotificationTypeNewMessage,
		ReceiverID:     event.ReceiverID,
		SenderID:       event.SenderID,
		MessagePreview: event.Content,
		Timestamp:      event.Timestamp,
	}
	return cc.broker.Publish(cc.ctx, broker.ExchangeNotifications, broker.RoutingKeyNotification, notification)
}

// HandleNotification truncates the content to a preview and pushes the
// notification to the receiver's live connection, if any.
func (cc *ChatConsumer) HandleNotification(body []byte) error {
	var notification brokerModels.NotificationEvent
	if err := json.Unmarshal(body, &notification); err != nil {
		return err
	}

	notification.MessagePreview = brokerModels.MessagePreview(notification.MessagePreview)
	cc.pusher.PushNotification(notification.ReceiverID, notification)
	return nil
}
