package services

import (
	"context"

	"realtimeChat/internal/models"
)

// MessageRepository is the durable message store; it owns ordering and
// read-state.
type MessageRepository interface {
	SaveMessage(message *models.Message) (*models.Message, []error)
	GetMessagesBetweenUsers(userID, otherUserID uint, page, limit int) (*models.MessageListResponse, []error)
	MarkMessagesAsRead(userID uint, messageIDs []uint) []error
	GetConversations(userID uint) ([]models.ConversationResponse, []error)
}

// UserDirectory answers existence lookups by user id.
type UserDirectory interface {
	UserExists(userID uint) bool
}

// EventPublisher publishes a payload on an exchange with a routing key.
// Best-effort from the chat service's point of view.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, payload interface{}) error
}
