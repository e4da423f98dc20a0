package services

import (
	"context"
	"log"
	"time"

	"realtimeChat/internal/broker"
	"realtimeChat/internal/errs"
	"realtimeChat/internal/models"
	brokerModels "realtimeChat/internal/models/broker"
	"realtimeChat/internal/utils"
	"realtimeChat/internal/validators"
)

type ChatService struct {
	chatRepo  MessageRepository
	directory UserDirectory
	publisher EventPublisher
}

func NewChatService(chatRepo MessageRepository, directory UserDirectory, publisher EventPublisher) *ChatService {
	return &ChatService{
		chatRepo:  chatRepo,
		directory: directory,
		publisher: publisher,
	}
}

// SendMessage validates the receiver, persists the message and publishes
// a message-created event. Persistence is the source of truth: a failed
// publish is logged and swallowed, the saved message is still returned.
func (cs *ChatService) SendMessage(ctx context.Context, senderID, receiverID uint, content string) (*models.Message, []error) {
	if validationErrs := validators.ValidateSendMessage(receiverID, content); len(validationErrs) > 0 {
		return nil, validationErrs
	}

	if !cs.directory.UserExists(receiverID) {
		return nil, []error{errs.ErrReceiverNotFound}
	}

	message := models.NewMessage(senderID, receiverID, content, time.Now())
	saved, saveErrs := cs.chatRepo.SaveMessage(message)
	if len(saveErrs) > 0 {
		return nil, saveErrs
	}

	event := brokerModels.MessageCreatedEvent{
		MessageID:  saved.ID,
		SenderID:   saved.SenderID,
		ReceiverID: saved.ReceiverID,
		Content:    saved.Content,
		Timestamp:  saved.Timestamp,
	}
	if err := cs.publisher.Publish(ctx, broker.ExchangeMessages, broker.RoutingKeyMessage, event); err != nil {
		log.Printf("Error publishing message-created event for message %d: %v", saved.ID, err)
	}

	return saved, nil
}

// GetMessages returns one page of history between two users and, as a
// side effect, marks every unread message from otherUserID to userID as
// read.
func (cs *ChatService) GetMessages(userID, otherUserID uint, page, limit int) (*models.MessageListResponse, []error) {
	if userID == 0 || otherUserID == 0 {
		return nil, []error{errs.ErrInvalidParams}
	}
	page, limit = utils.SanitizePagination(page, limit)
	return cs.chatRepo.GetMessagesBetweenUsers(userID, otherUserID, page, limit)
}

// MarkAsRead bulk-marks the given messages read for userID as receiver.
// Ids not addressed to userID are filtered out silently.
func (cs *ChatService) MarkAsRead(userID uint, messageIDs []uint) []error {
	return cs.chatRepo.MarkMessagesAsRead(userID, messageIDs)
}

// GetConversations lists one derived summary per distinct partner, newest
// conversation first.
func (cs *ChatService) GetConversations(userID uint) ([]models.ConversationResponse, []error) {
	if userID == 0 {
		return nil, []error{errs.ErrInvalidParams}
	}
	return cs.chatRepo.GetConversations(userID)
}
