package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"realtimeChat/internal/broker"
	"realtimeChat/internal/errs"
	"realtimeChat/internal/models"
	brokerModels "realtimeChat/internal/models/broker"

	"github.com/stretchr/testify/require"
)

// memoryStore implements MessageRepository with the same observable
// semantics as the gorm-backed repository.
type memoryStore struct {
	mu       sync.Mutex
	nextID   uint
	messages []*models.Message
	users    map[uint]*models.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		nextID: 1,
		users:  make(map[uint]*models.User),
	}
}

func (s *memoryStore) addUser(id uint, username, email string) {
	s.users[id] = &models.User{Username: username, Email: email}
	s.users[id].ID = id
}

func (s *memoryStore) SaveMessage(message *models.Message) (*models.Message, []error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	message.ID = s.nextID
	s.nextID++
	stored := *message
	s.messages = append(s.messages, &stored)
	return message, nil
}

func (s *memoryStore) pairMessages(userID, otherUserID uint) []*models.Message {
	var result []*models.Message
	for _, m := range s.messages {
		if (m.SenderID == userID && m.ReceiverID == otherUserID) ||
			(m.SenderID == otherUserID && m.ReceiverID == userID) {
			result = append(result, m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].ID < result[j].ID
		}
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result
}

func (s *memoryStore) GetMessagesBetweenUsers(userID, otherUserID uint, page, limit int) (*models.MessageListResponse, []error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := s.pairMessages(userID, otherUserID)
	total := int64(len(pair))

	start := (page - 1) * limit
	if start > len(pair) {
		start = len(pair)
	}
	end := start + limit
	if end > len(pair) {
		end = len(pair)
	}

	pageMessages := make([]models.Message, 0, end-start)
	for _, m := range pair[start:end] {
		pageMessages = append(pageMessages, *m)
	}

	for _, m := range s.messages {
		if m.SenderID == otherUserID && m.ReceiverID == userID {
			m.Read = true
		}
	}

	return &models.MessageListResponse{
		Messages: pageMessages,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func (s *memoryStore) MarkMessagesAsRead(userID uint, messageIDs []uint) []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idSet := make(map[uint]bool, len(messageIDs))
	for _, id := range messageIDs {
		idSet[id] = true
	}
	for _, m := range s.messages {
		if idSet[m.ID] && m.ReceiverID == userID {
			m.Read = true
		}
	}
	return nil
}

func (s *memoryStore) GetConversations(userID uint) ([]models.ConversationResponse, []error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type partnerState struct {
		last   *models.Message
		unread int64
	}
	partners := make(map[uint]*partnerState)

	for _, m := range s.messages {
		var partnerID uint
		switch {
		case m.SenderID == userID:
			partnerID = m.ReceiverID
		case m.ReceiverID == userID:
			partnerID = m.SenderID
		default:
			continue
		}
		state, ok := partners[partnerID]
		if !ok {
			state = &partnerState{}
			partners[partnerID] = state
		}
		if state.last == nil || m.Timestamp.After(state.last.Timestamp) {
			state.last = m
		}
		if m.SenderID == partnerID && m.ReceiverID == userID && !m.Read {
			state.unread++
		}
	}

	conversations := make([]models.ConversationResponse, 0, len(partners))
	for partnerID, state := range partners {
		user := s.users[partnerID]
		conversations = append(conversations, models.ConversationResponse{
			UserID:          partnerID,
			Username:        user.Username,
			Email:           user.Email,
			LastMessage:     state.last.Content,
			LastMessageTime: state.last.Timestamp,
			UnreadCount:     state.unread,
		})
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessageTime.After(conversations[j].LastMessageTime)
	})
	return conversations, nil
}

func (s *memoryStore) unreadCount(senderID, receiverID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, m := range s.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Read {
			count++
		}
	}
	return count
}

type fakeDirectory struct {
	existing map[uint]bool
}

func (d *fakeDirectory) UserExists(userID uint) bool {
	return d.existing[userID]
}

type publishRecord struct {
	exchange   string
	routingKey string
	payload    interface{}
}

type fakePublisher struct {
	mu       sync.Mutex
	records  []publishRecord
	failWith error
}

func (p *fakePublisher) Publish(_ context.Context, exchange, routingKey string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failWith != nil {
		return p.failWith
	}
	p.records = append(p.records, publishRecord{exchange, routingKey, payload})
	return nil
}

func newTestService(users ...uint) (*ChatService, *memoryStore, *fakePublisher) {
	store := newMemoryStore()
	directory := &fakeDirectory{existing: make(map[uint]bool)}
	for _, id := range users {
		directory.existing[id] = true
		store.addUser(id, "user", "user@example.com")
	}
	publisher := &fakePublisher{}
	return NewChatService(store, directory, publisher), store, publisher
}

func seedMessage(store *memoryStore, senderID, receiverID uint, content string, at time.Time) *models.Message {
	msg, _ := store.SaveMessage(models.NewMessage(senderID, receiverID, content, at))
	return msg
}

func TestSendMessageToUnknownReceiver(t *testing.T) {
	req := require.New(t)
	service, store, publisher := newTestService(1)

	_, sendErrs := service.SendMessage(context.Background(), 1, 99, "Hello!")
	req.Equal([]error{errs.ErrReceiverNotFound}, sendErrs)

	// NotFound must leave no side effects behind.
	req.Empty(store.messages)
	req.Empty(publisher.records)
}

func TestSendMessageValidation(t *testing.T) {
	req := require.New(t)
	service, store, publisher := newTestService(1, 2)

	_, sendErrs := service.SendMessage(context.Background(), 1, 2, "   ")
	req.Equal([]error{errs.ErrEmptyContent}, sendErrs)
	req.Empty(store.messages)
	req.Empty(publisher.records)
}

func TestSendMessagePersistsAndPublishes(t *testing.T) {
	req := require.New(t)
	service, store, publisher := newTestService(1, 2)

	message, sendErrs := service.SendMessage(context.Background(), 1, 2, "Hello!")
	req.Empty(sendErrs)
	req.NotZero(message.ID)
	req.Equal(uint(1), message.SenderID)
	req.Equal(uint(2), message.ReceiverID)
	req.Equal("Hello!", message.Content)
	req.False(message.Read)

	req.Len(store.messages, 1)
	req.False(store.messages[0].Read)

	req.Len(publisher.records, 1)
	record := publisher.records[0]
	req.Equal(broker.ExchangeMessages, record.exchange)
	req.Equal(broker.RoutingKeyMessage, record.routingKey)

	event := record.payload.(brokerModels.MessageCreatedEvent)
	req.Equal(message.ID, event.MessageID)
	req.Equal(message.Content, event.Content)
	req.Equal(message.Timestamp, event.Timestamp)
}

func TestSendMessageSurvivesPublishFailure(t *testing.T) {
	req := require.New(t)
	service, store, publisher := newTestService(1, 2)
	publisher.failWith = errs.Error("broker down")

	message, sendErrs := service.SendMessage(context.Background(), 1, 2, "Hello!")
	req.Empty(sendErrs)
	req.NotNil(message)
	req.Len(store.messages, 1)
}

func TestGetMessagesMarksUnreadAsRead(t *testing.T) {
	req := require.New(t)
	service, store, _ := newTestService(1, 2)
	base := time.Now()

	seedMessage(store, 2, 1, "hi", base)
	seedMessage(store, 1, 2, "hey", base.Add(time.Second))
	seedMessage(store, 2, 1, "how are you", base.Add(2*time.Second))

	req.Equal(2, store.unreadCount(2, 1))

	history, historyErrs := service.GetMessages(1, 2, 1, 50)
	req.Empty(historyErrs)
	req.Equal(int64(3), history.Total)
	req.Len(history.Messages, 3)
	for i := 1; i < len(history.Messages); i++ {
		req.False(history.Messages[i].Timestamp.Before(history.Messages[i-1].Timestamp))
	}

	// Viewing history is the read receipt.
	req.Zero(store.unreadCount(2, 1))

	// An immediate repeat finds nothing left to transition.
	again, againErrs := service.GetMessages(1, 2, 1, 50)
	req.Empty(againErrs)
	req.Equal(history.Total, again.Total)
	req.Zero(store.unreadCount(2, 1))
}

func TestGetMessagesPagination(t *testing.T) {
	req := require.New(t)
	service, store, _ := newTestService(1, 2)
	base := time.Now()

	for i := 0; i < 5; i++ {
		seedMessage(store, 1, 2, "msg", base.Add(time.Duration(i)*time.Second))
	}

	history, historyErrs := service.GetMessages(1, 2, 2, 2)
	req.Empty(historyErrs)
	req.Equal(int64(5), history.Total)
	req.Len(history.Messages, 2)
	req.Equal(uint(3), history.Messages[0].ID)
	req.Equal(uint(4), history.Messages[1].ID)
	req.Equal(2, history.Page)
	req.Equal(2, history.Limit)
}

func TestGetMessagesSanitizesPagination(t *testing.T) {
	req := require.New(t)
	service, store, _ := newTestService(1, 2)
	seedMessage(store, 1, 2, "msg", time.Now())

	history, historyErrs := service.GetMessages(1, 2, -1, 0)
	req.Empty(historyErrs)
	req.Equal(1, history.Page)
	req.Equal(50, history.Limit)
}

func TestMarkAsReadFiltersForeignIds(t *testing.T) {
	req := require.New(t)
	service, store, _ := newTestService(1, 2, 3)
	base := time.Now()

	mine := seedMessage(store, 2, 1, "for me", base)
	other := seedMessage(store, 2, 3, "for someone else", base)

	markErrs := service.MarkAsRead(1, []uint{mine.ID, other.ID})
	req.Empty(markErrs)

	req.True(store.messages[0].Read)
	req.False(store.messages[1].Read)
}

func TestGetConversationsAggregation(t *testing.T) {
	req := require.New(t)
	service, store, _ := newTestService(1, 2, 3)
	base := time.Now()

	seedMessage(store, 2, 1, "old from 2", base)
	seedMessage(store, 1, 2, "reply to 2", base.Add(time.Second))
	seedMessage(store, 2, 1, "latest from 2", base.Add(2*time.Second))
	seedMessage(store, 3, 1, "newest overall", base.Add(3*time.Second))

	conversations, convErrs := service.GetConversations(1)
	req.Empty(convErrs)
	req.Len(conversations, 2)

	// Sorted by last message time descending.
	req.Equal(uint(3), conversations[0].UserID)
	req.Equal("newest overall", conversations[0].LastMessage)
	req.Equal(int64(1), conversations[0].UnreadCount)

	req.Equal(uint(2), conversations[1].UserID)
	req.Equal("latest from 2", conversations[1].LastMessage)
	req.Equal(int64(2), conversations[1].UnreadCount)
}

func TestGetConversationsRequiresUser(t *testing.T) {
	req := require.New(t)
	service, _, _ := newTestService()

	_, convErrs := service.GetConversations(0)
	req.Equal([]error{errs.ErrInvalidParams}, convErrs)
}
