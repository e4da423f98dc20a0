package repositories

import (
	"time"

	"realtimeChat/internal/models"
	"realtimeChat/internal/utils"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{
		db: db,
	}
}

func (chr *ChatRepository) SaveMessage(message *models.Message) (*models.Message, []error) {
	var errors []error
	if err := chr.db.Create(message).Error; err != nil {
		errors = append(errors, err)
		return nil, errors
	}
	return message, nil
}

// GetMessagesBetweenUsers returns one page of the history between two
// users in ascending timestamp order, plus the total count over the same
// filter. Viewing history is itself a read receipt: every unread message
// from otherUserID to userID is marked read on the way out. The count is
// a separate statement and can go stale against concurrent inserts.
func (chr *ChatRepository) GetMessagesBetweenUsers(userID, otherUserID uint, page, limit int) (*models.MessageListResponse, []error) {
	var errors []error
	var messages []models.Message
	var total int64

	pairFilter := "(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)"

	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Scopes(utils.Paginate(page, limit)).
			Where(pairFilter, userID, otherUserID, otherUserID, userID).
			Order("timestamp ASC").
			Find(&messages).Error; err != nil {
			return err
		}

		if err := tx.
			Model(&models.Message{}).
			Where(pairFilter, userID, otherUserID, otherUserID, userID).
			Count(&total).Error; err != nil {
			return err
		}

		if err := tx.
			Model(&models.Message{}).
			Where("sender_id = ? AND receiver_id = ? AND read = ?", otherUserID, userID, false).
			Update("read", true).Error; err != nil {
			return err
		}

		return nil
	})
	if transactionErr != nil {
		errors = append(errors, transactionErr)
		return nil, errors
	}

	return &models.MessageListResponse{
		Messages: messages,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// MarkMessagesAsRead bulk-sets read=true for the given ids owned by
// userID as receiver. Ids the user does not own fall out of the filter
// silently; zero affected rows is not an error.
func (chr *ChatRepository) MarkMessagesAsRead(userID uint, messageIDs []uint) []error {
	var errors []error
	if len(messageIDs) == 0 {
		return nil
	}
	result := chr.db.
		Model(&models.Message{}).
		Where("id IN ? AND receiver_id = ? AND read = ?", messageIDs, userID, false).
		Update("read", true)
	if err := result.Error; err != nil {
		errors = append(errors, err)
		return errors
	}
	return nil
}

type conversationRow struct {
	PartnerID       uint      `gorm:"column:partner_id"`
	Username        string    `gorm:"column:username"`
	Email           string    `gorm:"column:email"`
	LastMessage     string    `gorm:"column:last_message"`
	LastMessageTime time.Time `gorm:"column:last_message_time"`
}

// GetConversations finds every distinct partner the user has exchanged
// messages with and the most recent message per partner, newest
// conversation first. Unread counts are one extra query per partner
// (N+1); fine at this scale.
func (chr *ChatRepository) GetConversations(userID uint) ([]models.ConversationResponse, []error) {
	var errors []error
	var rows []conversationRow

	query := `
		SELECT t.partner_id, u.username, u.email, t.last_message, t.last_message_time
		FROM (
			SELECT DISTINCT ON (partner_id)
				CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS partner_id,
				content AS last_message,
				timestamp AS last_message_time
			FROM messages
			WHERE deleted_at IS NULL AND (sender_id = ? OR receiver_id = ?)
			ORDER BY partner_id, timestamp DESC
		) t
		INNER JOIN users u ON u.id = t.partner_id
		ORDER BY t.last_message_time DESC`

	if err := chr.db.Raw(query, userID, userID, userID).Scan(&rows).Error; err != nil {
		errors = append(errors, err)
		return nil, errors
	}

	conversations := make([]models.ConversationResponse, 0, len(rows))
	for _, row := range rows {
		unread, err := chr.GetUnreadCount(row.PartnerID, userID)
		if err != nil {
			errors = append(errors, err)
			return nil, errors
		}
		conversations = append(conversations, models.ConversationResponse{
			UserID:          row.PartnerID,
			Username:        row.Username,
			Email:           row.Email,
			LastMessage:     row.LastMessage,
			LastMessageTime: row.LastMessageTime,
			UnreadCount:     unread,
		})
	}

	return conversations, nil
}

// GetUnreadCount counts unread messages from senderID to receiverID.
func (chr *ChatRepository) GetUnreadCount(senderID, receiverID uint) (int64, error) {
	var count int64
	result := chr.db.
		Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", senderID, receiverID, false).
		Count(&count)
	if err := result.Error; err != nil {
		return 0, err
	}
	return count, nil
}
