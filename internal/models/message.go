package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a direct message between two users. Immutable after creation
// except for the Read flag, which only ever goes false -> true.
type Message struct {
	gorm.Model
	SenderID   uint      `gorm:"index:idx_messages_pair" json:"sender_id"`
	ReceiverID uint      `gorm:"index:idx_messages_pair;index:idx_messages_unread" json:"receiver_id"`
	Content    string    `gorm:"not null" json:"content"`
	Timestamp  time.Time `gorm:"index" json:"timestamp"`
	Read       bool      `gorm:"default:false;index:idx_messages_unread" json:"read"`
}

// NewMessage derives the persistence-time fields of a message. Kept as a
// pure function so the derivation is testable outside of any store.
func NewMessage(senderID, receiverID uint, content string, now time.Time) *Message {
	return &Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  now,
		Read:       false,
	}
}
