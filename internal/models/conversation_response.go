package models

import "time"

// ConversationResponse is the derived per-partner summary. It is computed
// on every query and never persisted.
type ConversationResponse struct {
	UserID          uint      `json:"user_id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int64     `json:"unread_count"`
}
