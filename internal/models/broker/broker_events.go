package models

import "time"

const NotificationTypeNewMessage = "new_message"

// PreviewLength caps the notification preview at the first 50 characters
// of the message content.
const PreviewLength = 50

// MessageCreatedEvent is published on the messages exchange after a
// message has been persisted.
type MessageCreatedEvent struct {
	MessageID  uint      `json:"messageId"`
	SenderID   uint      `json:"senderId"`
	ReceiverID uint      `json:"receiverId"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// NotificationEvent is the ephemeral payload pushed to a connected
// receiver; it is never persisted.
type NotificationEvent struct {
	Type           string    `json:"type"`
	ReceiverID     uint      `json:"receiverId"`
	SenderID       uint      `json:"senderId"`
	MessagePreview string    `json:"messagePreview"`
	Timestamp      time.Time `json:"timestamp"`
}

// MessagePreview keeps the first 50 characters, not bytes: multibyte
// content must neither shorten the preview nor be cut mid-rune.
func MessagePreview(content string) string {
	runes := []rune(content)
	if len(runes) > PreviewLength {
		return string(runes[:PreviewLength])
	}
	return content
}
