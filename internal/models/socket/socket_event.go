package models

import (
	"encoding/json"
	"time"
)

// SocketEvent is the envelope for every frame on the live connection,
// inbound and outbound.
type SocketEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// SendMessageAck is written back to the sender for every sendMessage
// frame; service errors end up here instead of terminating the loop.
type SendMessageAck struct {
	Success bool        `json:"success"`
	Message interface{} `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewMessagePayload is the minimal push written to a connected receiver.
type NewMessagePayload struct {
	ID        uint      `json:"id"`
	SenderID  uint      `json:"senderId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationPayload is the notification frame written to the receiver.
// The receiver id stays on the broker event; the addressee does not need
// it repeated on their own connection.
type NotificationPayload struct {
	Type           string    `json:"type"`
	SenderID       uint      `json:"senderId"`
	MessagePreview string    `json:"messagePreview"`
	Timestamp      time.Time `json:"timestamp"`
}
