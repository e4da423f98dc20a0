package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMessageDerivation(t *testing.T) {
	req := require.New(t)
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	msg := NewMessage(1, 2, "Hello!", now)

	req.Equal(uint(1), msg.SenderID)
	req.Equal(uint(2), msg.ReceiverID)
	req.Equal("Hello!", msg.Content)
	req.Equal(now, msg.Timestamp)
	req.False(msg.Read)
	req.Zero(msg.ID)
}
