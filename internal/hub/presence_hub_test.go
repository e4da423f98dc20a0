package hub

import (
	"encoding/json"
	"errors"
	"testing"

	socketModels "realtimeChat/internal/models/socket"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	frames   []socketModels.SocketEvent
	writeErr error
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.frames = append(c.frames, v.(socketModels.SocketEvent))
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestRegisterThenLookup(t *testing.T) {
	req := require.New(t)
	h := NewPresenceHub()
	conn := &fakeConn{}

	req.Nil(h.Register(7, conn))

	got, ok := h.Lookup(7)
	req.True(ok)
	req.Same(conn, got.(*fakeConn))

	h.Unregister(7)
	_, ok = h.Lookup(7)
	req.False(ok)
}

func TestUnregisterAbsentUserIsNoop(t *testing.T) {
	h := NewPresenceHub()
	h.Unregister(42)
}

func TestRegisterReplacesPreviousHandle(t *testing.T) {
	req := require.New(t)
	h := NewPresenceHub()
	first := &fakeConn{}
	second := &fakeConn{}

	req.Nil(h.Register(7, first))
	replaced := h.Register(7, second)
	req.Same(first, replaced.(*fakeConn))

	got, ok := h.Lookup(7)
	req.True(ok)
	req.Same(second, got.(*fakeConn))
}

func TestUnregisterConnOnlyEvictsOwnHandle(t *testing.T) {
	req := require.New(t)
	h := NewPresenceHub()
	old := &fakeConn{}
	replacement := &fakeConn{}

	h.Register(7, old)
	h.Register(7, replacement)

	// The replaced session disconnecting must not evict its replacement.
	h.UnregisterConn(7, old)
	got, ok := h.Lookup(7)
	req.True(ok)
	req.Same(replacement, got.(*fakeConn))

	h.UnregisterConn(7, replacement)
	_, ok = h.Lookup(7)
	req.False(ok)
}

func TestPushToOfflineUserIsNoop(t *testing.T) {
	req := require.New(t)
	h := NewPresenceHub()
	req.NoError(h.Push(99, "newMessage", map[string]string{"content": "hi"}))
}

func TestPushWritesEventFrame(t *testing.T) {
	req := require.New(t)
	h := NewPresenceHub()
	conn := &fakeConn{}
	h.Register(7, conn)

	req.NoError(h.Push(7, "newMessage", map[string]uint{"id": 3}))
	req.Len(conn.frames, 1)
	req.Equal("newMessage", conn.frames[0].Event)

	var payload map[string]uint
	req.NoError(json.Unmarshal(conn.frames[0].Payload, &payload))
	req.Equal(uint(3), payload["id"])
}

func TestCloseAllClosesAndClears(t *testing.T) {
	req := require.New(t)
	h := NewPresenceHub()
	first := &fakeConn{}
	second := &fakeConn{}
	h.Register(1, first)
	h.Register(2, second)

	h.CloseAll()

	req.True(first.closed)
	req.True(second.closed)
	_, ok := h.Lookup(1)
	req.False(ok)
	_, ok = h.Lookup(2)
	req.False(ok)
}

func TestPushFailureEvictsConnection(t *testing.T) {
	req := require.New(t)
	h := NewPresenceHub()
	conn := &fakeConn{writeErr: errors.New("broken pipe")}
	h.Register(7, conn)

	req.Error(h.Push(7, "newMessage", "x"))
	req.True(conn.closed)
	_, ok := h.Lookup(7)
	req.False(ok)
}
