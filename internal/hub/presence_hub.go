package hub

import (
	"encoding/json"
	"log"
	"sync"

	socketModels "realtimeChat/internal/models/socket"
)

// Conn is the slice of a websocket connection the hub needs. Writes on a
// single connection must be serialized; the hub's mutex does that for
// every frame it sends.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// PresenceHub owns the userID -> connection mapping. One entry per user:
// registering again replaces the previous handle. The map is never handed
// out; all access goes through Register/Unregister/Lookup/Push.
type PresenceHub struct {
	mu      sync.Mutex
	clients map[uint]Conn
}

func NewPresenceHub() *PresenceHub {
	return &PresenceHub{
		clients: make(map[uint]Conn),
	}
}

// Register upserts the connection for a user and returns the handle it
// replaced, if any. The caller decides what to do with the old one.
func (h *PresenceHub) Register(userID uint, conn Conn) Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	previous := h.clients[userID]
	h.clients[userID] = conn
	return previous
}

// Unregister removes the user's entry. No-op when absent.
func (h *PresenceHub) Unregister(userID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, userID)
}

// UnregisterConn removes the entry only if conn is still the registered
// handle. A connection replaced by a newer session must not evict its
// replacement on its own disconnect.
func (h *PresenceHub) UnregisterConn(userID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.clients[userID]; ok && current == conn {
		delete(h.clients, userID)
	}
}

// Lookup returns the user's live connection, if present.
func (h *PresenceHub) Lookup(userID uint) (Conn, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn, ok := h.clients[userID]
	return conn, ok
}

// CloseAll closes and evicts every live connection. Run at shutdown;
// presence does not survive a restart.
func (h *PresenceHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conn := range h.clients {
		if err := conn.Close(); err != nil {
			log.Printf("Error closing connection for user %d: %v", userID, err)
		}
		delete(h.clients, userID)
	}
}

// Push writes an event frame to the user's connection. Absent user is a
// no-op: nothing is queued for offline users. A failed write closes and
// evicts the connection.
func (h *PresenceHub) Push(userID uint, event string, payload interface{}) error {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.clients[userID]
	if !ok {
		return nil
	}

	frame := socketModels.SocketEvent{
		Event:   event,
		Payload: rawPayload,
	}
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("Error writing to user %d, dropping connection: %v", userID, err)
		if closeErr := conn.Close(); closeErr != nil {
			log.Printf("Error closing connection: %v", closeErr)
		}
		delete(h.clients, userID)
		return err
	}
	return nil
}
