package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"realtimeChat/internal/enums"
	"realtimeChat/internal/errs"
	"realtimeChat/internal/hub"
	"realtimeChat/internal/models"
	brokerModels "realtimeChat/internal/models/broker"
	socketModels "realtimeChat/internal/models/socket"
	"realtimeChat/internal/msgs"
	"realtimeChat/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// TokenVerifier resolves a bearer token to claims; the gateway and the
// REST middleware share one implementation.
type TokenVerifier interface {
	VerifyToken(token string) (*models.Claims, error)
}

// SocketChatHandler is the realtime gateway. It authenticates incoming
// connections, keeps the presence hub in sync with connection lifetime,
// relays sendMessage frames to the chat service, and exposes the push
// methods the notification relay calls.
type SocketChatHandler struct {
	ctx         context.Context
	upgrader    websocket.Upgrader
	hub         *hub.PresenceHub
	chatService *services.ChatService
	authService TokenVerifier
}

func NewSocketChatHandler(
	ctx context.Context,
	presenceHub *hub.PresenceHub,
	chatService *services.ChatService,
	authService TokenVerifier,
) *SocketChatHandler {
	return &SocketChatHandler{
		ctx:         ctx,
		hub:         presenceHub,
		chatService: chatService,
		authService: authService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleSocketChatRoute authenticates the handshake before upgrading.
// There is no addressee for an error payload on this boundary, so a bad
// token simply refuses the connection.
func (sch *SocketChatHandler) HandleSocketChatRoute(ctx *gin.Context) {
	token := extractToken(ctx)
	if token == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  models.ErrorStrings([]error{errs.ErrUnauthorized}),
		})
		return
	}

	claims, err := sch.authService.VerifyToken(token)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  models.ErrorStrings([]error{errs.ErrUnauthorized}),
		})
		return
	}

	sch.handleConnection(ctx, claims)
}

func extractToken(ctx *gin.Context) string {
	if token := ctx.Query("token"); token != "" {
		return token
	}
	header := ctx.GetHeader("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

func (sch *SocketChatHandler) handleConnection(ctx *gin.Context, claims *models.Claims) {
	ws, err := sch.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer func(ws *websocket.Conn) {
		if err := ws.Close(); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
	}(ws)

	// Single session per user: a new registration replaces the old
	// handle and the replaced connection is closed so it drops visibly.
	if replaced := sch.hub.Register(claims.ID, ws); replaced != nil {
		log.Printf("User %d reconnected, closing previous connection", claims.ID)
		if err := replaced.Close(); err != nil {
			log.Printf("Error closing replaced connection: %v", err)
		}
	}

	sch.readLoop(ws, claims)
}

func (sch *SocketChatHandler) readLoop(ws *websocket.Conn, claims *models.Claims) {
	for {
		var event socketModels.SocketEvent
		if err := ws.ReadJSON(&event); err != nil {
			log.Printf("Connection for user %d closed: %v", claims.ID, err)
			// Only evict if this conn is still the registered one; a
			// replaced session must not unregister its replacement.
			sch.hub.UnregisterConn(claims.ID, ws)
			break
		}

		switch event.Event {
		case enums.SOCKET_EVENT_SEND_MESSAGE:
			sch.handleSendMessageEvent(event.Payload, claims)
		default:
			log.Printf("Unknown event from user %d: %q", claims.ID, event.Event)
		}
	}
}

// handleSendMessageEvent runs one send request. Every error from the
// service or below becomes a failure ack; nothing propagates out of the
// read loop.
func (sch *SocketChatHandler) handleSendMessageEvent(payload json.RawMessage, claims *models.Claims) {
	var request models.SendMessageRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		sch.ack(claims.ID, socketModels.SendMessageAck{
			Success: false,
			Error:   errs.ErrInvalidRequestBody.Error(),
		})
		return
	}

	message, sendErrs := sch.chatService.SendMessage(sch.ctx, claims.ID, request.ReceiverID, request.Content)
	if len(sendErrs) > 0 {
		sch.ack(claims.ID, socketModels.SendMessageAck{
			Success: false,
			Error:   sendErrs[0].Error(),
		})
		return
	}

	sch.ack(claims.ID, socketModels.SendMessageAck{
		Success: true,
		Message: message,
	})

	// Direct live delivery, independent of the broker path. No-op when
	// the receiver is offline.
	sch.PushMessage(message.ReceiverID, socketModels.NewMessagePayload{
		ID:        message.ID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		Timestamp: message.Timestamp,
	})
}

func (sch *SocketChatHandler) ack(userID uint, ack socketModels.SendMessageAck) {
	if err := sch.hub.Push(userID, enums.SOCKET_EVENT_SEND_MESSAGE, ack); err != nil {
		log.Printf("Error acking send for user %d: %v", userID, err)
	}
}

// PushMessage delivers a newMessage frame to a connected user.
// Fire-and-forget: offline users fall back to durable history.
func (sch *SocketChatHandler) PushMessage(userID uint, payload socketModels.NewMessagePayload) {
	if err := sch.hub.Push(userID, enums.SOCKET_EVENT_NEW_MESSAGE, payload); err != nil {
		log.Printf("Error pushing message to user %d: %v", userID, err)
	}
}

// PushNotification delivers a notification frame to a connected user.
// Satisfies the relay's pusher contract.
func (sch *SocketChatHandler) PushNotification(userID uint, notification brokerModels.NotificationEvent) {
	payload := socketModels.NotificationPayload{
		Type:           notification.Type,
		SenderID:       notification.SenderID,
		MessagePreview: notification.MessagePreview,
		Timestamp:      notification.Timestamp,
	}
	if err := sch.hub.Push(userID, enums.SOCKET_EVENT_NOTIFICATION, payload); err != nil {
		log.Printf("Error pushing notification to user %d: %v", userID, err)
	}
}
