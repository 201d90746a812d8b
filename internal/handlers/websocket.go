package handlers

import (
	"context"
	"errors"
	"net/http"

	"marktx-backend/internal/relay"
	"marktx-backend/internal/repository"
	"marktx-backend/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler upgrades relay connections and dispatches their events
type WebSocketHandler struct {
	hub            *relay.Hub
	feed           *relay.ChangeFeed
	userService    *services.UserService
	chatService    *services.ChatService
	messageService *services.MessageService
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(
	hub *relay.Hub,
	feed *relay.ChangeFeed,
	userService *services.UserService,
	chatService *services.ChatService,
	messageService *services.MessageService,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		feed:           feed,
		userService:    userService,
		chatService:    chatService,
		messageService: messageService,
	}
}

// HandleWebSocket handles GET /ws?token=...
// Identity comes from the validated token, never from an event payload.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	userID, _, err := h.userService.ValidateJWT(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade relay connection")
		return
	}

	// The connection outlives the upgrade request
	ctx := context.WithoutCancel(r.Context())

	client := relay.NewClient(h.hub, conn, userID, uuid.New().String())
	if err := h.hub.Register(ctx, client); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to register relay connection")
		conn.Close()
		return
	}

	if err := h.feed.PublishStatus(ctx, userID, relay.StatusOnline); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to publish online status")
	}

	go client.WritePump()
	go func() {
		client.ReadPump(ctx, h)

		// A stale connection replaced by a newer one must not announce
		// the user offline: the newer connection is still live.
		if !h.hub.Unregister(ctx, client) {
			return
		}
		if err := h.feed.PublishStatus(ctx, userID, relay.StatusOffline); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to publish offline status")
		}
	}()
}

// HandleEvent dispatches one client event
func (h *WebSocketHandler) HandleEvent(ctx context.Context, c *relay.Client, ev relay.Event) {
	switch ev.Type {
	case relay.EventJoinChat:
		h.handleJoin(ctx, c, ev)
	case relay.EventLeaveChat:
		h.hub.LeaveRoom(c, ev.ChatID)
	case relay.EventSendMessage:
		h.handleSend(ctx, c, ev)
	default:
		c.SendEvent(relay.Event{Type: relay.EventError, Error: "unknown event type"})
	}
}

func (h *WebSocketHandler) handleJoin(ctx context.Context, c *relay.Client, ev relay.Event) {
	if ev.ChatID == "" {
		c.SendEvent(relay.Event{Type: relay.EventError, Error: "chat_id is required"})
		return
	}

	if err := h.chatService.EnsureParticipant(ctx, ev.ChatID, c.UserID()); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, services.ErrNotParticipant) {
			c.SendEvent(relay.Event{Type: relay.EventError, Error: err.Error()})
			return
		}
		log.Error().Err(err).Str("chat_id", ev.ChatID).Str("user_id", c.UserID()).Msg("Failed to check chat membership")
		c.SendEvent(relay.Event{Type: relay.EventError, Error: "failed to join chat"})
		return
	}

	h.hub.JoinRoom(c, ev.ChatID)
}

func (h *WebSocketHandler) handleSend(ctx context.Context, c *relay.Client, ev relay.Event) {
	if ev.ChatID == "" || ev.Content == "" {
		c.SendEvent(relay.Event{Type: relay.EventError, Error: "chat_id and content are required"})
		return
	}

	msg, err := h.messageService.Send(ctx, ev.ChatID, c.UserID(), ev.Content)
	if err != nil {
		log.Error().Err(err).Str("chat_id", ev.ChatID).Str("user_id", c.UserID()).Msg("Failed to send relay message")
		c.SendEvent(relay.Event{Type: relay.EventError, Error: "failed to send message"})
		return
	}

	if err := h.feed.PublishNewMessage(ctx, msg); err != nil {
		log.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to publish message")
	}
}
