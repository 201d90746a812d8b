package handlers

import (
	"encoding/json"
	"net/http"

	"marktx-backend/internal/middleware"
	"marktx-backend/internal/relay"
	"marktx-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messageService *services.MessageService
	feed           *relay.ChangeFeed
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService, feed *relay.ChangeFeed) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		feed:           feed,
	}
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	ChatID  string `json:"chat_id"`
	Content string `json:"content"`
}

// ListForChat handles GET /api/v1/messages/{chatId}
func (h *MessageHandler) ListForChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	chatID := chi.URLParam(r, "chatId")

	messages, err := h.messageService.ListForChat(ctx, chatID, userID)
	if err != nil {
		respondServiceError(w, err, "Failed to fetch messages")
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// Send handles POST /api/v1/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ChatID == "" || req.Content == "" {
		respondError(w, "chat_id and content are required", http.StatusBadRequest)
		return
	}

	msg, err := h.messageService.Send(ctx, req.ChatID, userID, req.Content)
	if err != nil {
		log.Error().Err(err).Str("chat_id", req.ChatID).Str("user_id", userID).Msg("Failed to send message")
		respondServiceError(w, err, "Failed to send message")
		return
	}

	// The feed is the only broadcast path; the row is already persisted,
	// so a publish failure only delays delivery until the next fetch.
	if err := h.feed.PublishNewMessage(ctx, msg); err != nil {
		log.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to publish message")
	}

	respondJSON(w, http.StatusCreated, msg)
}
