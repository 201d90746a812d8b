package handlers

import (
	"encoding/json"
	"net/http"

	"marktx-backend/internal/middleware"
	"marktx-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// StartChatRequest represents the request body for starting a chat
type StartChatRequest struct {
	PartnerID string `json:"partner_id"`
}

// List handles GET /api/v1/chats
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	chats, err := h.chatService.ListForUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list chats")
		respondServiceError(w, err, "Failed to fetch chats")
		return
	}

	respondJSON(w, http.StatusOK, chats)
}

// Start handles POST /api/v1/chats/start
func (h *ChatHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req StartChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.PartnerID == "" {
		respondError(w, "partner_id is required", http.StatusBadRequest)
		return
	}

	chat, created, err := h.chatService.Start(ctx, userID, req.PartnerID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("partner_id", req.PartnerID).Msg("Failed to start chat")
		respondServiceError(w, err, "Failed to start chat")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		log.Info().Str("chat_id", chat.ID).Str("user_id", userID).Msg("Chat created")
	}

	respondJSON(w, status, map[string]interface{}{"chat": chat})
}

// Partner handles GET /api/v1/chats/{chatId}/partner
func (h *ChatHandler) Partner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	chatID := chi.URLParam(r, "chatId")

	partner, err := h.chatService.Partner(ctx, chatID, userID)
	if err != nil {
		respondServiceError(w, err, "Failed to fetch chat partner")
		return
	}

	respondJSON(w, http.StatusOK, partner)
}
