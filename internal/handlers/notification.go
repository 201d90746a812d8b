package handlers

import (
	"net/http"

	"marktx-backend/internal/middleware"
	"marktx-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

// List handles GET /api/v1/notifications?onlyUnseen=true
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	onlyUnseen := r.URL.Query().Get("onlyUnseen") == "true"

	notifications, err := h.notifService.ListForUser(ctx, userID, onlyUnseen)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list notifications")
		respondServiceError(w, err, "Failed to fetch notifications")
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

// MarkRead handles PATCH /api/v1/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	notifID := chi.URLParam(r, "id")

	notification, err := h.notifService.MarkSeen(ctx, notifID, userID)
	if err != nil {
		respondServiceError(w, err, "Failed to mark notification read")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"notification": notification})
}
