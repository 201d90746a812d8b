package handlers

import (
	"net/http"

	"marktx-backend/internal/middleware"
	"marktx-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// RecommendationHandler handles the personalized ad feed
type RecommendationHandler struct {
	recService *services.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recService *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recService: recService}
}

// Personalized handles GET /api/v1/recommendations/personalized
func (h *RecommendationHandler) Personalized(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	ads, err := h.recService.Personalized(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to build recommendations")
		respondServiceError(w, err, "Failed to fetch recommendations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"ads": ads})
}
