package handlers

import (
	"encoding/json"
	"net/http"

	"marktx-backend/internal/middleware"
	"marktx-backend/internal/repository"
	"marktx-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AdHandler handles ad-related HTTP requests
type AdHandler struct {
	adService *services.AdService
}

// NewAdHandler creates a new ad handler
func NewAdHandler(adService *services.AdService) *AdHandler {
	return &AdHandler{adService: adService}
}

// CreateAdRequest represents the request body for creating an ad
type CreateAdRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	ImageURLs   []string `json:"image_urls"`
}

// UpdateAdRequest represents the request body for a partial ad update
type UpdateAdRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Condition   *string  `json:"condition"`
}

// List handles GET /api/v1/ads
func (h *AdHandler) List(w http.ResponseWriter, r *http.Request) {
	ads, err := h.adService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list ads")
		respondServiceError(w, err, "Failed to fetch ads")
		return
	}

	respondJSON(w, http.StatusOK, ads)
}

// Create handles POST /api/v1/ads
func (h *AdHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" || req.Description == "" {
		respondError(w, "title and description are required", http.StatusBadRequest)
		return
	}

	ad, err := h.adService.Create(ctx, userID, req.Title, req.Description, req.Category, req.Condition, req.Price, req.ImageURLs)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create ad")
		respondServiceError(w, err, "Failed to create ad")
		return
	}

	log.Info().Str("ad_id", ad.ID).Str("user_id", userID).Msg("Ad created")

	respondJSON(w, http.StatusCreated, ad)
}

// Get handles GET /api/v1/ads/{id}
func (h *AdHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	adID := chi.URLParam(r, "id")

	ad, err := h.adService.Get(ctx, adID, userID)
	if err != nil {
		respondServiceError(w, err, "Failed to fetch ad")
		return
	}

	respondJSON(w, http.StatusOK, ad)
}

// Update handles PATCH /api/v1/ads/{id}
func (h *AdHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	adID := chi.URLParam(r, "id")

	var req UpdateAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == nil && req.Description == nil && req.Price == nil && req.Category == nil && req.Condition == nil {
		respondError(w, "no fields provided to update", http.StatusBadRequest)
		return
	}

	upd := repository.AdUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   req.Condition,
	}

	ad, err := h.adService.Update(ctx, adID, userID, upd)
	if err != nil {
		log.Error().Err(err).Str("ad_id", adID).Str("user_id", userID).Msg("Failed to update ad")
		respondServiceError(w, err, "Failed to update ad")
		return
	}

	respondJSON(w, http.StatusOK, ad)
}

// Delete handles DELETE /api/v1/ads/{id}
func (h *AdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	adID := chi.URLParam(r, "id")

	if err := h.adService.Delete(ctx, adID, userID); err != nil {
		log.Error().Err(err).Str("ad_id", adID).Str("user_id", userID).Msg("Failed to delete ad")
		respondServiceError(w, err, "Failed to delete ad")
		return
	}

	log.Info().Str("ad_id", adID).Str("user_id", userID).Msg("Ad deleted")

	respondJSON(w, http.StatusOK, map[string]string{"message": "Ad deleted"})
}

// MarkSold handles PATCH /api/v1/ads/{id}/sold
func (h *AdHandler) MarkSold(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	adID := chi.URLParam(r, "id")

	if err := h.adService.MarkSold(ctx, adID, userID); err != nil {
		log.Error().Err(err).Str("ad_id", adID).Str("user_id", userID).Msg("Failed to mark ad sold")
		respondServiceError(w, err, "Failed to update ad")
		return
	}

	log.Info().Str("ad_id", adID).Str("user_id", userID).Msg("Ad marked as sold")

	respondJSON(w, http.StatusOK, map[string]string{"message": "Ad marked as sold"})
}
