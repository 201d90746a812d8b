package handlers

import (
	"encoding/json"
	"net/http"

	"marktx-backend/internal/middleware"
	"marktx-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ImageHandler handles image-related HTTP requests
type ImageHandler struct {
	imageService *services.ImageService
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// AddImageRequest represents the request body for attaching an image URL
type AddImageRequest struct {
	AdID string `json:"ad_id"`
	URL  string `json:"url"`
}

// UploadImageRequest represents the request body for a pre-signed upload
type UploadImageRequest struct {
	AdID        string `json:"ad_id"`
	ContentType string `json:"content_type"`
}

// Add handles POST /api/v1/images
func (h *ImageHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req AddImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.AdID == "" || req.URL == "" {
		respondError(w, "ad_id and url are required", http.StatusBadRequest)
		return
	}

	img, err := h.imageService.Add(ctx, userID, req.AdID, req.URL)
	if err != nil {
		log.Error().Err(err).Str("ad_id", req.AdID).Str("user_id", userID).Msg("Failed to add image")
		respondServiceError(w, err, "Failed to add image")
		return
	}

	respondJSON(w, http.StatusCreated, img)
}

// ListByAd handles GET /api/v1/images/{adId}
func (h *ImageHandler) ListByAd(w http.ResponseWriter, r *http.Request) {
	adID := chi.URLParam(r, "adId")

	images, err := h.imageService.ListByAd(r.Context(), adID)
	if err != nil {
		log.Error().Err(err).Str("ad_id", adID).Msg("Failed to list images")
		respondServiceError(w, err, "Failed to fetch images")
		return
	}

	respondJSON(w, http.StatusOK, images)
}

// Upload handles POST /api/v1/images/upload
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.AdID == "" {
		respondError(w, "ad_id is required", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	response, err := h.imageService.PresignUpload(ctx, userID, req.AdID, req.ContentType)
	if err != nil {
		log.Error().Err(err).Str("ad_id", req.AdID).Str("user_id", userID).Msg("Failed to generate pre-signed URL")
		respondServiceError(w, err, "Failed to generate upload URL")
		return
	}

	log.Info().Str("ad_id", req.AdID).Str("image_id", response.ImageID).Msg("Pre-signed URL generated")

	respondJSON(w, http.StatusOK, response)
}

// Delete handles DELETE /api/v1/images/{imageId}
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	imageID := chi.URLParam(r, "imageId")

	if err := h.imageService.Delete(ctx, userID, imageID); err != nil {
		log.Error().Err(err).Str("image_id", imageID).Str("user_id", userID).Msg("Failed to delete image")
		respondServiceError(w, err, "Failed to delete image")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Image deleted"})
}
