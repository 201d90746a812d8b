package handlers

import (
	"encoding/json"
	"net/http"

	"marktx-backend/internal/middleware"
	"marktx-backend/internal/models"
	"marktx-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PurchaseRequestHandler handles purchase request HTTP requests
type PurchaseRequestHandler struct {
	requestService *services.PurchaseRequestService
}

// NewPurchaseRequestHandler creates a new purchase request handler
func NewPurchaseRequestHandler(requestService *services.PurchaseRequestService) *PurchaseRequestHandler {
	return &PurchaseRequestHandler{requestService: requestService}
}

// CreateRequestBody represents the request body for a purchase request
type CreateRequestBody struct {
	AdID string `json:"ad_id"`
}

// DecideRequestBody represents the request body for deciding a request
type DecideRequestBody struct {
	Status string `json:"status"`
}

// Create handles POST /api/v1/requests
func (h *PurchaseRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	buyerID := middleware.GetUserID(ctx)

	var req CreateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.AdID == "" {
		respondError(w, "ad_id is required", http.StatusBadRequest)
		return
	}

	request, err := h.requestService.Create(ctx, buyerID, req.AdID)
	if err != nil {
		log.Error().Err(err).Str("ad_id", req.AdID).Str("buyer_id", buyerID).Msg("Failed to create purchase request")
		respondServiceError(w, err, "Failed to create purchase request")
		return
	}

	log.Info().Str("request_id", request.ID).Str("ad_id", req.AdID).Str("buyer_id", buyerID).Msg("Purchase request created")

	respondJSON(w, http.StatusCreated, request)
}

// List handles GET /api/v1/requests
func (h *PurchaseRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sellerID := middleware.GetUserID(ctx)

	requests, err := h.requestService.ListForSeller(ctx, sellerID)
	if err != nil {
		log.Error().Err(err).Str("seller_id", sellerID).Msg("Failed to list purchase requests")
		respondServiceError(w, err, "Failed to fetch purchase requests")
		return
	}

	respondJSON(w, http.StatusOK, requests)
}

// Decide handles PATCH /api/v1/requests/{id}
func (h *PurchaseRequestHandler) Decide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sellerID := middleware.GetUserID(ctx)
	requestID := chi.URLParam(r, "id")

	var req DecideRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	request, chatID, err := h.requestService.Decide(ctx, requestID, sellerID, req.Status)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Str("seller_id", sellerID).Msg("Failed to decide purchase request")
		respondServiceError(w, err, "Failed to update purchase request")
		return
	}

	log.Info().Str("request_id", requestID).Str("status", request.Status).Msg("Purchase request decided")

	if request.Status == models.RequestAccepted {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Request accepted",
			"chat_id": chatID,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Request rejected"})
}
