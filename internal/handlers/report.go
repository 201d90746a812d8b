package handlers

import (
	"encoding/json"
	"net/http"

	"marktx-backend/internal/middleware"
	"marktx-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GeneralReportRequest represents the request body for a general report
type GeneralReportRequest struct {
	Reason      string  `json:"reason"`
	Description *string `json:"description"`
}

// AdReportRequest represents the request body for an ad report
type AdReportRequest struct {
	AdID           string  `json:"ad_id"`
	ReportedUserID string  `json:"reported_user_id"`
	Reason         string  `json:"reason"`
	Description    *string `json:"description"`
}

// CreateGeneral handles POST /api/v1/reports/general
func (h *ReportHandler) CreateGeneral(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reporterID := middleware.GetUserID(ctx)

	var req GeneralReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Reason == "" {
		respondError(w, "reason is required", http.StatusBadRequest)
		return
	}

	report, err := h.reportService.CreateGeneral(ctx, reporterID, req.Reason, req.Description)
	if err != nil {
		log.Error().Err(err).Str("reporter_id", reporterID).Msg("Failed to create report")
		respondServiceError(w, err, "Failed to create report")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"report": report})
}

// CreateForAd handles POST /api/v1/reports/ad
func (h *ReportHandler) CreateForAd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reporterID := middleware.GetUserID(ctx)

	var req AdReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.AdID == "" || req.ReportedUserID == "" || req.Reason == "" {
		respondError(w, "ad_id, reported_user_id and reason are required", http.StatusBadRequest)
		return
	}

	report, err := h.reportService.CreateForAd(ctx, reporterID, req.AdID, req.ReportedUserID, req.Reason, req.Description)
	if err != nil {
		log.Error().Err(err).Str("reporter_id", reporterID).Str("ad_id", req.AdID).Msg("Failed to create ad report")
		respondServiceError(w, err, "Failed to create report")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"report": report})
}
