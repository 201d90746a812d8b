package services

import (
	"context"
	"time"

	"marktx-backend/internal/models"
	"marktx-backend/internal/repository"

	"github.com/google/uuid"
)

// ReportService handles user reports
type ReportService struct {
	reportRepo *repository.ReportRepository
}

// NewReportService creates a new report service
func NewReportService(reportRepo *repository.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// CreateGeneral files a report not tied to an ad
func (s *ReportService) CreateGeneral(ctx context.Context, reporterID, reason string, description *string) (*models.Report, error) {
	report := &models.Report{
		ID:          uuid.New().String(),
		ReporterID:  reporterID,
		Reason:      reason,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// CreateForAd files a report against an ad and its owner
func (s *ReportService) CreateForAd(ctx context.Context, reporterID, adID, reportedUserID, reason string, description *string) (*models.Report, error) {
	report := &models.Report{
		ID:             uuid.New().String(),
		ReporterID:     reporterID,
		AdID:           &adID,
		ReportedUserID: &reportedUserID,
		Reason:         reason,
		Description:    description,
		CreatedAt:      time.Now(),
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}
