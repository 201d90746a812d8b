package services

import (
	"context"
	"fmt"
	"time"

	"marktx-backend/internal/models"
	"marktx-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AdService handles ad-related business logic
type AdService struct {
	adRepo *repository.AdRepository
}

// NewAdService creates a new ad service
func NewAdService(adRepo *repository.AdRepository) *AdService {
	return &AdService{adRepo: adRepo}
}

// clampPrice maps a missing or negative price to 0, meaning "free"
func clampPrice(price float64) float64 {
	if price < 0 {
		return 0
	}
	return price
}

// Create creates an ad and its image rows atomically
func (s *AdService) Create(ctx context.Context, ownerID, title, description, category, condition string, price float64, imageURLs []string) (*models.Ad, error) {
	now := time.Now()
	ad := &models.Ad{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Price:       clampPrice(price),
		Category:    category,
		Condition:   condition,
		Sold:        false,
		Images:      imageURLs,
		CreatedAt:   now,
	}
	if ad.Images == nil {
		ad.Images = []string{}
	}

	var images []*models.Image
	for i, url := range imageURLs {
		images = append(images, &models.Image{
			ID:        uuid.New().String(),
			AdID:      ad.ID,
			URL:       url,
			Position:  i,
			CreatedAt: now,
		})
	}

	if err := s.adRepo.CreateWithImages(ctx, ad, images); err != nil {
		return nil, fmt.Errorf("failed to create ad: %w", err)
	}
	return ad, nil
}

// List retrieves all ads, newest first
func (s *AdService) List(ctx context.Context) ([]*models.Ad, error) {
	return s.adRepo.List(ctx)
}

// Get retrieves an ad and records the view for the recommendation feed.
// A failed view insert does not fail the read.
func (s *AdService) Get(ctx context.Context, adID, viewerID string) (*models.Ad, error) {
	ad, err := s.adRepo.GetByID(ctx, adID)
	if err != nil {
		return nil, err
	}

	if err := s.adRepo.RecordView(ctx, viewerID, adID); err != nil {
		log.Error().Err(err).Str("ad_id", adID).Str("user_id", viewerID).Msg("Failed to record ad view")
	}

	return ad, nil
}

// Update applies a partial update to an ad, owner only
func (s *AdService) Update(ctx context.Context, adID, userID string, upd repository.AdUpdate) (*models.Ad, error) {
	ad, err := s.adRepo.GetByID(ctx, adID)
	if err != nil {
		return nil, err
	}
	if ad.OwnerID != userID {
		return nil, ErrNotOwner
	}

	if upd.Price != nil {
		clamped := clampPrice(*upd.Price)
		upd.Price = &clamped
	}

	return s.adRepo.Update(ctx, adID, userID, upd)
}

// Delete removes an ad and its images, owner only
func (s *AdService) Delete(ctx context.Context, adID, userID string) error {
	ad, err := s.adRepo.GetByID(ctx, adID)
	if err != nil {
		return err
	}
	if ad.OwnerID != userID {
		return ErrNotOwner
	}

	return s.adRepo.Delete(ctx, adID, userID)
}

// MarkSold marks an ad as sold, owner only. Idempotent.
func (s *AdService) MarkSold(ctx context.Context, adID, userID string) error {
	ad, err := s.adRepo.GetByID(ctx, adID)
	if err != nil {
		return err
	}
	if ad.OwnerID != userID {
		return ErrNotOwner
	}

	return s.adRepo.MarkSold(ctx, adID, userID)
}
