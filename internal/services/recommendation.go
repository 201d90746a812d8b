package services

import (
	"context"

	"marktx-backend/internal/models"
	"marktx-backend/internal/repository"
)

const recommendationLimit = 20

// RecommendationService builds the personalized ad feed from recent views
type RecommendationService struct {
	recRepo *repository.RecommendationRepository
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(recRepo *repository.RecommendationRepository) *RecommendationService {
	return &RecommendationService{recRepo: recRepo}
}

// Personalized returns ads scored by the caller's most-viewed categories.
// A user with no view history gets an empty feed.
func (s *RecommendationService) Personalized(ctx context.Context, userID string) ([]*models.Ad, error) {
	categories, err := s.recRepo.RecentViewCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return []*models.Ad{}, nil
	}

	cat1 := categories[0]
	cat2 := ""
	if len(categories) > 1 {
		cat2 = categories[1]
	}

	ads, err := s.recRepo.Personalized(ctx, userID, cat1, cat2, recommendationLimit)
	if err != nil {
		return nil, err
	}
	if ads == nil {
		ads = []*models.Ad{}
	}
	return ads, nil
}
