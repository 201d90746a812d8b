package repository

import (
	"context"
	"fmt"

	"marktx-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RecommendationRepository computes the personalized ad feed
type RecommendationRepository struct {
	db *pgxpool.Pool
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(db *pgxpool.Pool) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// RecentViewCategories returns the most frequent categories among the user's
// last 20 viewed ads, at most two
func (r *RecommendationRepository) RecentViewCategories(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT a.category
		FROM (
			SELECT ad_id FROM ad_views
			WHERE user_id = $1
			ORDER BY viewed_at DESC
			LIMIT 20
		) v
		JOIN ads a ON a.id = v.ad_id
		GROUP BY a.category
		ORDER BY COUNT(*) DESC
		LIMIT 2
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get view categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// Personalized scores unsold, not-yet-viewed ads: a category match counts
// more than recency, and older ads decay half a point per hour.
func (r *RecommendationRepository) Personalized(ctx context.Context, userID, cat1, cat2 string, limit int) ([]*models.Ad, error) {
	query := `
		SELECT id, owner_id, title, description, price, category, condition, sold, created_at
		FROM ads
		WHERE sold = false
		  AND id NOT IN (SELECT ad_id FROM ad_views WHERE user_id = $1)
		  AND owner_id <> $1
		ORDER BY
			(CASE WHEN category = $2 THEN 50 WHEN category = $3 THEN 25 ELSE 0 END)
			- EXTRACT(EPOCH FROM now() - created_at) / 7200 DESC
		LIMIT $4
	`
	rows, err := r.db.Query(ctx, query, userID, cat1, cat2, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}
	defer rows.Close()

	var ads []*models.Ad
	for rows.Next() {
		var ad models.Ad
		err := rows.Scan(
			&ad.ID, &ad.OwnerID, &ad.Title, &ad.Description, &ad.Price,
			&ad.Category, &ad.Condition, &ad.Sold, &ad.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		ads = append(ads, &ad)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendations: %w", err)
	}
	return ads, nil
}
