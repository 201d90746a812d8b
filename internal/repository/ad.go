package repository

import (
	"context"
	"fmt"
	"strings"

	"marktx-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdRepository handles database operations for ads
type AdRepository struct {
	db *pgxpool.Pool
}

// NewAdRepository creates a new ad repository
func NewAdRepository(db *pgxpool.Pool) *AdRepository {
	return &AdRepository{db: db}
}

// CreateWithImages creates an ad together with its image rows in one transaction
func (r *AdRepository) CreateWithImages(ctx context.Context, ad *models.Ad, images []*models.Image) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	adQuery := `
		INSERT INTO ads (id, owner_id, title, description, price, category, condition, sold, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, adQuery,
		ad.ID, ad.OwnerID, ad.Title, ad.Description, ad.Price,
		ad.Category, ad.Condition, ad.Sold, ad.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ad: %w", err)
	}

	imageQuery := `
		INSERT INTO images (id, ad_id, url, position, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, img := range images {
		_, err = tx.Exec(ctx, imageQuery, img.ID, img.AdID, img.URL, img.Position, img.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create image: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List retrieves all ads with their image URLs, newest first
func (r *AdRepository) List(ctx context.Context) ([]*models.Ad, error) {
	query := `
		SELECT a.id, a.owner_id, a.title, a.description, a.price, a.category, a.condition, a.sold, a.created_at,
		       COALESCE(array_agg(i.url ORDER BY i.position) FILTER (WHERE i.url IS NOT NULL), '{}')
		FROM ads a
		LEFT JOIN images i ON i.ad_id = a.id
		GROUP BY a.id
		ORDER BY a.created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}
	defer rows.Close()

	var ads []*models.Ad
	for rows.Next() {
		var ad models.Ad
		err := rows.Scan(
			&ad.ID, &ad.OwnerID, &ad.Title, &ad.Description, &ad.Price,
			&ad.Category, &ad.Condition, &ad.Sold, &ad.CreatedAt, &ad.Images,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ad: %w", err)
		}
		ads = append(ads, &ad)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ads: %w", err)
	}
	return ads, nil
}

// GetByID retrieves an ad by ID with its image URLs
func (r *AdRepository) GetByID(ctx context.Context, id string) (*models.Ad, error) {
	query := `
		SELECT a.id, a.owner_id, a.title, a.description, a.price, a.category, a.condition, a.sold, a.created_at,
		       COALESCE(array_agg(i.url ORDER BY i.position) FILTER (WHERE i.url IS NOT NULL), '{}')
		FROM ads a
		LEFT JOIN images i ON i.ad_id = a.id
		WHERE a.id = $1
		GROUP BY a.id
	`
	var ad models.Ad
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ad.ID, &ad.OwnerID, &ad.Title, &ad.Description, &ad.Price,
		&ad.Category, &ad.Condition, &ad.Sold, &ad.CreatedAt, &ad.Images,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("ad not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ad: %w", err)
	}
	return &ad, nil
}

// AdUpdate holds the optional fields of a partial ad update
type AdUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	Category    *string
	Condition   *string
}

// Update applies a partial update to an ad owned by ownerID.
// Returns ErrNotFound when the ad does not exist or is not owned by ownerID.
func (r *AdRepository) Update(ctx context.Context, adID, ownerID string, upd AdUpdate) (*models.Ad, error) {
	var fields []string
	var values []interface{}
	idx := 1

	if upd.Title != nil {
		fields = append(fields, fmt.Sprintf("title = $%d", idx))
		values = append(values, *upd.Title)
		idx++
	}
	if upd.Description != nil {
		fields = append(fields, fmt.Sprintf("description = $%d", idx))
		values = append(values, *upd.Description)
		idx++
	}
	if upd.Price != nil {
		fields = append(fields, fmt.Sprintf("price = $%d", idx))
		values = append(values, *upd.Price)
		idx++
	}
	if upd.Category != nil {
		fields = append(fields, fmt.Sprintf("category = $%d", idx))
		values = append(values, *upd.Category)
		idx++
	}
	if upd.Condition != nil {
		fields = append(fields, fmt.Sprintf("condition = $%d", idx))
		values = append(values, *upd.Condition)
		idx++
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	values = append(values, adID, ownerID)
	query := fmt.Sprintf(`
		UPDATE ads SET %s
		WHERE id = $%d AND owner_id = $%d
		RETURNING id, owner_id, title, description, price, category, condition, sold, created_at
	`, strings.Join(fields, ", "), idx, idx+1)

	var ad models.Ad
	err := r.db.QueryRow(ctx, query, values...).Scan(
		&ad.ID, &ad.OwnerID, &ad.Title, &ad.Description, &ad.Price,
		&ad.Category, &ad.Condition, &ad.Sold, &ad.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("ad not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update ad: %w", err)
	}
	return &ad, nil
}

// MarkSold marks an ad owned by ownerID as sold. Idempotent: an already
// sold ad stays sold. Returns ErrNotFound when no owned row matches.
func (r *AdRepository) MarkSold(ctx context.Context, adID, ownerID string) error {
	query := `UPDATE ads SET sold = true WHERE id = $1 AND owner_id = $2`
	result, err := r.db.Exec(ctx, query, adID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to mark ad sold: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("ad not found: %w", ErrNotFound)
	}
	return nil
}

// Delete removes an ad owned by ownerID. Image rows go with it via the
// cascading foreign key. Returns ErrNotFound when no owned row matches.
func (r *AdRepository) Delete(ctx context.Context, adID, ownerID string) error {
	query := `DELETE FROM ads WHERE id = $1 AND owner_id = $2`
	result, err := r.db.Exec(ctx, query, adID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete ad: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("ad not found: %w", ErrNotFound)
	}
	return nil
}

// IsOwner checks whether userID owns the ad
func (r *AdRepository) IsOwner(ctx context.Context, adID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ads WHERE id = $1 AND owner_id = $2)`
	var owner bool
	err := r.db.QueryRow(ctx, query, adID, userID).Scan(&owner)
	if err != nil {
		return false, fmt.Errorf("failed to check ad ownership: %w", err)
	}
	return owner, nil
}

// RecordView records that a user viewed an ad
func (r *AdRepository) RecordView(ctx context.Context, userID, adID string) error {
	query := `INSERT INTO ad_views (user_id, ad_id, viewed_at) VALUES ($1, $2, now())`
	_, err := r.db.Exec(ctx, query, userID, adID)
	if err != nil {
		return fmt.Errorf("failed to record ad view: %w", err)
	}
	return nil
}
