package repository

import (
	"context"
	"fmt"

	"marktx-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ImageRepository handles database operations for ad images
type ImageRepository struct {
	db *pgxpool.Pool
}

// NewImageRepository creates a new image repository
func NewImageRepository(db *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{db: db}
}

// Create creates a new image row
func (r *ImageRepository) Create(ctx context.Context, img *models.Image) error {
	query := `
		INSERT INTO images (id, ad_id, url, position, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, img.ID, img.AdID, img.URL, img.Position, img.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// GetByAdID retrieves all images of an ad ordered by position
func (r *ImageRepository) GetByAdID(ctx context.Context, adID string) ([]*models.Image, error) {
	query := `
		SELECT id, ad_id, url, position, created_at
		FROM images
		WHERE ad_id = $1
		ORDER BY position
	`
	rows, err := r.db.Query(ctx, query, adID)
	if err != nil {
		return nil, fmt.Errorf("failed to get images: %w", err)
	}
	defer rows.Close()

	var images []*models.Image
	for rows.Next() {
		var img models.Image
		err := rows.Scan(&img.ID, &img.AdID, &img.URL, &img.Position, &img.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, &img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}
	return images, nil
}

// NextPosition returns the next free position for an ad's images
func (r *ImageRepository) NextPosition(ctx context.Context, adID string) (int, error) {
	query := `SELECT COALESCE(MAX(position) + 1, 0) FROM images WHERE ad_id = $1`
	var pos int
	err := r.db.QueryRow(ctx, query, adID).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("failed to get next image position: %w", err)
	}
	return pos, nil
}

// IsOwnedBy checks whether the image belongs to an ad owned by userID
func (r *ImageRepository) IsOwnedBy(ctx context.Context, imageID, userID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM images i
			JOIN ads a ON i.ad_id = a.id
			WHERE i.id = $1 AND a.owner_id = $2
		)
	`
	var owned bool
	err := r.db.QueryRow(ctx, query, imageID, userID).Scan(&owned)
	if err != nil {
		return false, fmt.Errorf("failed to check image ownership: %w", err)
	}
	return owned, nil
}

// Delete deletes an image by ID
func (r *ImageRepository) Delete(ctx context.Context, imageID string) error {
	query := `DELETE FROM images WHERE id = $1`
	result, err := r.db.Exec(ctx, query, imageID)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("image not found: %w", ErrNotFound)
	}
	return nil
}
