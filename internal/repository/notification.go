package repository

import (
	"context"
	"fmt"

	"marktx-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, message, related_id, seen, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		n.ID, n.UserID, n.Type, n.Message, n.RelatedID, n.Seen, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByUser retrieves a user's notifications, newest first.
// With onlyUnseen set, seen notifications are filtered out.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, onlyUnseen bool) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, type, message, related_id, seen, created_at
		FROM notifications
		WHERE user_id = $1
	`
	if onlyUnseen {
		query += ` AND seen = false`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.RelatedID, &n.Seen, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return notifications, nil
}

// MarkSeen flips the seen flag on a notification owned by userID
func (r *NotificationRepository) MarkSeen(ctx context.Context, id, userID string) (*models.Notification, error) {
	query := `
		UPDATE notifications
		SET seen = true
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, type, message, related_id, seen, created_at
	`
	var n models.Notification
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&n.ID, &n.UserID, &n.Type, &n.Message, &n.RelatedID, &n.Seen, &n.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("notification not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to mark notification seen: %w", err)
	}
	return &n, nil
}
