package repository

import (
	"context"
	"fmt"

	"marktx-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PurchaseRequestRepository handles database operations for purchase requests
type PurchaseRequestRepository struct {
	db *pgxpool.Pool
}

// NewPurchaseRequestRepository creates a new purchase request repository
func NewPurchaseRequestRepository(db *pgxpool.Pool) *PurchaseRequestRepository {
	return &PurchaseRequestRepository{db: db}
}

// Create creates a new purchase request
func (r *PurchaseRequestRepository) Create(ctx context.Context, req *models.PurchaseRequest) error {
	query := `
		INSERT INTO purchase_requests (id, ad_id, buyer_id, seller_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		req.ID, req.AdID, req.BuyerID, req.SellerID, req.Status, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create purchase request: %w", err)
	}
	return nil
}

// ListBySeller retrieves all requests for ads sold by sellerID, newest first,
// joined with the buyer's username and the ad title
func (r *PurchaseRequestRepository) ListBySeller(ctx context.Context, sellerID string) ([]*models.PurchaseRequest, error) {
	query := `
		SELECT pr.id, pr.ad_id, pr.buyer_id, pr.seller_id, pr.status, pr.created_at,
		       u.username, a.title
		FROM purchase_requests pr
		JOIN users u ON pr.buyer_id = u.id
		JOIN ads a ON pr.ad_id = a.id
		WHERE pr.seller_id = $1
		ORDER BY pr.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.PurchaseRequest
	for rows.Next() {
		var req models.PurchaseRequest
		err := rows.Scan(
			&req.ID, &req.AdID, &req.BuyerID, &req.SellerID, &req.Status, &req.CreatedAt,
			&req.BuyerUsername, &req.AdTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase request: %w", err)
		}
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase requests: %w", err)
	}
	return requests, nil
}

// HasPending checks whether the buyer already has a pending request for the ad
func (r *PurchaseRequestRepository) HasPending(ctx context.Context, adID, buyerID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM purchase_requests
			WHERE ad_id = $1 AND buyer_id = $2 AND status = 'pending'
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, adID, buyerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return exists, nil
}

// UpdateStatus moves a pending request owned by sellerID to the given status.
// The WHERE clause pins the current status to 'pending', so a request can
// never transition backward or be decided twice.
func (r *PurchaseRequestRepository) UpdateStatus(ctx context.Context, id, sellerID, status string) (*models.PurchaseRequest, error) {
	query := `
		UPDATE purchase_requests
		SET status = $1
		WHERE id = $2 AND seller_id = $3 AND status = 'pending'
		RETURNING id, ad_id, buyer_id, seller_id, status, created_at
	`
	var req models.PurchaseRequest
	err := r.db.QueryRow(ctx, query, status, id, sellerID).Scan(
		&req.ID, &req.AdID, &req.BuyerID, &req.SellerID, &req.Status, &req.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("pending request not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}
	return &req, nil
}
