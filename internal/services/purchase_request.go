package services

import (
	"context"
	"fmt"
	"time"

	"marktx-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// purchaseRequestStore is the slice of the request repository this
// service depends on
type purchaseRequestStore interface {
	Create(ctx context.Context, req *models.PurchaseRequest) error
	ListBySeller(ctx context.Context, sellerID string) ([]*models.PurchaseRequest, error)
	HasPending(ctx context.Context, adID, buyerID string) (bool, error)
	UpdateStatus(ctx context.Context, id, sellerID, status string) (*models.PurchaseRequest, error)
}

// adGetter resolves an ad for ownership and duplicate checks
type adGetter interface {
	GetByID(ctx context.Context, id string) (*models.Ad, error)
}

// chatStarter finds or creates the chat between two users.
// Satisfied by ChatService.
type chatStarter interface {
	Start(ctx context.Context, userID, partnerID string) (*models.Chat, bool, error)
}

// notifier creates a notification for a user.
// Satisfied by NotificationService.
type notifier interface {
	Notify(ctx context.Context, userID, ntype, message string, relatedID *string) (*models.Notification, error)
}

// PurchaseRequestService handles the purchase request lifecycle
type PurchaseRequestService struct {
	requestRepo  purchaseRequestStore
	adRepo       adGetter
	chatService  chatStarter
	notifService notifier
}

// NewPurchaseRequestService creates a new purchase request service
func NewPurchaseRequestService(
	requestRepo purchaseRequestStore,
	adRepo adGetter,
	chatService chatStarter,
	notifService notifier,
) *PurchaseRequestService {
	return &PurchaseRequestService{
		requestRepo:  requestRepo,
		adRepo:       adRepo,
		chatService:  chatService,
		notifService: notifService,
	}
}

// Create creates a pending request from buyerID for an ad and notifies
// the seller. Rejects the buyer's own ad and duplicate pending requests.
func (s *PurchaseRequestService) Create(ctx context.Context, buyerID, adID string) (*models.PurchaseRequest, error) {
	ad, err := s.adRepo.GetByID(ctx, adID)
	if err != nil {
		return nil, err
	}

	if ad.OwnerID == buyerID {
		return nil, ErrOwnAd
	}

	pending, err := s.requestRepo.HasPending(ctx, adID, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending request: %w", err)
	}
	if pending {
		return nil, ErrDuplicateRequest
	}

	req := &models.PurchaseRequest{
		ID:        uuid.New().String(),
		AdID:      adID,
		BuyerID:   buyerID,
		SellerID:  ad.OwnerID,
		Status:    models.RequestPending,
		CreatedAt: time.Now(),
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("New purchase request for %q", ad.Title)
	if _, err := s.notifService.Notify(ctx, ad.OwnerID, "purchase_request", message, &req.ID); err != nil {
		log.Error().Err(err).Str("request_id", req.ID).Msg("Failed to notify seller")
	}

	return req, nil
}

// ListForSeller retrieves all requests for the caller's ads
func (s *PurchaseRequestService) ListForSeller(ctx context.Context, sellerID string) ([]*models.PurchaseRequest, error) {
	return s.requestRepo.ListBySeller(ctx, sellerID)
}

// Decide moves a pending request to accepted or rejected, seller only.
// Acceptance finds or creates the buyer/seller chat and notifies the
// buyer; the chat id is returned alongside the request.
func (s *PurchaseRequestService) Decide(ctx context.Context, requestID, sellerID, status string) (*models.PurchaseRequest, string, error) {
	if status != models.RequestAccepted && status != models.RequestRejected {
		return nil, "", ErrInvalidStatus
	}

	req, err := s.requestRepo.UpdateStatus(ctx, requestID, sellerID, status)
	if err != nil {
		return nil, "", err
	}

	if status == models.RequestRejected {
		if _, err := s.notifService.Notify(ctx, req.BuyerID, "request_rejected", "Your purchase request was rejected", &req.ID); err != nil {
			log.Error().Err(err).Str("request_id", req.ID).Msg("Failed to notify buyer")
		}
		return req, "", nil
	}

	chat, _, err := s.chatService.Start(ctx, req.SellerID, req.BuyerID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open chat for accepted request: %w", err)
	}

	if _, err := s.notifService.Notify(ctx, req.BuyerID, "request_accepted", "Your purchase request was accepted", &chat.ID); err != nil {
		log.Error().Err(err).Str("request_id", req.ID).Msg("Failed to notify buyer")
	}

	return req, chat.ID, nil
}
