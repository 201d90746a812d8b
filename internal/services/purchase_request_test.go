package services

import (
	"context"
	"errors"
	"testing"

	"marktx-backend/internal/models"
)

type fakeRequestStore struct {
	created *models.PurchaseRequest
	pending bool
	decided *models.PurchaseRequest
}

func (f *fakeRequestStore) Create(_ context.Context, req *models.PurchaseRequest) error {
	f.created = req
	return nil
}

func (f *fakeRequestStore) ListBySeller(context.Context, string) ([]*models.PurchaseRequest, error) {
	return nil, nil
}

func (f *fakeRequestStore) HasPending(context.Context, string, string) (bool, error) {
	return f.pending, nil
}

func (f *fakeRequestStore) UpdateStatus(_ context.Context, id, sellerID, status string) (*models.PurchaseRequest, error) {
	req := *f.decided
	req.Status = status
	return &req, nil
}

type fakeAdGetter struct {
	ad *models.Ad
}

func (f *fakeAdGetter) GetByID(context.Context, string) (*models.Ad, error) {
	return f.ad, nil
}

type fakeChatStarter struct {
	chat    *models.Chat
	created bool
	userID  string
	partner string
	calls   int
}

func (f *fakeChatStarter) Start(_ context.Context, userID, partnerID string) (*models.Chat, bool, error) {
	f.calls++
	f.userID = userID
	f.partner = partnerID
	return f.chat, f.created, nil
}

type notifyCall struct {
	userID    string
	ntype     string
	relatedID *string
}

type fakeNotifier struct {
	calls []notifyCall
}

func (f *fakeNotifier) Notify(_ context.Context, userID, ntype, message string, relatedID *string) (*models.Notification, error) {
	f.calls = append(f.calls, notifyCall{userID: userID, ntype: ntype, relatedID: relatedID})
	return &models.Notification{UserID: userID, Type: ntype, Message: message}, nil
}

func TestDecideRejectsUnknownStatus(t *testing.T) {
	s := &PurchaseRequestService{}

	for _, status := range []string{"", "pending", "maybe", "ACCEPTED"} {
		if _, _, err := s.Decide(context.Background(), "req-1", "seller-1", status); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("Decide with status %q: expected ErrInvalidStatus, got %v", status, err)
		}
	}
}

func TestDecideAcceptedOpensChatAndNotifiesBuyer(t *testing.T) {
	pending := &models.PurchaseRequest{
		ID:       "req-1",
		AdID:     "ad-1",
		BuyerID:  "buyer-1",
		SellerID: "seller-1",
		Status:   models.RequestPending,
	}
	requests := &fakeRequestStore{decided: pending}
	chats := &fakeChatStarter{chat: &models.Chat{ID: "chat-1"}, created: true}
	notifs := &fakeNotifier{}
	s := NewPurchaseRequestService(requests, &fakeAdGetter{}, chats, notifs)

	req, chatID, err := s.Decide(context.Background(), "req-1", "seller-1", models.RequestAccepted)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	if req.Status != models.RequestAccepted {
		t.Errorf("expected status accepted, got %q", req.Status)
	}
	if chats.calls != 1 {
		t.Fatalf("expected exactly one chat start, got %d", chats.calls)
	}
	if chats.userID != "seller-1" || chats.partner != "buyer-1" {
		t.Errorf("expected chat between seller-1 and buyer-1, got %s/%s", chats.userID, chats.partner)
	}
	if chatID != "chat-1" {
		t.Errorf("expected chat id chat-1, got %q", chatID)
	}

	if len(notifs.calls) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifs.calls))
	}
	call := notifs.calls[0]
	if call.userID != "buyer-1" || call.ntype != "request_accepted" {
		t.Errorf("expected request_accepted notification to buyer-1, got %s to %s", call.ntype, call.userID)
	}
	if call.relatedID == nil || *call.relatedID != "chat-1" {
		t.Error("expected the notification to reference the chat")
	}
}

func TestDecideAcceptedReusesExistingChat(t *testing.T) {
	pending := &models.PurchaseRequest{
		ID:       "req-1",
		AdID:     "ad-1",
		BuyerID:  "buyer-1",
		SellerID: "seller-1",
		Status:   models.RequestPending,
	}
	requests := &fakeRequestStore{decided: pending}
	chats := &fakeChatStarter{chat: &models.Chat{ID: "chat-existing"}, created: false}
	s := NewPurchaseRequestService(requests, &fakeAdGetter{}, chats, &fakeNotifier{})

	_, chatID, err := s.Decide(context.Background(), "req-1", "seller-1", models.RequestAccepted)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	if chats.calls != 1 {
		t.Fatalf("expected exactly one chat start, got %d", chats.calls)
	}
	if chatID != "chat-existing" {
		t.Errorf("expected the existing chat to be reused, got %q", chatID)
	}
}

func TestDecideRejectedNotifiesBuyerWithoutChat(t *testing.T) {
	pending := &models.PurchaseRequest{
		ID:       "req-1",
		AdID:     "ad-1",
		BuyerID:  "buyer-1",
		SellerID: "seller-1",
		Status:   models.RequestPending,
	}
	requests := &fakeRequestStore{decided: pending}
	chats := &fakeChatStarter{chat: &models.Chat{ID: "chat-1"}}
	notifs := &fakeNotifier{}
	s := NewPurchaseRequestService(requests, &fakeAdGetter{}, chats, notifs)

	req, chatID, err := s.Decide(context.Background(), "req-1", "seller-1", models.RequestRejected)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	if req.Status != models.RequestRejected {
		t.Errorf("expected status rejected, got %q", req.Status)
	}
	if chats.calls != 0 {
		t.Error("rejection must not open a chat")
	}
	if chatID != "" {
		t.Errorf("expected no chat id, got %q", chatID)
	}
	if len(notifs.calls) != 1 || notifs.calls[0].ntype != "request_rejected" {
		t.Errorf("expected one request_rejected notification, got %+v", notifs.calls)
	}
}

func TestCreateRejectsOwnAdAndDuplicates(t *testing.T) {
	ad := &models.Ad{ID: "ad-1", OwnerID: "seller-1", Title: "Schulbuch"}

	s := NewPurchaseRequestService(&fakeRequestStore{}, &fakeAdGetter{ad: ad}, &fakeChatStarter{}, &fakeNotifier{})
	if _, err := s.Create(context.Background(), "seller-1", "ad-1"); !errors.Is(err, ErrOwnAd) {
		t.Errorf("expected ErrOwnAd for the owner's own ad, got %v", err)
	}

	s = NewPurchaseRequestService(&fakeRequestStore{pending: true}, &fakeAdGetter{ad: ad}, &fakeChatStarter{}, &fakeNotifier{})
	if _, err := s.Create(context.Background(), "buyer-1", "ad-1"); !errors.Is(err, ErrDuplicateRequest) {
		t.Errorf("expected ErrDuplicateRequest for a second pending request, got %v", err)
	}
}

func TestCreateNotifiesSeller(t *testing.T) {
	ad := &models.Ad{ID: "ad-1", OwnerID: "seller-1", Title: "Schulbuch"}
	requests := &fakeRequestStore{}
	notifs := &fakeNotifier{}
	s := NewPurchaseRequestService(requests, &fakeAdGetter{ad: ad}, &fakeChatStarter{}, notifs)

	req, err := s.Create(context.Background(), "buyer-1", "ad-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if req.Status != models.RequestPending {
		t.Errorf("expected a pending request, got %q", req.Status)
	}
	if requests.created == nil || requests.created.SellerID != "seller-1" {
		t.Error("expected the request row to carry the ad owner as seller")
	}
	if len(notifs.calls) != 1 || notifs.calls[0].userID != "seller-1" || notifs.calls[0].ntype != "purchase_request" {
		t.Errorf("expected one purchase_request notification to seller-1, got %+v", notifs.calls)
	}
}
