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

// OnlineChecker reports whether a user currently has a relay connection.
// Satisfied by the relay presence store.
type OnlineChecker interface {
	IsOnline(ctx context.Context, userID string) (bool, error)
}

// Pusher delivers a push notification to a device token.
// Satisfied by PushSender.
type Pusher interface {
	Send(deviceToken, alert string) error
}

// NotificationService creates and lists notifications. Users who are
// offline and have a registered push token also get a push.
type NotificationService struct {
	notifRepo *repository.NotificationRepository
	userRepo  *repository.UserRepository
	presence  OnlineChecker
	pusher    Pusher
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notifRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	presence OnlineChecker,
	pusher Pusher,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		presence:  presence,
		pusher:    pusher,
	}
}

// Notify creates a notification for a user. Push delivery failures are
// logged, never surfaced: the row is already persisted.
func (s *NotificationService) Notify(ctx context.Context, userID, ntype, message string, relatedID *string) (*models.Notification, error) {
	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      ntype,
		Message:   message,
		RelatedID: relatedID,
		Seen:      false,
		CreatedAt: time.Now(),
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.maybePush(ctx, userID, message)

	return n, nil
}

func (s *NotificationService) maybePush(ctx context.Context, userID, message string) {
	online, err := s.presence.IsOnline(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to check presence")
		return
	}
	if online {
		return
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load user for push")
		return
	}
	if user.PushToken == nil {
		return
	}

	if err := s.pusher.Send(*user.PushToken, message); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to send push notification")
	}
}

// ListForUser retrieves the caller's notifications
func (s *NotificationService) ListForUser(ctx context.Context, userID string, onlyUnseen bool) ([]*models.Notification, error) {
	return s.notifRepo.ListByUser(ctx, userID, onlyUnseen)
}

// MarkSeen marks one of the caller's notifications as seen
func (s *NotificationService) MarkSeen(ctx context.Context, id, userID string) (*models.Notification, error) {
	return s.notifRepo.MarkSeen(ctx, id, userID)
}
