package services

import (
	"context"
	"fmt"
	"time"

	"marktx-backend/internal/models"
	"marktx-backend/internal/repository"

	"github.com/google/uuid"
)

// ChatService handles chat-related business logic
type ChatService struct {
	chatRepo *repository.ChatRepository
	userRepo *repository.UserRepository
}

// NewChatService creates a new chat service
func NewChatService(chatRepo *repository.ChatRepository, userRepo *repository.UserRepository) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
	}
}

// Start returns the chat between the caller and partner, creating it on
// first contact. The second return value reports whether a new chat was
// created.
func (s *ChatService) Start(ctx context.Context, userID, partnerID string) (*models.Chat, bool, error) {
	if userID == partnerID {
		return nil, false, ErrSelfChat
	}

	if _, err := s.userRepo.GetByID(ctx, partnerID); err != nil {
		return nil, false, fmt.Errorf("partner not found: %w", err)
	}

	chat := &models.Chat{
		ID:        uuid.New().String(),
		User1ID:   userID,
		User2ID:   partnerID,
		CreatedAt: time.Now(),
	}
	return s.chatRepo.GetOrCreate(ctx, chat)
}

// ListForUser retrieves the caller's chats
func (s *ChatService) ListForUser(ctx context.Context, userID string) ([]*models.Chat, error) {
	return s.chatRepo.ListByUser(ctx, userID)
}

// Partner returns the public profile of the other participant
func (s *ChatService) Partner(ctx context.Context, chatID, userID string) (*models.PublicProfile, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	var partnerID string
	switch userID {
	case chat.User1ID:
		partnerID = chat.User2ID
	case chat.User2ID:
		partnerID = chat.User1ID
	default:
		return nil, ErrNotParticipant
	}

	user, err := s.userRepo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return &models.PublicProfile{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}

// EnsureParticipant verifies that userID participates in the chat.
// Returns repository.ErrNotFound for a missing chat and ErrNotParticipant
// for an existing chat the user is not part of.
func (s *ChatService) EnsureParticipant(ctx context.Context, chatID, userID string) error {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.User1ID != userID && chat.User2ID != userID {
		return ErrNotParticipant
	}
	return nil
}
