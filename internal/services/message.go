package services

import (
	"context"
	"time"

	"marktx-backend/internal/models"
	"marktx-backend/internal/repository"

	"github.com/google/uuid"
)

// MessageService handles message-related business logic
type MessageService struct {
	messageRepo *repository.MessageRepository
	chatService *ChatService
}

// NewMessageService creates a new message service
func NewMessageService(messageRepo *repository.MessageRepository, chatService *ChatService) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		chatService: chatService,
	}
}

// Send persists a message from senderID into the chat. Broadcasting the
// persisted row to room members is the change-feed's job; callers publish
// the returned message after a successful send.
func (s *MessageService) Send(ctx context.Context, chatID, senderID, content string) (*models.Message, error) {
	if err := s.chatService.EnsureParticipant(ctx, chatID, senderID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		Read:      false,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListForChat retrieves the chat's messages for a participant in ascending
// order and marks the partner's messages as read
func (s *MessageService) ListForChat(ctx context.Context, chatID, userID string) ([]*models.Message, error) {
	if err := s.chatService.EnsureParticipant(ctx, chatID, userID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.MarkRead(ctx, chatID, userID); err != nil {
		return nil, err
	}
	return messages, nil
}
