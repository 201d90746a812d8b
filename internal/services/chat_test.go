package services

import (
	"context"
	"errors"
	"testing"
)

func TestStartRejectsSelfChat(t *testing.T) {
	s := &ChatService{}

	if _, _, err := s.Start(context.Background(), "user-1", "user-1"); !errors.Is(err, ErrSelfChat) {
		t.Errorf("expected ErrSelfChat, got %v", err)
	}
}
