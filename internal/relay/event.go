package relay

import "marktx-backend/internal/models"

// Event types on the relay, both directions.
const (
	// client -> server
	EventJoinChat    = "join-chat"
	EventLeaveChat   = "leave-chat"
	EventSendMessage = "send-message"

	// server -> client
	EventNewMessage = "new-message"
	EventUserStatus = "user-status"
	EventError      = "error"
)

// User status values carried by user-status events
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Event is the wire format of a relay event
type Event struct {
	Type    string          `json:"type"`
	ChatID  string          `json:"chat_id,omitempty"`
	Content string          `json:"content,omitempty"`
	UserID  string          `json:"user_id,omitempty"`
	Status  string          `json:"status,omitempty"`
	Message *models.Message `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}
