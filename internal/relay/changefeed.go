package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"marktx-backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	chatChannelPrefix = "chat."
	statusChannel     = "relay.status"
)

// ChangeFeed is the authoritative delivery path of the relay: persisted
// rows are published here and fan out to room members through the
// subscriber, on this instance and any other. Senders never broadcast
// directly, so a message reaches a room exactly once per connection.
type ChangeFeed struct {
	rdb *redis.Client
	hub *Hub
}

// NewChangeFeed creates a change feed over redis pub/sub
func NewChangeFeed(rdb *redis.Client, hub *Hub) *ChangeFeed {
	return &ChangeFeed{rdb: rdb, hub: hub}
}

// PublishNewMessage publishes a persisted message row to its chat channel
func (f *ChangeFeed) PublishNewMessage(ctx context.Context, msg *models.Message) error {
	payload, err := json.Marshal(Event{Type: EventNewMessage, ChatID: msg.ChatID, Message: msg})
	if err != nil {
		return fmt.Errorf("failed to marshal message event: %w", err)
	}
	if err := f.rdb.Publish(ctx, chatChannelPrefix+msg.ChatID, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish message event: %w", err)
	}
	return nil
}

// PublishStatus publishes a user's online/offline transition
func (f *ChangeFeed) PublishStatus(ctx context.Context, userID, status string) error {
	payload, err := json.Marshal(Event{Type: EventUserStatus, UserID: userID, Status: status})
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}
	if err := f.rdb.Publish(ctx, statusChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish status event: %w", err)
	}
	return nil
}

// Run subscribes to the feed and routes payloads into the hub until the
// context is cancelled. Chat payloads go to room members only; status
// payloads go to every connection.
func (f *ChangeFeed) Run(ctx context.Context) {
	pubsub := f.rdb.PSubscribe(ctx, chatChannelPrefix+"*", statusChannel)
	defer pubsub.Close()

	log.Info().Msg("Change feed subscriber started")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			f.route(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (f *ChangeFeed) route(channel string, payload []byte) {
	switch {
	case channel == statusChannel:
		f.hub.Broadcast(payload)
	case strings.HasPrefix(channel, chatChannelPrefix):
		chatID := strings.TrimPrefix(channel, chatChannelPrefix)
		f.hub.DeliverToRoom(chatID, payload)
	default:
		log.Warn().Str("channel", channel).Msg("Unknown change feed channel")
	}
}
