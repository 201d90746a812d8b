package relay

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub tracks relay connections and room membership. Identity is bound to
// the connection at registration, from the already-validated token; a
// connection never announces an identity of its own.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client            // user id -> connection
	rooms    map[string]map[*Client]struct{} // chat id -> room members
	presence PresenceStore
}

// NewHub creates a new hub
func NewHub(presence PresenceStore) *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		rooms:    make(map[string]map[*Client]struct{}),
		presence: presence,
	}
}

// Register binds a connection to its user. A user holds at most one
// connection; a new one closes the previous.
func (h *Hub) Register(ctx context.Context, c *Client) error {
	h.mu.Lock()
	if old, exists := h.clients[c.userID]; exists {
		h.dropLocked(old)
	}
	h.clients[c.userID] = c
	h.mu.Unlock()

	if err := h.presence.Set(ctx, c.userID, c.connID); err != nil {
		h.mu.Lock()
		if h.clients[c.userID] == c {
			delete(h.clients, c.userID)
		}
		h.dropLocked(c)
		h.mu.Unlock()
		return err
	}

	log.Info().Str("user_id", c.userID).Str("conn_id", c.connID).Msg("Relay connection registered")
	return nil
}

// Unregister removes a connection, its room membership and its presence
// entry. A stale connection already replaced by a newer one for the same
// user leaves the presence entry alone. Reports whether the connection
// was the user's current one; callers announce the user offline only in
// that case.
func (h *Hub) Unregister(ctx context.Context, c *Client) bool {
	h.mu.Lock()
	current := h.clients[c.userID] == c
	if current {
		delete(h.clients, c.userID)
	}
	h.dropLocked(c)
	h.mu.Unlock()

	if !current {
		return false
	}

	if err := h.presence.Remove(ctx, c.userID); err != nil {
		log.Error().Err(err).Str("user_id", c.userID).Msg("Failed to remove presence")
	}

	log.Info().Str("user_id", c.userID).Msg("Relay connection unregistered")
	return true
}

// dropLocked detaches a client from its room and closes its send channel.
// Caller holds h.mu.
func (h *Hub) dropLocked(c *Client) {
	if c.room != "" {
		h.removeFromRoomLocked(c, c.room)
	}
	c.closeSend()
}

// JoinRoom subscribes a connection to the room of one chat. A connection
// holds at most one room; joining tears down the previous subscription.
func (h *Hub) JoinRoom(c *Client, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.room == chatID {
		return
	}
	if c.room != "" {
		h.removeFromRoomLocked(c, c.room)
	}

	members, ok := h.rooms[chatID]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[chatID] = members
	}
	members[c] = struct{}{}
	c.room = chatID

	log.Debug().Str("user_id", c.userID).Str("chat_id", chatID).Msg("Joined room")
}

// LeaveRoom unsubscribes a connection from a room
func (h *Hub) LeaveRoom(c *Client, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.room != chatID {
		return
	}
	h.removeFromRoomLocked(c, chatID)

	log.Debug().Str("user_id", c.userID).Str("chat_id", chatID).Msg("Left room")
}

func (h *Hub) removeFromRoomLocked(c *Client, chatID string) {
	if members, ok := h.rooms[chatID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, chatID)
		}
	}
	c.room = ""
}

// DeliverToRoom forwards a payload to every local member of a room.
// Fire-and-forget: a member whose send buffer is full is dropped.
func (h *Hub) DeliverToRoom(chatID string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.rooms[chatID] {
		if !c.queue(payload) {
			log.Warn().Str("user_id", c.userID).Str("chat_id", chatID).Msg("Dropping slow relay consumer")
			if h.clients[c.userID] == c {
				delete(h.clients, c.userID)
			}
			h.dropLocked(c)
		}
	}
}

// Broadcast forwards a payload to every local connection
func (h *Hub) Broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, c := range h.clients {
		if !c.queue(payload) {
			log.Warn().Str("user_id", userID).Msg("Dropping slow relay consumer")
			delete(h.clients, userID)
			h.dropLocked(c)
		}
	}
}

// SendToUser forwards an event to one user's connection, if any
func (h *Hub) SendToUser(userID string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal relay event")
		return
	}

	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	c.queue(payload)
}

// RoomSize reports the number of local members of a room
func (h *Hub) RoomSize(chatID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chatID])
}
