package relay

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// EventHandler processes a client -> server event
type EventHandler interface {
	HandleEvent(ctx context.Context, c *Client, ev Event)
}

// Client is the middleman between one websocket connection and the hub
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
	connID string

	// room is the chat this connection currently subscribes to, "" if
	// none. Guarded by hub.mu.
	room string

	closeOnce sync.Once
}

// NewClient wraps an upgraded websocket connection
func NewClient(hub *Hub, conn *websocket.Conn, userID, connID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: userID,
		connID: connID,
	}
}

// UserID returns the identity bound to this connection
func (c *Client) UserID() string {
	return c.userID
}

// queue appends a payload to the send buffer. Returns false when the
// buffer is full or already closed.
func (c *Client) queue(payload []byte) bool {
	defer func() {
		// send may be closed concurrently by the hub
		recover()
	}()
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// SendEvent queues one event for this connection
func (c *Client) SendEvent(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal relay event")
		return
	}
	c.queue(payload)
}

// ReadPump pumps events from the websocket connection to the handler.
// The caller unregisters the client after it returns, so it can tell a
// real disconnect from a stale connection replaced by a newer one.
func (c *Client) ReadPump(ctx context.Context, handler EventHandler) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", c.userID).Msg("Relay read error")
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			log.Error().Err(err).Str("user_id", c.userID).Msg("Failed to parse relay event")
			c.SendEvent(Event{Type: EventError, Error: "invalid event format"})
			continue
		}

		handler.HandleEvent(ctx, c, ev)
	}
}

// WritePump pumps queued payloads to the websocket connection and keeps
// it alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
