package relay

import (
	"context"
	"errors"
	"testing"
)

func newTestClient(hub *Hub, userID, connID string) *Client {
	return NewClient(hub, nil, userID, connID)
}

func TestRegisterReplacesPreviousConnection(t *testing.T) {
	ctx := context.Background()
	presence := NewMemoryPresence()
	hub := NewHub(presence)

	old := newTestClient(hub, "u1", "c1")
	if err := hub.Register(ctx, old); err != nil {
		t.Fatalf("register old: %v", err)
	}

	replacement := newTestClient(hub, "u1", "c2")
	if err := hub.Register(ctx, replacement); err != nil {
		t.Fatalf("register replacement: %v", err)
	}

	// old send channel is closed, so queueing fails
	if old.queue([]byte("x")) {
		t.Error("expected queue on replaced connection to fail")
	}
	if !replacement.queue([]byte("x")) {
		t.Error("expected queue on current connection to succeed")
	}

	online, err := presence.IsOnline(ctx, "u1")
	if err != nil {
		t.Fatalf("is online: %v", err)
	}
	if !online {
		t.Error("expected user to stay online across reconnect")
	}
}

func TestUnregisterClearsPresence(t *testing.T) {
	ctx := context.Background()
	presence := NewMemoryPresence()
	hub := NewHub(presence)

	c := newTestClient(hub, "u1", "c1")
	if err := hub.Register(ctx, c); err != nil {
		t.Fatalf("register: %v", err)
	}

	if !hub.Unregister(ctx, c) {
		t.Error("expected unregister of the current connection to report current")
	}

	online, err := presence.IsOnline(ctx, "u1")
	if err != nil {
		t.Fatalf("is online: %v", err)
	}
	if online {
		t.Error("expected user to be offline after unregister")
	}
}

func TestUnregisterStaleConnectionKeepsPresence(t *testing.T) {
	ctx := context.Background()
	presence := NewMemoryPresence()
	hub := NewHub(presence)

	old := newTestClient(hub, "u1", "c1")
	if err := hub.Register(ctx, old); err != nil {
		t.Fatalf("register old: %v", err)
	}
	replacement := newTestClient(hub, "u1", "c2")
	if err := hub.Register(ctx, replacement); err != nil {
		t.Fatalf("register replacement: %v", err)
	}

	// the stale connection's read pump winds down after replacement;
	// a false return tells the caller not to announce the user offline
	if hub.Unregister(ctx, old) {
		t.Error("expected unregister of a stale connection to report not current")
	}

	online, err := presence.IsOnline(ctx, "u1")
	if err != nil {
		t.Fatalf("is online: %v", err)
	}
	if !online {
		t.Error("stale unregister must not take the current connection offline")
	}
	if !replacement.queue([]byte("x")) {
		t.Error("current connection must stay usable")
	}

	if !hub.Unregister(ctx, replacement) {
		t.Error("expected unregister of the current connection to report current")
	}
}

func TestJoinRoomHoldsAtMostOneRoom(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(NewMemoryPresence())

	c := newTestClient(hub, "u1", "c1")
	if err := hub.Register(ctx, c); err != nil {
		t.Fatalf("register: %v", err)
	}

	hub.JoinRoom(c, "chat-a")
	hub.JoinRoom(c, "chat-b")

	if got := hub.RoomSize("chat-a"); got != 0 {
		t.Errorf("expected chat-a to be empty, got %d members", got)
	}
	if got := hub.RoomSize("chat-b"); got != 1 {
		t.Errorf("expected chat-b to have 1 member, got %d", got)
	}
}

func TestLeaveRoomIgnoresMismatchedChat(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(NewMemoryPresence())

	c := newTestClient(hub, "u1", "c1")
	if err := hub.Register(ctx, c); err != nil {
		t.Fatalf("register: %v", err)
	}
	hub.JoinRoom(c, "chat-a")

	hub.LeaveRoom(c, "chat-b")
	if got := hub.RoomSize("chat-a"); got != 1 {
		t.Errorf("leave of a different chat must not touch membership, got %d", got)
	}

	hub.LeaveRoom(c, "chat-a")
	if got := hub.RoomSize("chat-a"); got != 0 {
		t.Errorf("expected chat-a to be empty after leave, got %d", got)
	}
}

func TestDeliverToRoomReachesOnlyMembers(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(NewMemoryPresence())

	member := newTestClient(hub, "u1", "c1")
	outsider := newTestClient(hub, "u2", "c2")
	for _, c := range []*Client{member, outsider} {
		if err := hub.Register(ctx, c); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	hub.JoinRoom(member, "chat-a")

	hub.DeliverToRoom("chat-a", []byte("hello"))

	select {
	case payload := <-member.send:
		if string(payload) != "hello" {
			t.Errorf("unexpected payload %q", payload)
		}
	default:
		t.Error("expected member to receive the payload")
	}

	select {
	case <-outsider.send:
		t.Error("outsider must not receive room payloads")
	default:
	}
}

func TestDeliverToRoomDropsSlowConsumer(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(NewMemoryPresence())

	c := newTestClient(hub, "u1", "c1")
	if err := hub.Register(ctx, c); err != nil {
		t.Fatalf("register: %v", err)
	}
	hub.JoinRoom(c, "chat-a")

	for i := 0; i < sendBufferSize; i++ {
		if !c.queue([]byte("fill")) {
			t.Fatalf("buffer filled early at %d", i)
		}
	}

	hub.DeliverToRoom("chat-a", []byte("overflow"))

	if got := hub.RoomSize("chat-a"); got != 0 {
		t.Errorf("expected slow consumer to be dropped from room, got %d members", got)
	}
	hub.SendToUser("u1", Event{Type: EventError})
	if c.queue([]byte("x")) {
		t.Error("expected dropped consumer's send channel to be closed")
	}
}

func TestBroadcastReachesAllConnections(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(NewMemoryPresence())

	a := newTestClient(hub, "u1", "c1")
	b := newTestClient(hub, "u2", "c2")
	for _, c := range []*Client{a, b} {
		if err := hub.Register(ctx, c); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	hub.Broadcast([]byte("status"))

	for _, c := range []*Client{a, b} {
		select {
		case payload := <-c.send:
			if string(payload) != "status" {
				t.Errorf("unexpected payload %q", payload)
			}
		default:
			t.Errorf("expected %s to receive broadcast", c.userID)
		}
	}
}

type failingPresence struct {
	err error
}

func (p *failingPresence) Set(context.Context, string, string) error { return p.err }
func (p *failingPresence) Remove(context.Context, string) error      { return p.err }
func (p *failingPresence) IsOnline(context.Context, string) (bool, error) {
	return false, p.err
}

func TestRegisterPresenceFailureLeavesNoClient(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(&failingPresence{err: errors.New("store down")})

	c := newTestClient(hub, "u1", "c1")
	if err := hub.Register(ctx, c); err == nil {
		t.Fatal("expected register to fail when presence set fails")
	}

	hub.mu.RLock()
	_, exists := hub.clients["u1"]
	hub.mu.RUnlock()
	if exists {
		t.Error("failed register must not leave the client in the hub")
	}
	if c.queue([]byte("x")) {
		t.Error("expected the rejected connection's send channel to be closed")
	}
}

func TestSendToUserUnknownUserIsNoop(t *testing.T) {
	hub := NewHub(NewMemoryPresence())
	hub.SendToUser("nobody", Event{Type: EventUserStatus, UserID: "u9", Status: StatusOnline})
}
