package relay

import (
	"context"
	"testing"
)

func TestMemoryPresence(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPresence()

	online, err := p.IsOnline(ctx, "u1")
	if err != nil {
		t.Fatalf("is online: %v", err)
	}
	if online {
		t.Error("expected unknown user to be offline")
	}

	if err := p.Set(ctx, "u1", "c1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	online, err = p.IsOnline(ctx, "u1")
	if err != nil {
		t.Fatalf("is online: %v", err)
	}
	if !online {
		t.Error("expected user to be online after set")
	}

	// reconnect overwrites the connection id
	if err := p.Set(ctx, "u1", "c2"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := p.Remove(ctx, "u1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	online, err = p.IsOnline(ctx, "u1")
	if err != nil {
		t.Fatalf("is online: %v", err)
	}
	if online {
		t.Error("expected user to be offline after remove")
	}

	// removing an absent entry is fine
	if err := p.Remove(ctx, "u2"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}
