package relay

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// PresenceStore tracks which users currently hold a relay connection.
// The store is injectable so a single-process map can be swapped for a
// shared backend when running more than one instance.
type PresenceStore interface {
	Set(ctx context.Context, userID, connID string) error
	Remove(ctx context.Context, userID string) error
	IsOnline(ctx context.Context, userID string) (bool, error)
}

// MemoryPresence is the single-process presence store
type MemoryPresence struct {
	mu    sync.RWMutex
	conns map[string]string
}

// NewMemoryPresence creates an in-memory presence store
func NewMemoryPresence() *MemoryPresence {
	return &MemoryPresence{conns: make(map[string]string)}
}

// Set records or overwrites the user's connection id
func (p *MemoryPresence) Set(_ context.Context, userID, connID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns[userID] = connID
	return nil
}

// Remove deletes the user's presence entry
func (p *MemoryPresence) Remove(_ context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.conns, userID)
	return nil
}

// IsOnline checks whether the user has a connection
func (p *MemoryPresence) IsOnline(_ context.Context, userID string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, online := p.conns[userID]
	return online, nil
}

// RedisPresence is the shared presence store for multi-instance setups
type RedisPresence struct {
	rdb *redis.Client
}

// NewRedisPresence creates a redis-backed presence store
func NewRedisPresence(rdb *redis.Client) *RedisPresence {
	return &RedisPresence{rdb: rdb}
}

func presenceKey(userID string) string {
	return "presence:" + userID
}

// Set records or overwrites the user's connection id
func (p *RedisPresence) Set(ctx context.Context, userID, connID string) error {
	if err := p.rdb.Set(ctx, presenceKey(userID), connID, 0).Err(); err != nil {
		return fmt.Errorf("failed to set presence: %w", err)
	}
	return nil
}

// Remove deletes the user's presence entry
func (p *RedisPresence) Remove(ctx context.Context, userID string) error {
	if err := p.rdb.Del(ctx, presenceKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to remove presence: %w", err)
	}
	return nil
}

// IsOnline checks whether the user has a connection
func (p *RedisPresence) IsOnline(ctx context.Context, userID string) (bool, error) {
	n, err := p.rdb.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check presence: %w", err)
	}
	return n > 0, nil
}
