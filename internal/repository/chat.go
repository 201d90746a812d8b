package repository

import (
	"context"
	"fmt"

	"marktx-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository handles database operations for chats
type ChatRepository struct {
	db *pgxpool.Pool
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// normalizePair orders two user ids so the smaller one comes first.
// Chats store the pair in this order, which together with the unique
// (user1_id, user2_id) constraint makes a pair map to exactly one row.
func normalizePair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// GetOrCreate returns the chat between two users, creating it if absent.
// Safe under concurrent calls from both sides: the insert uses
// ON CONFLICT DO NOTHING and the row is re-selected afterwards.
func (r *ChatRepository) GetOrCreate(ctx context.Context, chat *models.Chat) (*models.Chat, bool, error) {
	user1, user2 := normalizePair(chat.User1ID, chat.User2ID)

	insertQuery := `
		INSERT INTO chats (id, user1_id, user2_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user1_id, user2_id) DO NOTHING
	`
	result, err := r.db.Exec(ctx, insertQuery, chat.ID, user1, user2, chat.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create chat: %w", err)
	}
	created := result.RowsAffected() > 0

	selectQuery := `
		SELECT id, user1_id, user2_id, created_at
		FROM chats
		WHERE user1_id = $1 AND user2_id = $2
	`
	var out models.Chat
	err = r.db.QueryRow(ctx, selectQuery, user1, user2).Scan(
		&out.ID, &out.User1ID, &out.User2ID, &out.CreatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get chat: %w", err)
	}
	return &out, created, nil
}

// GetByID retrieves a chat by ID
func (r *ChatRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	query := `
		SELECT id, user1_id, user2_id, created_at
		FROM chats
		WHERE id = $1
	`
	var chat models.Chat
	err := r.db.QueryRow(ctx, query, id).Scan(
		&chat.ID, &chat.User1ID, &chat.User2ID, &chat.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("chat not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &chat, nil
}

// ListByUser retrieves all chats a user participates in, newest first
func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]*models.Chat, error) {
	query := `
		SELECT id, user1_id, user2_id, created_at
		FROM chats
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	var chats []*models.Chat
	for rows.Next() {
		var chat models.Chat
		err := rows.Scan(&chat.ID, &chat.User1ID, &chat.User2ID, &chat.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		chats = append(chats, &chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chats: %w", err)
	}
	return chats, nil
}
