// AngelaMos | 2026
// repository.go

package chat

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/marketplace-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	ListRecent(ctx context.Context, limit int) ([]Message, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO chat_messages (id, user_id, user_message, ai_response)
		VALUES ($1, $2, $3, $4)
		RETURNING timestamp`

	err := r.db.QueryRowxContext(ctx, query,
		m.ID,
		m.UserID,
		m.UserMessage,
		m.AIResponse,
	).Scan(&m.Timestamp)
	if err != nil {
		return core.StorageError("create chat message", err)
	}

	return nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]Message, error) {
	query := `
		SELECT id, user_id, user_message, ai_response, timestamp
		FROM chat_messages
		ORDER BY timestamp DESC
		LIMIT $1`

	messages := []Message{}
	if err := r.db.SelectContext(ctx, &messages, query, limit); err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}

	return messages, nil
}

func (r *repository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages`)
	if err != nil {
		return 0, fmt.Errorf("delete chat messages: %w", err)
	}

	return result.RowsAffected()
}
