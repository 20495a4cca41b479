package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

type messageRepository struct {
	BaseRepository
}

func NewMessageRepository(base BaseRepository) repository.MessageRepository {
	return &messageRepository{base}
}

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, content, timestamp, is_read)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		msg.ID,
		msg.SenderID,
		msg.ReceiverID,
		msg.Content,
		msg.Timestamp,
		msg.IsRead,
	)
	if err != nil {
		return wrap("create message", err)
	}
	return nil
}

// Thread returns both directions of a conversation, oldest first.
func (r *messageRepository) Thread(ctx context.Context, userA, userB uuid.UUID) ([]*model.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, timestamp, is_read
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY timestamp ASC, id
	`
	messages := []*model.Message{}
	if err := r.db.SelectContext(ctx, &messages, query, userA, userB); err != nil {
		return nil, wrap("list messages", err)
	}
	return messages, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, receiver, sender uuid.UUID) (int64, error) {
	query := `
		UPDATE messages
		SET is_read = TRUE
		WHERE receiver_id = $1 AND sender_id = $2 AND is_read = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, receiver, sender)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return result.RowsAffected()
}
