package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"connectibles/internal/models"
)

// MessageRepository defines interactions for direct messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, senderID int64, receiverID int64, body string) (models.Message, error)
	ListConversation(ctx context.Context, userID int64, otherID int64) ([]models.Message, error)
	MarkRead(ctx context.Context, receiverID int64, senderID int64) (int64, error)
	CountUnread(ctx context.Context, receiverID int64) (int, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a direct message.
func (r *MessageRepo) CreateMessage(ctx context.Context, senderID int64, receiverID int64, body string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (sender_id, receiver_id, body) VALUES ($1, $2, $3) RETURNING id, sender_id, receiver_id, body, read, created_at`, senderID, receiverID, body).
		Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Body, &msg.Read, &msg.CreatedAt)
	return msg, err
}

// ListConversation returns both directions of a conversation, oldest first.
func (r *MessageRepo) ListConversation(ctx context.Context, userID int64, otherID int64) ([]models.Message, error) {
	query := `SELECT id, sender_id, receiver_id, body, read, created_at
        FROM messages
        WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
        ORDER BY created_at ASC, id ASC`
	msgs := make([]models.Message, 0)
	err := r.db.SelectContext(ctx, &msgs, query, userID, otherID)
	return msgs, err
}

// MarkRead flags every unread message from sender to receiver as read.
func (r *MessageRepo) MarkRead(ctx context.Context, receiverID int64, senderID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET read = TRUE WHERE receiver_id=$1 AND sender_id=$2 AND read = FALSE`, receiverID, senderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *MessageRepo) CountUnread(ctx context.Context, receiverID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages WHERE receiver_id=$1 AND read = FALSE`, receiverID)
	return count, err
}
