package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"connectibles/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// GossipRepository defines interactions for the public gossip room.
type GossipRepository interface {
	CreateGossip(ctx context.Context, senderID int64, body string) (models.GossipMessage, error)
	ListRecent(ctx context.Context, limit int) ([]models.GossipMessage, error)
	GetGossip(ctx context.Context, messageID int64) (models.GossipMessage, error)
	DeleteForAll(ctx context.Context, messageID int64, senderID int64) error
}

// GossipRepo is a sqlx-backed implementation.
type GossipRepo struct {
	db *sqlx.DB
}

// NewGossipRepo constructs a GossipRepo.
func NewGossipRepo(db *sqlx.DB) *GossipRepo {
	return &GossipRepo{db: db}
}

func (r *GossipRepo) CreateGossip(ctx context.Context, senderID int64, body string) (models.GossipMessage, error) {
	var msg models.GossipMessage
	err := r.db.QueryRowxContext(ctx, `INSERT INTO gossip_messages (sender_id, body) VALUES ($1, $2) RETURNING id, sender_id, body, deleted_for_all, created_at`, senderID, body).
		Scan(&msg.ID, &msg.SenderID, &msg.Body, &msg.DeletedForAll, &msg.CreatedAt)
	return msg, err
}

// ListRecent returns the newest limit messages in chronological order,
// excluding deleted_for_all.
func (r *GossipRepo) ListRecent(ctx context.Context, limit int) ([]models.GossipMessage, error) {
	msgs := make([]models.GossipMessage, 0)
	err := r.db.SelectContext(ctx, &msgs, `SELECT id, sender_id, body, deleted_for_all, created_at FROM (
            SELECT id, sender_id, body, deleted_for_all, created_at FROM gossip_messages
            WHERE deleted_for_all = FALSE ORDER BY created_at DESC, id DESC LIMIT $1
        ) recent ORDER BY created_at ASC, id ASC`, limit)
	return msgs, err
}

func (r *GossipRepo) GetGossip(ctx context.Context, messageID int64) (models.GossipMessage, error) {
	var msg models.GossipMessage
	err := r.db.GetContext(ctx, &msg, `SELECT id, sender_id, body, deleted_for_all, created_at FROM gossip_messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GossipMessage{}, ErrMessageNotFound
	}
	return msg, err
}

// DeleteForAll marks a message deleted for everyone (sender only).
func (r *GossipRepo) DeleteForAll(ctx context.Context, messageID int64, senderID int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE gossip_messages SET deleted_for_all = TRUE WHERE id=$1 AND sender_id=$2`, messageID, senderID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrMessageNotFound)
}
