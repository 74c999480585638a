package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"connectibles/internal/models"
)

var ErrRequestNotFound = errors.New("connection request not found")

const requestColumns = `id, sender_id, receiver_id, status, created_at, updated_at`

// ConnectionRepository abstracts connection request persistence.
type ConnectionRepository interface {
	Get(ctx context.Context, senderID int64, receiverID int64) (models.ConnectionRequest, error)
	GetByID(ctx context.Context, requestID int64) (models.ConnectionRequest, error)
	Create(ctx context.Context, senderID int64, receiverID int64, status models.ConnectionStatus) (models.ConnectionRequest, error)
	UpdateStatus(ctx context.Context, requestID int64, status models.ConnectionStatus) error
	ListIncoming(ctx context.Context, receiverID int64) ([]models.ConnectionRequest, error)
	DeleteBetween(ctx context.Context, userID int64, otherID int64) error
}

// ConnectionRepo is a sqlx implementation of ConnectionRepository.
type ConnectionRepo struct {
	db *sqlx.DB
}

// NewConnectionRepo constructs a ConnectionRepo.
func NewConnectionRepo(db *sqlx.DB) *ConnectionRepo {
	return &ConnectionRepo{db: db}
}

// Get fetches the request in the sender to receiver direction.
func (r *ConnectionRepo) Get(ctx context.Context, senderID int64, receiverID int64) (models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := r.db.GetContext(ctx, &req, `SELECT `+requestColumns+` FROM connection_requests WHERE sender_id=$1 AND receiver_id=$2`, senderID, receiverID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ConnectionRequest{}, ErrRequestNotFound
	}
	return req, err
}

func (r *ConnectionRepo) GetByID(ctx context.Context, requestID int64) (models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := r.db.GetContext(ctx, &req, `SELECT `+requestColumns+` FROM connection_requests WHERE id=$1`, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ConnectionRequest{}, ErrRequestNotFound
	}
	return req, err
}

func (r *ConnectionRepo) Create(ctx context.Context, senderID int64, receiverID int64, status models.ConnectionStatus) (models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := r.db.GetContext(ctx, &req, `INSERT INTO connection_requests (sender_id, receiver_id, status) VALUES ($1, $2, $3) RETURNING `+requestColumns,
		senderID, receiverID, status)
	return req, err
}

func (r *ConnectionRepo) UpdateStatus(ctx context.Context, requestID int64, status models.ConnectionStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE connection_requests SET status=$2, updated_at=NOW() WHERE id=$1`, requestID, status)
	if err != nil {
		return err
	}
	return requireRow(res, ErrRequestNotFound)
}

// ListIncoming returns waves and pending requests addressed to the user.
func (r *ConnectionRepo) ListIncoming(ctx context.Context, receiverID int64) ([]models.ConnectionRequest, error) {
	reqs := make([]models.ConnectionRequest, 0)
	err := r.db.SelectContext(ctx, &reqs, `SELECT `+requestColumns+` FROM connection_requests
        WHERE receiver_id=$1 AND status IN ('waved', 'pending') ORDER BY updated_at DESC`, receiverID)
	return reqs, err
}

// DeleteBetween removes requests in both directions.
func (r *ConnectionRepo) DeleteBetween(ctx context.Context, userID int64, otherID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM connection_requests
        WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)`, userID, otherID)
	return err
}
