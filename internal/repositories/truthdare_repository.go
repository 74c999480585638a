package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"connectibles/internal/models"
)

var ErrTruthDareNotFound = errors.New("truth or dare session not found")

const truthDareColumns = `id, player1_id, player2_id, status, current_turn, rounds, created_at, updated_at`

// TruthDareRepository persists truth-or-dare sessions.
type TruthDareRepository interface {
	CreateTruthDare(ctx context.Context, s models.TruthDareSession) (models.TruthDareSession, error)
	GetTruthDare(ctx context.Context, sessionID int64) (models.TruthDareSession, error)
	SaveTruthDare(ctx context.Context, s models.TruthDareSession) (models.TruthDareSession, error)
	ListTruthDareForPlayer(ctx context.Context, userID int64) ([]models.TruthDareSession, error)
}

type TruthDareRepo struct {
	db *sqlx.DB
}

func NewTruthDareRepo(db *sqlx.DB) *TruthDareRepo {
	return &TruthDareRepo{db: db}
}

func (r *TruthDareRepo) CreateTruthDare(ctx context.Context, s models.TruthDareSession) (models.TruthDareSession, error) {
	var created models.TruthDareSession
	err := r.db.GetContext(ctx, &created, `INSERT INTO truth_dare_sessions (player1_id, player2_id, status, current_turn, rounds)
        VALUES ($1, $2, $3, $4, $5) RETURNING `+truthDareColumns,
		s.Player1ID, s.Player2ID, s.Status, s.CurrentTurn, s.Rounds)
	return created, err
}

func (r *TruthDareRepo) GetTruthDare(ctx context.Context, sessionID int64) (models.TruthDareSession, error) {
	var s models.TruthDareSession
	err := r.db.GetContext(ctx, &s, `SELECT `+truthDareColumns+` FROM truth_dare_sessions WHERE id=$1`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TruthDareSession{}, ErrTruthDareNotFound
	}
	return s, err
}

// SaveTruthDare writes back status, turn and the full rounds list.
func (r *TruthDareRepo) SaveTruthDare(ctx context.Context, s models.TruthDareSession) (models.TruthDareSession, error) {
	var saved models.TruthDareSession
	err := r.db.GetContext(ctx, &saved, `UPDATE truth_dare_sessions SET status=$2, current_turn=$3, rounds=$4, updated_at=NOW()
        WHERE id=$1 RETURNING `+truthDareColumns, s.ID, s.Status, s.CurrentTurn, s.Rounds)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TruthDareSession{}, ErrTruthDareNotFound
	}
	return saved, err
}

func (r *TruthDareRepo) ListTruthDareForPlayer(ctx context.Context, userID int64) ([]models.TruthDareSession, error) {
	list := make([]models.TruthDareSession, 0)
	err := r.db.SelectContext(ctx, &list, `SELECT `+truthDareColumns+` FROM truth_dare_sessions
        WHERE player1_id=$1 OR player2_id=$1 ORDER BY updated_at DESC`, userID)
	return list, err
}
