package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"connectibles/internal/models"
)

var ErrSessionNotFound = errors.New("game session not found")

const sessionColumns = `id, game_type, player_id, opponent_id, status, state, result, winner_id, difficulty, created_at, updated_at`

// GameRepository persists game sessions and per-user stats.
type GameRepository interface {
	CreateSession(ctx context.Context, session models.GameSession) (models.GameSession, error)
	GetSession(ctx context.Context, sessionID int64) (models.GameSession, error)
	ListForPlayer(ctx context.Context, userID int64) ([]models.GameSession, error)
	UpdateSession(ctx context.Context, session models.GameSession) (models.GameSession, error)
	IncrementStats(ctx context.Context, userID int64, gameType string, result string) error
	GetStats(ctx context.Context, userID int64) ([]models.GameStats, error)
	Leaderboard(ctx context.Context, gameType string, limit int) ([]models.GameStats, error)
}

type GameRepo struct {
	db *sqlx.DB
}

func NewGameRepo(db *sqlx.DB) *GameRepo {
	return &GameRepo{db: db}
}

func (r *GameRepo) CreateSession(ctx context.Context, s models.GameSession) (models.GameSession, error) {
	var created models.GameSession
	err := r.db.GetContext(ctx, &created, `INSERT INTO game_sessions (game_type, player_id, opponent_id, status, state, difficulty)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+sessionColumns,
		s.GameType, s.PlayerID, s.OpponentID, s.Status, s.State, s.Difficulty)
	return created, err
}

func (r *GameRepo) GetSession(ctx context.Context, sessionID int64) (models.GameSession, error) {
	var s models.GameSession
	err := r.db.GetContext(ctx, &s, `SELECT `+sessionColumns+` FROM game_sessions WHERE id=$1`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GameSession{}, ErrSessionNotFound
	}
	return s, err
}

// ListForPlayer returns sessions the user plays in, most recently updated first.
func (r *GameRepo) ListForPlayer(ctx context.Context, userID int64) ([]models.GameSession, error) {
	list := make([]models.GameSession, 0)
	err := r.db.SelectContext(ctx, &list, `SELECT `+sessionColumns+` FROM game_sessions
        WHERE player_id=$1 OR opponent_id=$1 ORDER BY updated_at DESC`, userID)
	return list, err
}

// UpdateSession replaces state, status and result wholesale.
func (r *GameRepo) UpdateSession(ctx context.Context, s models.GameSession) (models.GameSession, error) {
	var updated models.GameSession
	err := r.db.GetContext(ctx, &updated, `UPDATE game_sessions SET state=$2, status=$3, result=$4, winner_id=$5, updated_at=NOW()
        WHERE id=$1 RETURNING `+sessionColumns,
		s.ID, s.State, s.Status, s.Result, s.WinnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GameSession{}, ErrSessionNotFound
	}
	return updated, err
}

// IncrementStats bumps one counter, creating the row on first use.
func (r *GameRepo) IncrementStats(ctx context.Context, userID int64, gameType string, result string) error {
	var column string
	switch result {
	case models.ResultWin:
		column = "wins"
	case models.ResultLoss:
		column = "losses"
	case models.ResultDraw:
		column = "draws"
	default:
		return fmt.Errorf("unknown result %q", result)
	}
	query := fmt.Sprintf(`INSERT INTO game_stats (user_id, game_type, %[1]s) VALUES ($1, $2, 1)
        ON CONFLICT (user_id, game_type) DO UPDATE SET %[1]s = game_stats.%[1]s + 1`, column)
	_, err := r.db.ExecContext(ctx, query, userID, gameType)
	return err
}

func (r *GameRepo) GetStats(ctx context.Context, userID int64) ([]models.GameStats, error) {
	stats := make([]models.GameStats, 0)
	err := r.db.SelectContext(ctx, &stats, `SELECT user_id, game_type, wins, losses, draws FROM game_stats WHERE user_id=$1 ORDER BY game_type`, userID)
	return stats, err
}

// Leaderboard ranks players of gameType by wins, then fewest losses.
func (r *GameRepo) Leaderboard(ctx context.Context, gameType string, limit int) ([]models.GameStats, error) {
	stats := make([]models.GameStats, 0)
	err := r.db.SelectContext(ctx, &stats, `SELECT user_id, game_type, wins, losses, draws FROM game_stats
        WHERE game_type=$1 ORDER BY wins DESC, losses ASC, user_id ASC LIMIT $2`, gameType, limit)
	return stats, err
}
