package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	GameInProgress = "in_progress"
	GameCompleted  = "completed"
)

// Game results, from the session player's perspective.
const (
	ResultWin  = "win"
	ResultLoss = "loss"
	ResultDraw = "draw"
)

// GameSession holds a game's typed state, serialized as JSONB. State is
// replaced wholesale on each move.
type GameSession struct {
	ID         int64          `db:"id" json:"id"`
	GameType   string         `db:"game_type" json:"gameType"`
	PlayerID   int64          `db:"player_id" json:"playerId"`
	OpponentID *int64         `db:"opponent_id" json:"opponentId,omitempty"`
	Status     string         `db:"status" json:"status"`
	State      types.JSONText `db:"state" json:"state"`
	Result     *string        `db:"result" json:"result,omitempty"`
	WinnerID   *int64         `db:"winner_id" json:"winnerId,omitempty"`
	Difficulty *string        `db:"difficulty" json:"difficulty,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updatedAt"`
}

// IsPlayer reports whether userID takes part in the session.
func (s GameSession) IsPlayer(userID int64) bool {
	if s.PlayerID == userID {
		return true
	}
	return s.OpponentID != nil && *s.OpponentID == userID
}

// GameStats is the per user and game type counter row.
type GameStats struct {
	UserID   int64  `db:"user_id" json:"userId"`
	GameType string `db:"game_type" json:"gameType"`
	Wins     int    `db:"wins" json:"wins"`
	Losses   int    `db:"losses" json:"losses"`
	Draws    int    `db:"draws" json:"draws"`
}

const (
	TruthDareActive    = "active"
	TruthDareCompleted = "completed"

	ChoiceTruth = "truth"
	ChoiceDare  = "dare"
)

type TruthDareRound struct {
	AskedBy   int64     `json:"askedBy"`
	Choice    string    `json:"choice"`
	Question  string    `json:"question"`
	Answer    *string   `json:"answer,omitempty"`
	Completed bool      `json:"completed"`
	Skipped   bool      `json:"skipped"`
	Timestamp time.Time `json:"timestamp"`
}

// TruthDareRounds is stored as a JSONB array.
type TruthDareRounds []TruthDareRound

func (r TruthDareRounds) Value() (driver.Value, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r)
}

func (r *TruthDareRounds) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*r = TruthDareRounds{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("truth dare rounds: unsupported scan type")
	}
	return json.Unmarshal(data, r)
}

type TruthDareSession struct {
	ID          int64           `db:"id" json:"id"`
	Player1ID   int64           `db:"player1_id" json:"player1Id"`
	Player2ID   int64           `db:"player2_id" json:"player2Id"`
	Status      string          `db:"status" json:"status"`
	CurrentTurn int64           `db:"current_turn" json:"currentTurn"`
	Rounds      TruthDareRounds `db:"rounds" json:"rounds"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}
