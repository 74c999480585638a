package games

import (
	"connectibles/internal/apperr"
	"connectibles/internal/models"
)

// Outcome is a single stats increment.
type Outcome struct {
	UserID int64
	Result string
}

// ValidResult reports whether r is win, loss or draw.
func ValidResult(r string) bool {
	switch r {
	case models.ResultWin, models.ResultLoss, models.ResultDraw:
		return true
	}
	return false
}

// Outcomes expands a finished session into per-player stats increments.
// result is from the session player's perspective. A winner id is optional
// but must name the winner that result implies: the player on a win, the
// opponent on a two-player loss, and nobody on a draw or a loss to the AI.
func Outcomes(s models.GameSession, result string, winnerID *int64) ([]Outcome, error) {
	if !ValidResult(result) {
		return nil, apperr.InvalidResult
	}
	if winnerID != nil {
		implied := impliedWinner(s, result)
		if implied == nil || *implied != *winnerID {
			return nil, apperr.InvalidResult.Withf("winner %d does not match result %s", *winnerID, result)
		}
	}

	if s.OpponentID == nil {
		return []Outcome{{UserID: s.PlayerID, Result: result}}, nil
	}
	opponent := *s.OpponentID

	switch result {
	case models.ResultDraw:
		return []Outcome{
			{UserID: s.PlayerID, Result: models.ResultDraw},
			{UserID: opponent, Result: models.ResultDraw},
		}, nil
	case models.ResultWin:
		return []Outcome{
			{UserID: s.PlayerID, Result: models.ResultWin},
			{UserID: opponent, Result: models.ResultLoss},
		}, nil
	default:
		return []Outcome{
			{UserID: opponent, Result: models.ResultWin},
			{UserID: s.PlayerID, Result: models.ResultLoss},
		}, nil
	}
}

func impliedWinner(s models.GameSession, result string) *int64 {
	switch result {
	case models.ResultWin:
		return &s.PlayerID
	case models.ResultLoss:
		return s.OpponentID
	}
	return nil
}
