package games

import (
	"strings"
	"time"

	"connectibles/internal/apperr"
	"connectibles/internal/models"
)

// NewTruthDare opens a session where the inviter asks first.
func NewTruthDare(inviter, opponent int64) (models.TruthDareSession, error) {
	if inviter == opponent {
		return models.TruthDareSession{}, apperr.SelfInvite
	}
	return models.TruthDareSession{
		Player1ID:   inviter,
		Player2ID:   opponent,
		Status:      models.TruthDareActive,
		CurrentTurn: inviter,
		Rounds:      models.TruthDareRounds{},
	}, nil
}

// MakeChoice opens a round. Only the current-turn player may ask, and only
// when no round is open. The turn does not move until the round closes.
func MakeChoice(s *models.TruthDareSession, userID int64, choice, question string, now time.Time) error {
	if err := checkActive(s, userID); err != nil {
		return err
	}
	if choice != models.ChoiceTruth && choice != models.ChoiceDare {
		return apperr.InvalidChoice
	}
	if _, ok := OpenRound(s); ok {
		return apperr.RoundInProgress
	}
	if s.CurrentTurn != userID {
		return apperr.NotYourTurn
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return apperr.InvalidInput.Withf("question is required")
	}

	s.Rounds = append(s.Rounds, models.TruthDareRound{
		AskedBy:   userID,
		Choice:    choice,
		Question:  question,
		Timestamp: now,
	})
	return nil
}

// AnswerTruth closes an open truth round with the responder's answer.
func AnswerTruth(s *models.TruthDareSession, userID int64, answer string) error {
	round, err := respondable(s, userID)
	if err != nil {
		return err
	}
	if round.Choice != models.ChoiceTruth {
		return apperr.InvalidChoice.Withf("only truth rounds take an answer")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return apperr.InvalidInput.Withf("answer is required")
	}
	round.Answer = &answer
	closeRound(s, round, false)
	return nil
}

// CompleteDare marks an open dare round done.
func CompleteDare(s *models.TruthDareSession, userID int64) error {
	round, err := respondable(s, userID)
	if err != nil {
		return err
	}
	if round.Choice != models.ChoiceDare {
		return apperr.InvalidChoice.Withf("only dare rounds can be marked done")
	}
	closeRound(s, round, false)
	return nil
}

// SkipRound closes the open round, truth or dare, without a response.
func SkipRound(s *models.TruthDareSession, userID int64) error {
	round, err := respondable(s, userID)
	if err != nil {
		return err
	}
	closeRound(s, round, true)
	return nil
}

// EndTruthDare completes the session. Completed is terminal.
func EndTruthDare(s *models.TruthDareSession, userID int64) error {
	if err := checkActive(s, userID); err != nil {
		return err
	}
	s.Status = models.TruthDareCompleted
	return nil
}

// OpenRound returns the last round when it is still waiting for a response.
func OpenRound(s *models.TruthDareSession) (*models.TruthDareRound, bool) {
	if len(s.Rounds) == 0 {
		return nil, false
	}
	last := &s.Rounds[len(s.Rounds)-1]
	if last.Completed {
		return nil, false
	}
	return last, true
}

// Opponent returns the other participant.
func Opponent(s *models.TruthDareSession, userID int64) int64 {
	if s.Player1ID == userID {
		return s.Player2ID
	}
	return s.Player1ID
}

// IsParticipant reports whether userID is one of the two players.
func IsParticipant(s *models.TruthDareSession, userID int64) bool {
	return s.Player1ID == userID || s.Player2ID == userID
}

func checkActive(s *models.TruthDareSession, userID int64) error {
	if !IsParticipant(s, userID) {
		return apperr.NotPlayer
	}
	if s.Status == models.TruthDareCompleted {
		return apperr.SessionCompleted
	}
	return nil
}

func respondable(s *models.TruthDareSession, userID int64) (*models.TruthDareRound, error) {
	if err := checkActive(s, userID); err != nil {
		return nil, err
	}
	round, ok := OpenRound(s)
	if !ok {
		return nil, apperr.NoOpenRound
	}
	if round.AskedBy == userID {
		return nil, apperr.CannotAnswerOwn
	}
	return round, nil
}

// closeRound flips the turn unconditionally.
func closeRound(s *models.TruthDareSession, round *models.TruthDareRound, skipped bool) {
	round.Completed = true
	round.Skipped = skipped
	s.CurrentTurn = Opponent(s, s.CurrentTurn)
}
