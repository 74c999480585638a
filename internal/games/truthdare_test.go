package games

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectibles/internal/apperr"
	"connectibles/internal/models"
)

const (
	alice int64 = 1
	bob   int64 = 2
	eve   int64 = 3
)

func newSession(t *testing.T) models.TruthDareSession {
	t.Helper()
	s, err := NewTruthDare(alice, bob)
	require.NoError(t, err)
	return s
}

func TestNewTruthDare(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, models.TruthDareActive, s.Status)
	assert.Equal(t, alice, s.CurrentTurn)

	_, err := NewTruthDare(alice, alice)
	assert.ErrorIs(t, err, apperr.SelfInvite)
}

func TestTurnStaysWithAskerUntilRoundCloses(t *testing.T) {
	s := newSession(t)
	now := time.Now()

	require.NoError(t, MakeChoice(&s, alice, models.ChoiceTruth, "Favourite class?", now))
	assert.Equal(t, alice, s.CurrentTurn)

	assert.ErrorIs(t, MakeChoice(&s, alice, models.ChoiceDare, "again", now), apperr.RoundInProgress)
	assert.ErrorIs(t, AnswerTruth(&s, alice, "mine"), apperr.CannotAnswerOwn)

	require.NoError(t, AnswerTruth(&s, bob, "Algorithms"))
	assert.Equal(t, bob, s.CurrentTurn)
	require.Len(t, s.Rounds, 1)
	assert.True(t, s.Rounds[0].Completed)
	assert.Equal(t, "Algorithms", *s.Rounds[0].Answer)
}

func TestOnlyCurrentTurnPlayerAsks(t *testing.T) {
	s := newSession(t)
	assert.ErrorIs(t, MakeChoice(&s, bob, models.ChoiceTruth, "q", time.Now()), apperr.NotYourTurn)
	assert.ErrorIs(t, MakeChoice(&s, eve, models.ChoiceTruth, "q", time.Now()), apperr.NotPlayer)
	assert.ErrorIs(t, MakeChoice(&s, alice, "maybe", "q", time.Now()), apperr.InvalidChoice)
	assert.ErrorIs(t, MakeChoice(&s, alice, models.ChoiceDare, "  ", time.Now()), apperr.InvalidInput)
}

func TestDareCompleteAndSkipFlipTurn(t *testing.T) {
	s := newSession(t)
	now := time.Now()

	require.NoError(t, MakeChoice(&s, alice, models.ChoiceDare, "Sing", now))
	assert.ErrorIs(t, AnswerTruth(&s, bob, "no"), apperr.InvalidChoice)
	require.NoError(t, CompleteDare(&s, bob))
	assert.Equal(t, bob, s.CurrentTurn)

	require.NoError(t, MakeChoice(&s, bob, models.ChoiceTruth, "Crush?", now))
	assert.ErrorIs(t, CompleteDare(&s, alice), apperr.InvalidChoice)
	require.NoError(t, SkipRound(&s, alice))
	assert.Equal(t, alice, s.CurrentTurn)
	assert.True(t, s.Rounds[1].Skipped)
	assert.Nil(t, s.Rounds[1].Answer)
}

func TestRespondWithoutOpenRound(t *testing.T) {
	s := newSession(t)
	assert.ErrorIs(t, SkipRound(&s, bob), apperr.NoOpenRound)
	assert.ErrorIs(t, CompleteDare(&s, bob), apperr.NoOpenRound)
}

func TestEndIsTerminal(t *testing.T) {
	s := newSession(t)
	assert.ErrorIs(t, EndTruthDare(&s, eve), apperr.NotPlayer)
	require.NoError(t, EndTruthDare(&s, bob))
	assert.Equal(t, models.TruthDareCompleted, s.Status)

	assert.ErrorIs(t, MakeChoice(&s, alice, models.ChoiceTruth, "q", time.Now()), apperr.SessionCompleted)
	assert.ErrorIs(t, EndTruthDare(&s, alice), apperr.SessionCompleted)
}
