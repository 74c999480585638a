package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"connectibles/internal/apperr"
	"connectibles/internal/mocks"
	"connectibles/internal/models"
	"connectibles/internal/repositories"
)

func newTruthDareFixture() (*TruthDareService, *mocks.TruthDareRepositoryMock, *mocks.UserRepositoryMock, *mocks.BroadcasterMock, *mocks.NotifierMock) {
	repo := new(mocks.TruthDareRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	hub := mocks.NewBroadcasterMock()
	notifier := new(mocks.NotifierMock)
	svc := NewTruthDareService(repo, users, hub, notifier)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	repo.On("SaveTruthDare", mock.Anything, mock.Anything).
		Return(func(_ context.Context, s models.TruthDareSession) models.TruthDareSession { return s }, nil).Maybe()
	return svc, repo, users, hub, notifier
}

func activeTruthDare() models.TruthDareSession {
	return models.TruthDareSession{ID: 1, Player1ID: alice, Player2ID: bob, Status: models.TruthDareActive, CurrentTurn: alice, Rounds: models.TruthDareRounds{}}
}

func TestStartTruthDare(t *testing.T) {
	svc, repo, users, _, notifier := newTruthDareFixture()
	expectUsers(users, testUser(alice, "Alice", bob))
	repo.On("CreateTruthDare", mock.Anything, mock.MatchedBy(func(s models.TruthDareSession) bool {
		return s.Player1ID == alice && s.Player2ID == bob && s.CurrentTurn == alice
	})).Return(activeTruthDare(), nil).Once()
	notifier.On("Notify", bob, models.NotificationGameInvite, mock.Anything, ptr(alice)).Once()

	session, err := svc.StartTruthDare(context.Background(), alice, bob)

	require.NoError(t, err)
	assert.Equal(t, models.TruthDareActive, session.Status)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestStartTruthDareRejections(t *testing.T) {
	svc, _, users, _, _ := newTruthDareFixture()
	expectUsers(users, testUser(alice, "Alice"))

	_, err := svc.StartTruthDare(context.Background(), alice, alice)
	assert.ErrorIs(t, err, apperr.SelfInvite)

	_, err = svc.StartTruthDare(context.Background(), alice, bob)
	assert.ErrorIs(t, err, apperr.NotConnected)
}

func TestTruthDareRoundFlipsTurn(t *testing.T) {
	svc, repo, _, hub, _ := newTruthDareFixture()
	session := activeTruthDare()
	repo.On("GetTruthDare", mock.Anything, int64(1)).Return(session, nil).Once()

	asked, err := svc.MakeChoice(context.Background(), alice, 1, models.ChoiceTruth, "Favourite class?")
	require.NoError(t, err)
	require.Len(t, asked.Rounds, 1)
	assert.Equal(t, alice, asked.CurrentTurn)

	repo.On("GetTruthDare", mock.Anything, int64(1)).Return(asked, nil).Once()
	answered, err := svc.AnswerTruth(context.Background(), bob, 1, "Databases")
	require.NoError(t, err)

	assert.True(t, answered.Rounds[0].Completed)
	assert.Equal(t, "Databases", *answered.Rounds[0].Answer)
	assert.Equal(t, bob, answered.CurrentTurn)
	assert.Len(t, hub.Sent(alice), 2)
	assert.Len(t, hub.Sent(bob), 2)
}

func TestTruthDareStepErrors(t *testing.T) {
	svc, repo, _, _, _ := newTruthDareFixture()
	repo.On("GetTruthDare", mock.Anything, int64(404)).Return(models.TruthDareSession{}, repositories.ErrTruthDareNotFound)
	repo.On("GetTruthDare", mock.Anything, int64(1)).Return(activeTruthDare(), nil)

	_, err := svc.SkipRound(context.Background(), alice, 404)
	assert.ErrorIs(t, err, apperr.SessionNotFound)

	_, err = svc.MakeChoice(context.Background(), bob, 1, models.ChoiceDare, "Sing")
	assert.ErrorIs(t, err, apperr.NotYourTurn)

	_, err = svc.CompleteDare(context.Background(), bob, 1)
	assert.ErrorIs(t, err, apperr.NoOpenRound)

	_, err = svc.EndTruthDare(context.Background(), carol, 1)
	assert.ErrorIs(t, err, apperr.NotPlayer)

	repo.AssertNotCalled(t, "SaveTruthDare", mock.Anything, mock.Anything)
}

func TestGetTruthDareParticipantsOnly(t *testing.T) {
	svc, repo, _, _, _ := newTruthDareFixture()
	repo.On("GetTruthDare", mock.Anything, int64(1)).Return(activeTruthDare(), nil)

	_, err := svc.GetTruthDare(context.Background(), carol, 1)
	assert.ErrorIs(t, err, apperr.NotPlayer)

	session, err := svc.GetTruthDare(context.Background(), bob, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), session.ID)
}
