package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connectibles/internal/apperr"
	"connectibles/internal/games"
	"connectibles/internal/models"
	"connectibles/internal/repositories"
)

// TruthDareService loads a session, applies one turn-machine step and saves
// the result.
type TruthDareService struct {
	sessions repositories.TruthDareRepository
	users    repositories.UserRepository
	hub      Broadcaster
	notifier Notifier
	now      func() time.Time
}

func NewTruthDareService(sessions repositories.TruthDareRepository, users repositories.UserRepository, hub Broadcaster, notifier Notifier) *TruthDareService {
	return &TruthDareService{sessions: sessions, users: users, hub: hub, notifier: notifier, now: time.Now}
}

// StartTruthDare opens a session with the caller to ask first.
func (s *TruthDareService) StartTruthDare(ctx context.Context, userID, opponentID int64) (models.TruthDareSession, error) {
	session, err := games.NewTruthDare(userID, opponentID)
	if err != nil {
		return models.TruthDareSession{}, err
	}
	inviter, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return models.TruthDareSession{}, err
	}
	if !inviter.IsConnectedTo(opponentID) {
		return models.TruthDareSession{}, apperr.NotConnected
	}
	created, err := s.sessions.CreateTruthDare(ctx, session)
	if err != nil {
		return models.TruthDareSession{}, fmt.Errorf("create truth or dare: %w", err)
	}
	s.notifier.Notify(opponentID, models.NotificationGameInvite, displayName(inviter)+" invited you to truth or dare", ptr(userID))
	return created, nil
}

func (s *TruthDareService) MakeChoice(ctx context.Context, userID, sessionID int64, choice, question string) (models.TruthDareSession, error) {
	return s.step(ctx, userID, sessionID, func(session *models.TruthDareSession) error {
		return games.MakeChoice(session, userID, choice, question, s.now())
	})
}

func (s *TruthDareService) AnswerTruth(ctx context.Context, userID, sessionID int64, answer string) (models.TruthDareSession, error) {
	return s.step(ctx, userID, sessionID, func(session *models.TruthDareSession) error {
		return games.AnswerTruth(session, userID, answer)
	})
}

func (s *TruthDareService) CompleteDare(ctx context.Context, userID, sessionID int64) (models.TruthDareSession, error) {
	return s.step(ctx, userID, sessionID, func(session *models.TruthDareSession) error {
		return games.CompleteDare(session, userID)
	})
}

func (s *TruthDareService) SkipRound(ctx context.Context, userID, sessionID int64) (models.TruthDareSession, error) {
	return s.step(ctx, userID, sessionID, func(session *models.TruthDareSession) error {
		return games.SkipRound(session, userID)
	})
}

func (s *TruthDareService) EndTruthDare(ctx context.Context, userID, sessionID int64) (models.TruthDareSession, error) {
	return s.step(ctx, userID, sessionID, func(session *models.TruthDareSession) error {
		return games.EndTruthDare(session, userID)
	})
}

func (s *TruthDareService) GetTruthDare(ctx context.Context, userID, sessionID int64) (models.TruthDareSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return models.TruthDareSession{}, err
	}
	if !games.IsParticipant(&session, userID) {
		return models.TruthDareSession{}, apperr.NotPlayer
	}
	return session, nil
}

func (s *TruthDareService) ListMyTruthDare(ctx context.Context, viewerID int64) ([]models.TruthDareSession, error) {
	if viewerID == 0 {
		return []models.TruthDareSession{}, nil
	}
	return s.sessions.ListTruthDareForPlayer(ctx, viewerID)
}

func (s *TruthDareService) step(ctx context.Context, userID, sessionID int64, apply func(*models.TruthDareSession) error) (models.TruthDareSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return models.TruthDareSession{}, err
	}
	if err := apply(&session); err != nil {
		return models.TruthDareSession{}, err
	}
	saved, err := s.sessions.SaveTruthDare(ctx, session)
	if errors.Is(err, repositories.ErrTruthDareNotFound) {
		return models.TruthDareSession{}, apperr.SessionNotFound
	}
	if err != nil {
		return models.TruthDareSession{}, fmt.Errorf("save truth or dare: %w", err)
	}
	event := models.Event{Type: models.EventTruthDare, TruthDare: &saved}
	s.hub.SendToUser(saved.Player1ID, event)
	s.hub.SendToUser(saved.Player2ID, event)
	return saved, nil
}

func (s *TruthDareService) load(ctx context.Context, sessionID int64) (models.TruthDareSession, error) {
	session, err := s.sessions.GetTruthDare(ctx, sessionID)
	if errors.Is(err, repositories.ErrTruthDareNotFound) {
		return models.TruthDareSession{}, apperr.SessionNotFound
	}
	if err != nil {
		return models.TruthDareSession{}, fmt.Errorf("load truth or dare: %w", err)
	}
	return session, nil
}
