package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jmoiron/sqlx/types"

	"connectibles/internal/apperr"
	"connectibles/internal/games"
	"connectibles/internal/jobs"
	"connectibles/internal/models"
	"connectibles/internal/observability"
	"connectibles/internal/repositories"
)

const leaderboardSize = 20

// GameService owns game sessions. UpdateGameState is the only path that
// mutates a session.
type GameService struct {
	games      repositories.GameRepository
	users      repositories.UserRepository
	hub        Broadcaster
	notifier   Notifier
	dispatcher jobs.Dispatcher

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewGameService(gameRepo repositories.GameRepository, users repositories.UserRepository, hub Broadcaster, notifier Notifier, dispatcher jobs.Dispatcher) *GameService {
	return &GameService{
		games:      gameRepo,
		users:      users,
		hub:        hub,
		notifier:   notifier,
		dispatcher: dispatcher,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type StartGameInput struct {
	GameType   string  `json:"gameType" binding:"required"`
	Difficulty *string `json:"difficulty"`
	OpponentID *int64  `json:"opponentId"`
}

type UpdateGameInput struct {
	State    json.RawMessage `json:"state" binding:"required"`
	Result   *string         `json:"result"`
	WinnerID *int64          `json:"winnerId"`
}

type MoveResult struct {
	Session models.GameSession `json:"session"`
	AIMove  *int               `json:"aiMove,omitempty"`
}

type LeaderboardEntry struct {
	User   models.PublicProfile `json:"user"`
	Wins   int                  `json:"wins"`
	Losses int                  `json:"losses"`
	Draws  int                  `json:"draws"`
}

func (s *GameService) StartGame(ctx context.Context, userID int64, in StartGameInput) (models.GameSession, error) {
	if !games.IsKnown(in.GameType) {
		return models.GameSession{}, apperr.InvalidGameType.Withf("unknown game type %q", in.GameType)
	}
	player, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return models.GameSession{}, err
	}
	if in.OpponentID != nil {
		if *in.OpponentID == userID {
			return models.GameSession{}, apperr.SelfInvite
		}
		if !player.IsConnectedTo(*in.OpponentID) {
			return models.GameSession{}, apperr.NotConnected
		}
	}

	var difficulty *string
	switch {
	case in.Difficulty != nil:
		d, err := games.ParseDifficulty(*in.Difficulty)
		if err != nil {
			return models.GameSession{}, err
		}
		difficulty = ptr(string(d))
	case in.GameType == games.TicTacToe && in.OpponentID == nil:
		return models.GameSession{}, apperr.InvalidDifficulty.Withf("difficulty is required against the AI")
	}

	state, err := games.InitialState(in.GameType)
	if err != nil {
		return models.GameSession{}, err
	}
	raw, err := games.EncodeState(state)
	if err != nil {
		return models.GameSession{}, err
	}
	session, err := s.games.CreateSession(ctx, models.GameSession{
		GameType:   in.GameType,
		PlayerID:   userID,
		OpponentID: in.OpponentID,
		Status:     models.GameInProgress,
		State:      types.JSONText(raw),
		Difficulty: difficulty,
	})
	if err != nil {
		return models.GameSession{}, fmt.Errorf("create session: %w", err)
	}
	if in.OpponentID != nil {
		s.notifier.Notify(*in.OpponentID, models.NotificationGameInvite, displayName(player)+" invited you to a game", ptr(userID))
	}
	return session, nil
}

// UpdateGameState replaces the state. A result completes the session and
// schedules the stats update.
func (s *GameService) UpdateGameState(ctx context.Context, userID, sessionID int64, in UpdateGameInput) (models.GameSession, error) {
	session, err := s.activeSession(ctx, userID, sessionID)
	if err != nil {
		return models.GameSession{}, err
	}
	state, err := games.DecodeState(session.GameType, in.State)
	if err != nil {
		return models.GameSession{}, err
	}
	return s.apply(ctx, session, state, in.Result, in.WinnerID)
}

// PlayTicTacToeMove plays the human move and, unless the game ended, the
// AI reply.
func (s *GameService) PlayTicTacToeMove(ctx context.Context, userID, sessionID int64, cell int) (MoveResult, error) {
	session, err := s.activeSession(ctx, userID, sessionID)
	if err != nil {
		return MoveResult{}, err
	}
	if session.GameType != games.TicTacToe {
		return MoveResult{}, apperr.InvalidGameType.Withf("session %d is not tic-tac-toe", sessionID)
	}
	if session.OpponentID != nil || session.Difficulty == nil {
		return MoveResult{}, apperr.InvalidMove.Withf("AI moves are only available in games against the AI")
	}
	difficulty, err := games.ParseDifficulty(*session.Difficulty)
	if err != nil {
		return MoveResult{}, err
	}
	decoded, err := games.DecodeState(games.TicTacToe, session.State)
	if err != nil {
		return MoveResult{}, err
	}
	state := decoded.(games.TicTacToeState)

	board, err := state.Board.Place(cell, games.Human)
	if err != nil {
		return MoveResult{}, err
	}
	var result *string
	var aiMove *int
	switch {
	case board.Winner() == games.Human:
		result = ptr(models.ResultWin)
	case board.Draw():
		result = ptr(models.ResultDraw)
	default:
		s.rngMu.Lock()
		move := games.AIMove(board, difficulty, s.rng)
		s.rngMu.Unlock()
		if board, err = board.Place(move, games.AI); err != nil {
			return MoveResult{}, err
		}
		aiMove = &move
		switch {
		case board.Winner() == games.AI:
			result = ptr(models.ResultLoss)
		case board.Draw():
			result = ptr(models.ResultDraw)
		}
	}

	updated, err := s.apply(ctx, session, games.TicTacToeState{Board: board, Turn: games.Human}, result, nil)
	if err != nil {
		return MoveResult{}, err
	}
	return MoveResult{Session: updated, AIMove: aiMove}, nil
}

func (s *GameService) apply(ctx context.Context, session models.GameSession, state games.State, result *string, winnerID *int64) (models.GameSession, error) {
	raw, err := games.EncodeState(state)
	if err != nil {
		return models.GameSession{}, err
	}
	session.State = types.JSONText(raw)

	var outcomes []games.Outcome
	if result != nil {
		outcomes, err = games.Outcomes(session, *result, winnerID)
		if err != nil {
			return models.GameSession{}, err
		}
		session.Status = models.GameCompleted
		session.Result = result
		session.WinnerID = nil
		for _, o := range outcomes {
			if o.Result == models.ResultWin {
				session.WinnerID = ptr(o.UserID)
			}
		}
	}

	updated, err := s.games.UpdateSession(ctx, session)
	if errors.Is(err, repositories.ErrSessionNotFound) {
		return models.GameSession{}, apperr.SessionNotFound
	}
	if err != nil {
		return models.GameSession{}, fmt.Errorf("update session: %w", err)
	}

	if updated.OpponentID != nil {
		event := models.Event{Type: models.EventGame, Game: &updated}
		s.hub.SendToUser(updated.PlayerID, event)
		s.hub.SendToUser(*updated.OpponentID, event)
	}
	if len(outcomes) > 0 {
		s.recordOutcomes(ctx, updated, outcomes)
	}
	return updated, nil
}

func (s *GameService) recordOutcomes(ctx context.Context, session models.GameSession, outcomes []games.Outcome) {
	observability.IncGameCompleted(session.GameType, *session.Result)
	observability.Emit(ctx, observability.RouteGameCompleted, "games", "completed", "", map[string]any{
		"session_id": session.ID,
		"game_type":  session.GameType,
		"result":     *session.Result,
		"winner_id":  session.WinnerID,
	})
	s.dispatcher.Go("game_stats", func(ctx context.Context) error {
		for _, o := range outcomes {
			if err := s.games.IncrementStats(ctx, o.UserID, session.GameType, o.Result); err != nil {
				return fmt.Errorf("increment stats for %d: %w", o.UserID, err)
			}
		}
		return nil
	})
}

// GetGame is visible to the session's players only.
func (s *GameService) GetGame(ctx context.Context, userID, sessionID int64) (models.GameSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return models.GameSession{}, err
	}
	if !session.IsPlayer(userID) {
		return models.GameSession{}, apperr.NotPlayer
	}
	return session, nil
}

func (s *GameService) ListMyGames(ctx context.Context, viewerID int64) ([]models.GameSession, error) {
	if viewerID == 0 {
		return []models.GameSession{}, nil
	}
	return s.games.ListForPlayer(ctx, viewerID)
}

func (s *GameService) GetMyStats(ctx context.Context, viewerID int64) ([]models.GameStats, error) {
	if viewerID == 0 {
		return []models.GameStats{}, nil
	}
	return s.games.GetStats(ctx, viewerID)
}

func (s *GameService) Leaderboard(ctx context.Context, gameType string) ([]LeaderboardEntry, error) {
	if !games.IsKnown(gameType) {
		return nil, apperr.InvalidGameType.Withf("unknown game type %q", gameType)
	}
	stats, err := s.games.Leaderboard(ctx, gameType, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	ids := make([]int64, 0, len(stats))
	for _, st := range stats {
		ids = append(ids, st.UserID)
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("leaderboard users: %w", err)
	}
	byID := make(map[int64]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	entries := make([]LeaderboardEntry, 0, len(stats))
	for _, st := range stats {
		u, ok := byID[st.UserID]
		if !ok {
			continue
		}
		entries = append(entries, LeaderboardEntry{User: u.Public(), Wins: st.Wins, Losses: st.Losses, Draws: st.Draws})
	}
	return entries, nil
}

func (s *GameService) loadSession(ctx context.Context, sessionID int64) (models.GameSession, error) {
	session, err := s.games.GetSession(ctx, sessionID)
	if errors.Is(err, repositories.ErrSessionNotFound) {
		return models.GameSession{}, apperr.SessionNotFound
	}
	if err != nil {
		return models.GameSession{}, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

func (s *GameService) activeSession(ctx context.Context, userID, sessionID int64) (models.GameSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return models.GameSession{}, err
	}
	if !session.IsPlayer(userID) {
		return models.GameSession{}, apperr.NotPlayer
	}
	if session.Status == models.GameCompleted {
		return models.GameSession{}, apperr.SessionCompleted
	}
	return session, nil
}
