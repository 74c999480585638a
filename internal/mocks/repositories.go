package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"connectibles/internal/models"
	"connectibles/internal/repositories"
)

var (
	_ repositories.UserRepository         = (*UserRepositoryMock)(nil)
	_ repositories.ConnectionRepository   = (*ConnectionRepositoryMock)(nil)
	_ repositories.MessageRepository      = (*MessageRepositoryMock)(nil)
	_ repositories.GossipRepository       = (*GossipRepositoryMock)(nil)
	_ repositories.ReportRepository       = (*ReportRepositoryMock)(nil)
	_ repositories.NotificationRepository = (*NotificationRepositoryMock)(nil)
	_ repositories.GameRepository         = (*GameRepositoryMock)(nil)
	_ repositories.TruthDareRepository    = (*TruthDareRepositoryMock)(nil)
	_ repositories.ChillRepository        = (*ChillRepositoryMock)(nil)
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var out models.User
	if val := args.Get(0); val != nil {
		out = val.(models.User)
	}
	return out, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, userID int64) (models.User, error) {
	args := m.Called(ctx, userID)
	var out models.User
	if val := args.Get(0); val != nil {
		out = val.(models.User)
	}
	return out, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var out models.User
	if val := args.Get(0); val != nil {
		out = val.(models.User)
	}
	return out, args.Error(1)
}

func (m *UserRepositoryMock) ListAll(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var list []models.User
	if val := args.Get(0); val != nil {
		list = val.([]models.User)
	}
	return list, args.Error(1)
}

func (m *UserRepositoryMock) ListByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	args := m.Called(ctx, ids)
	var list []models.User
	if val := args.Get(0); val != nil {
		list = val.([]models.User)
	}
	return list, args.Error(1)
}

func (m *UserRepositoryMock) UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (models.User, error) {
	args := m.Called(ctx, userID, update)
	var out models.User
	if val := args.Get(0); val != nil {
		out = val.(models.User)
	}
	return out, args.Error(1)
}

func (m *UserRepositoryMock) AppendConnection(ctx context.Context, userID int64, otherID int64) error {
	args := m.Called(ctx, userID, otherID)
	return args.Error(0)
}

func (m *UserRepositoryMock) RemoveConnection(ctx context.Context, userID int64, otherID int64) error {
	args := m.Called(ctx, userID, otherID)
	return args.Error(0)
}

func (m *UserRepositoryMock) AppendBlocked(ctx context.Context, userID int64, targetID int64) error {
	args := m.Called(ctx, userID, targetID)
	return args.Error(0)
}

func (m *UserRepositoryMock) RemoveBlocked(ctx context.Context, userID int64, targetID int64) error {
	args := m.Called(ctx, userID, targetID)
	return args.Error(0)
}

func (m *UserRepositoryMock) SetBanned(ctx context.Context, userID int64, banned bool) error {
	args := m.Called(ctx, userID, banned)
	return args.Error(0)
}

func (m *UserRepositoryMock) TouchLastActive(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepositoryMock) SetPushToken(ctx context.Context, userID int64, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *UserRepositoryMock) SetAvatarURL(ctx context.Context, userID int64, url string) error {
	args := m.Called(ctx, userID, url)
	return args.Error(0)
}

func (m *UserRepositoryMock) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type ConnectionRepositoryMock struct {
	mock.Mock
}

func (m *ConnectionRepositoryMock) Get(ctx context.Context, senderID int64, receiverID int64) (models.ConnectionRequest, error) {
	args := m.Called(ctx, senderID, receiverID)
	var out models.ConnectionRequest
	if val := args.Get(0); val != nil {
		out = val.(models.ConnectionRequest)
	}
	return out, args.Error(1)
}

func (m *ConnectionRepositoryMock) GetByID(ctx context.Context, requestID int64) (models.ConnectionRequest, error) {
	args := m.Called(ctx, requestID)
	var out models.ConnectionRequest
	if val := args.Get(0); val != nil {
		out = val.(models.ConnectionRequest)
	}
	return out, args.Error(1)
}

func (m *ConnectionRepositoryMock) Create(ctx context.Context, senderID int64, receiverID int64, status models.ConnectionStatus) (models.ConnectionRequest, error) {
	args := m.Called(ctx, senderID, receiverID, status)
	var out models.ConnectionRequest
	if val := args.Get(0); val != nil {
		out = val.(models.ConnectionRequest)
	}
	return out, args.Error(1)
}

func (m *ConnectionRepositoryMock) UpdateStatus(ctx context.Context, requestID int64, status models.ConnectionStatus) error {
	args := m.Called(ctx, requestID, status)
	return args.Error(0)
}

func (m *ConnectionRepositoryMock) ListIncoming(ctx context.Context, receiverID int64) ([]models.ConnectionRequest, error) {
	args := m.Called(ctx, receiverID)
	var list []models.ConnectionRequest
	if val := args.Get(0); val != nil {
		list = val.([]models.ConnectionRequest)
	}
	return list, args.Error(1)
}

func (m *ConnectionRepositoryMock) DeleteBetween(ctx context.Context, userID int64, otherID int64) error {
	args := m.Called(ctx, userID, otherID)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, senderID int64, receiverID int64, body string) (models.Message, error) {
	args := m.Called(ctx, senderID, receiverID, body)
	var out models.Message
	if val := args.Get(0); val != nil {
		out = val.(models.Message)
	}
	return out, args.Error(1)
}

func (m *MessageRepositoryMock) ListConversation(ctx context.Context, userID int64, otherID int64) ([]models.Message, error) {
	args := m.Called(ctx, userID, otherID)
	var list []models.Message
	if val := args.Get(0); val != nil {
		list = val.([]models.Message)
	}
	return list, args.Error(1)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, receiverID int64, senderID int64) (int64, error) {
	args := m.Called(ctx, receiverID, senderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepositoryMock) CountUnread(ctx context.Context, receiverID int64) (int, error) {
	args := m.Called(ctx, receiverID)
	return args.Int(0), args.Error(1)
}

type GossipRepositoryMock struct {
	mock.Mock
}

func (m *GossipRepositoryMock) CreateGossip(ctx context.Context, senderID int64, body string) (models.GossipMessage, error) {
	args := m.Called(ctx, senderID, body)
	var out models.GossipMessage
	if val := args.Get(0); val != nil {
		out = val.(models.GossipMessage)
	}
	return out, args.Error(1)
}

func (m *GossipRepositoryMock) ListRecent(ctx context.Context, limit int) ([]models.GossipMessage, error) {
	args := m.Called(ctx, limit)
	var list []models.GossipMessage
	if val := args.Get(0); val != nil {
		list = val.([]models.GossipMessage)
	}
	return list, args.Error(1)
}

func (m *GossipRepositoryMock) GetGossip(ctx context.Context, messageID int64) (models.GossipMessage, error) {
	args := m.Called(ctx, messageID)
	var out models.GossipMessage
	if val := args.Get(0); val != nil {
		out = val.(models.GossipMessage)
	}
	return out, args.Error(1)
}

func (m *GossipRepositoryMock) DeleteForAll(ctx context.Context, messageID int64, senderID int64) error {
	args := m.Called(ctx, messageID, senderID)
	return args.Error(0)
}

type ReportRepositoryMock struct {
	mock.Mock
}

func (m *ReportRepositoryMock) FileReport(ctx context.Context, reporterID int64, reportedID int64, reason *string, banAt int) (repositories.FiledReport, error) {
	args := m.Called(ctx, reporterID, reportedID, reason, banAt)
	var out repositories.FiledReport
	if val := args.Get(0); val != nil {
		out = val.(repositories.FiledReport)
	}
	return out, args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	args := m.Called(ctx, n)
	var out models.Notification
	if val := args.Get(0); val != nil {
		out = val.(models.Notification)
	}
	return out, args.Error(1)
}

func (m *NotificationRepositoryMock) ListForUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	var list []models.Notification
	if val := args.Get(0); val != nil {
		list = val.([]models.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) CountUnread(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) MarkRead(ctx context.Context, notificationID int64, userID int64) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepositoryMock) DeleteNotification(ctx context.Context, notificationID int64, userID int64) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type GameRepositoryMock struct {
	mock.Mock
}

func (m *GameRepositoryMock) CreateSession(ctx context.Context, session models.GameSession) (models.GameSession, error) {
	args := m.Called(ctx, session)
	var out models.GameSession
	if val := args.Get(0); val != nil {
		out = val.(models.GameSession)
	}
	return out, args.Error(1)
}

func (m *GameRepositoryMock) GetSession(ctx context.Context, sessionID int64) (models.GameSession, error) {
	args := m.Called(ctx, sessionID)
	var out models.GameSession
	if val := args.Get(0); val != nil {
		out = val.(models.GameSession)
	}
	return out, args.Error(1)
}

func (m *GameRepositoryMock) ListForPlayer(ctx context.Context, userID int64) ([]models.GameSession, error) {
	args := m.Called(ctx, userID)
	var list []models.GameSession
	if val := args.Get(0); val != nil {
		list = val.([]models.GameSession)
	}
	return list, args.Error(1)
}

func (m *GameRepositoryMock) UpdateSession(ctx context.Context, session models.GameSession) (models.GameSession, error) {
	args := m.Called(ctx, session)
	var out models.GameSession
	switch val := args.Get(0).(type) {
	case func(context.Context, models.GameSession) models.GameSession:
		out = val(ctx, session)
	case models.GameSession:
		out = val
	}
	return out, args.Error(1)
}

func (m *GameRepositoryMock) IncrementStats(ctx context.Context, userID int64, gameType string, result string) error {
	args := m.Called(ctx, userID, gameType, result)
	return args.Error(0)
}

func (m *GameRepositoryMock) GetStats(ctx context.Context, userID int64) ([]models.GameStats, error) {
	args := m.Called(ctx, userID)
	var list []models.GameStats
	if val := args.Get(0); val != nil {
		list = val.([]models.GameStats)
	}
	return list, args.Error(1)
}

func (m *GameRepositoryMock) Leaderboard(ctx context.Context, gameType string, limit int) ([]models.GameStats, error) {
	args := m.Called(ctx, gameType, limit)
	var list []models.GameStats
	if val := args.Get(0); val != nil {
		list = val.([]models.GameStats)
	}
	return list, args.Error(1)
}

type TruthDareRepositoryMock struct {
	mock.Mock
}

func (m *TruthDareRepositoryMock) CreateTruthDare(ctx context.Context, s models.TruthDareSession) (models.TruthDareSession, error) {
	args := m.Called(ctx, s)
	var out models.TruthDareSession
	if val := args.Get(0); val != nil {
		out = val.(models.TruthDareSession)
	}
	return out, args.Error(1)
}

func (m *TruthDareRepositoryMock) GetTruthDare(ctx context.Context, sessionID int64) (models.TruthDareSession, error) {
	args := m.Called(ctx, sessionID)
	var out models.TruthDareSession
	if val := args.Get(0); val != nil {
		out = val.(models.TruthDareSession)
	}
	return out, args.Error(1)
}

func (m *TruthDareRepositoryMock) SaveTruthDare(ctx context.Context, s models.TruthDareSession) (models.TruthDareSession, error) {
	args := m.Called(ctx, s)
	var out models.TruthDareSession
	switch val := args.Get(0).(type) {
	case func(context.Context, models.TruthDareSession) models.TruthDareSession:
		out = val(ctx, s)
	case models.TruthDareSession:
		out = val
	}
	return out, args.Error(1)
}

func (m *TruthDareRepositoryMock) ListTruthDareForPlayer(ctx context.Context, userID int64) ([]models.TruthDareSession, error) {
	args := m.Called(ctx, userID)
	var list []models.TruthDareSession
	if val := args.Get(0); val != nil {
		list = val.([]models.TruthDareSession)
	}
	return list, args.Error(1)
}

type ChillRepositoryMock struct {
	mock.Mock
}

func (m *ChillRepositoryMock) CreateChillPost(ctx context.Context, body string, mood *string) (models.ChillPost, error) {
	args := m.Called(ctx, body, mood)
	var out models.ChillPost
	if val := args.Get(0); val != nil {
		out = val.(models.ChillPost)
	}
	return out, args.Error(1)
}

func (m *ChillRepositoryMock) ListSince(ctx context.Context, since time.Time) ([]models.ChillPost, error) {
	args := m.Called(ctx, since)
	var list []models.ChillPost
	if val := args.Get(0); val != nil {
		list = val.([]models.ChillPost)
	}
	return list, args.Error(1)
}

func (m *ChillRepositoryMock) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
