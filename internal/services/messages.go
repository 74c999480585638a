package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"connectibles/internal/apperr"
	"connectibles/internal/models"
	"connectibles/internal/observability"
	"connectibles/internal/repositories"
)

const maxMessageLength = 2000

// MessageService handles direct messages between connected users.
type MessageService struct {
	users    repositories.UserRepository
	messages repositories.MessageRepository
	hub      Broadcaster
	notifier Notifier
}

func NewMessageService(users repositories.UserRepository, messages repositories.MessageRepository, hub Broadcaster, notifier Notifier) *MessageService {
	return &MessageService{users: users, messages: messages, hub: hub, notifier: notifier}
}

func (s *MessageService) SendMessage(ctx context.Context, senderID, receiverID int64, body string) (models.Message, error) {
	if senderID == receiverID {
		return models.Message{}, apperr.SelfMessage
	}
	receiver, err := loadUser(ctx, s.users, receiverID)
	if err != nil {
		return models.Message{}, err
	}
	sender, err := loadUser(ctx, s.users, senderID)
	if err != nil {
		return models.Message{}, err
	}
	if eitherBlocked(sender, receiver) {
		return models.Message{}, apperr.BlockedUser
	}
	if !sender.IsConnectedTo(receiverID) {
		return models.Message{}, apperr.NotConnected
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return models.Message{}, apperr.EmptyMessage
	}
	if utf8.RuneCountInString(body) > maxMessageLength {
		return models.Message{}, apperr.InvalidInput.Withf("message is longer than %d characters", maxMessageLength)
	}

	msg, err := s.messages.CreateMessage(ctx, senderID, receiverID, body)
	if err != nil {
		return models.Message{}, fmt.Errorf("store message: %w", err)
	}
	observability.IncMessageSent("direct")

	event := models.Event{Type: models.EventMessage, Message: &msg}
	s.hub.SendToUser(receiverID, event)
	s.hub.SendToUser(senderID, event)
	s.notifier.Notify(receiverID, models.NotificationMessage, displayName(sender)+" sent you a message", ptr(senderID))
	return msg, nil
}

// GetConversation returns both directions, oldest first.
func (s *MessageService) GetConversation(ctx context.Context, viewerID, otherID int64) ([]models.Message, error) {
	if viewerID == 0 {
		return []models.Message{}, nil
	}
	return s.messages.ListConversation(ctx, viewerID, otherID)
}

// MarkAsRead marks messages from otherID to the caller as read.
func (s *MessageService) MarkAsRead(ctx context.Context, userID, otherID int64) (int64, error) {
	return s.messages.MarkRead(ctx, userID, otherID)
}

func (s *MessageService) UnreadCount(ctx context.Context, viewerID int64) (int, error) {
	if viewerID == 0 {
		return 0, nil
	}
	return s.messages.CountUnread(ctx, viewerID)
}
