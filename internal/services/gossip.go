package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"connectibles/internal/apperr"
	"connectibles/internal/models"
	"connectibles/internal/observability"
	"connectibles/internal/repositories"
)

const (
	DefaultGossipLimit = 50
	MaxGossipLimit     = 100
)

// GossipService is the single public group chat.
type GossipService struct {
	gossip repositories.GossipRepository
	hub    Broadcaster
}

func NewGossipService(gossip repositories.GossipRepository, hub Broadcaster) *GossipService {
	return &GossipService{gossip: gossip, hub: hub}
}

func (s *GossipService) PostGossip(ctx context.Context, senderID int64, body string) (models.GossipMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return models.GossipMessage{}, apperr.EmptyMessage
	}
	if utf8.RuneCountInString(body) > maxMessageLength {
		return models.GossipMessage{}, apperr.InvalidInput.Withf("message is longer than %d characters", maxMessageLength)
	}
	msg, err := s.gossip.CreateGossip(ctx, senderID, body)
	if err != nil {
		return models.GossipMessage{}, fmt.Errorf("store gossip: %w", err)
	}
	observability.IncMessageSent("gossip")
	s.hub.Broadcast(models.Event{Type: models.EventGossip, Gossip: &msg})
	return msg, nil
}

// ListGossip clamps limit to [1, MaxGossipLimit]; zero means the default.
func (s *GossipService) ListGossip(ctx context.Context, viewerID int64, limit int) ([]models.GossipMessage, error) {
	if viewerID == 0 {
		return []models.GossipMessage{}, nil
	}
	switch {
	case limit <= 0:
		limit = DefaultGossipLimit
	case limit > MaxGossipLimit:
		limit = MaxGossipLimit
	}
	return s.gossip.ListRecent(ctx, limit)
}

// DeleteGossip removes a message for everyone. Only its sender may do so.
func (s *GossipService) DeleteGossip(ctx context.Context, userID, messageID int64) error {
	msg, err := s.gossip.GetGossip(ctx, messageID)
	if errors.Is(err, repositories.ErrMessageNotFound) || (err == nil && msg.DeletedForAll) {
		return apperr.NotFound.Withf("message not found")
	}
	if err != nil {
		return fmt.Errorf("load gossip: %w", err)
	}
	if msg.SenderID != userID {
		return apperr.Forbidden.Withf("only the sender can delete this message")
	}
	if err := s.gossip.DeleteForAll(ctx, messageID, userID); err != nil {
		return fmt.Errorf("delete gossip: %w", err)
	}
	s.hub.Broadcast(models.Event{Type: models.EventGossipDelete, MessageID: messageID})
	return nil
}
