// Package push delivers notifications to iOS devices over APNs.
package push

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"

	"connectibles/internal/config"
	"connectibles/internal/models"
)

// Pusher sends a notification to one device.
type Pusher interface {
	Push(ctx context.Context, deviceToken string, n models.Notification) error
}

// NewPusher returns an APNs pusher, or a noop when APNs is not configured or
// the signing key cannot be loaded.
func NewPusher(cfg config.APNsConfig) Pusher {
	if cfg.KeyPath == "" {
		log.Info().Msg("apns disabled, using noop: empty key path")
		return noopPusher{}
	}
	authKey, err := token.AuthKeyFromFile(cfg.KeyPath)
	if err != nil {
		log.Error().Err(err).Msg("apns disabled, using noop")
		return noopPusher{}
	}
	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	})
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}
	return &APNsPusher{client: client, topic: cfg.Topic}
}

type APNsPusher struct {
	client *apns2.Client
	topic  string
}

func (p *APNsPusher) Push(ctx context.Context, deviceToken string, n models.Notification) error {
	res, err := p.client.PushWithContext(ctx, BuildNotification(p.topic, deviceToken, n))
	if err != nil {
		return fmt.Errorf("apns push: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("apns push rejected: %d %s", res.StatusCode, res.Reason)
	}
	return nil
}

// BuildNotification maps a stored notification to an APNs request.
func BuildNotification(topic, deviceToken string, n models.Notification) *apns2.Notification {
	p := payload.NewPayload().
		AlertTitle("Connectibles").
		AlertBody(n.Message).
		Sound("default").
		Custom("type", n.Type).
		Custom("notification_id", n.ID)
	if n.RelatedUserID != nil {
		p = p.Custom("related_user_id", *n.RelatedUserID)
	}
	return &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       topic,
		Payload:     p,
	}
}

type noopPusher struct{}

func (noopPusher) Push(_ context.Context, deviceToken string, n models.Notification) error {
	log.Debug().Int64("notification_id", n.ID).Str("type", n.Type).Msg("apns noop push")
	return nil
}
