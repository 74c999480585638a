package observability

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Publisher is the event sink shared by domain and websocket events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

var (
	publisherMu      sync.RWMutex
	defaultPublisher Publisher
)

// SetPublisher replaces the process-wide sink. nil disables publishing.
func SetPublisher(publisher Publisher) {
	publisherMu.Lock()
	defaultPublisher = publisher
	publisherMu.Unlock()
}

func currentPublisher() Publisher {
	publisherMu.RLock()
	defer publisherMu.RUnlock()
	return defaultPublisher
}

// PublishEvent sends event on the default publisher, if one is set.
func PublishEvent(ctx context.Context, routingKey string, event EventEnvelope) error {
	publisher := currentPublisher()
	if publisher == nil {
		return nil
	}
	if err := publisher.Publish(ctx, routingKey, event); err != nil {
		IncAMQPPublishError()
		return err
	}
	return nil
}

// Emit wraps payload in an envelope and publishes it. A failed publish is
// logged and counted; callers never see it.
func Emit(ctx context.Context, routingKey, eventType, eventName, requestID string, payload any) {
	env := NewEnvelope(ctx, eventType, eventName, requestID, payload)
	if err := PublishEvent(ctx, routingKey, env); err != nil {
		log.Error().Err(err).
			Str("routing_key", routingKey).
			Str("event_name", eventName).
			Msg("event publish failed")
	}
}
