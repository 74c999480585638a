package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"connectibles/internal/observability"
	"connectibles/internal/telemetry"
)

var (
	_ observability.Publisher = (*PublisherMock)(nil)
	_ telemetry.Publisher     = (*PublisherMock)(nil)
)

// PublisherMock stands in for the AMQP publisher.
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	return m.Called(ctx, routingKey, event).Error(0)
}

func (m *PublisherMock) Close() error {
	return m.Called().Error(0)
}

// ExpectEvent expects a domain envelope named eventName on routingKey.
func (m *PublisherMock) ExpectEvent(routingKey, eventName string) *mock.Call {
	return m.On("Publish", mock.Anything, routingKey, mock.MatchedBy(func(env observability.EventEnvelope) bool {
		return env.EventName == eventName
	}))
}
