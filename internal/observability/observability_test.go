package observability

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	return m.Called(ctx, routingKey, event).Error(0)
}

func TestPublishEventWithoutPublisher(t *testing.T) {
	SetPublisher(nil)
	assert.NoError(t, PublishEvent(context.Background(), RouteUserBanned, EventEnvelope{}))
}

func TestPublishEventDelegates(t *testing.T) {
	pub := new(publisherMock)
	SetPublisher(pub)
	defer SetPublisher(nil)

	env := NewEnvelope(context.Background(), "moderation", "user_banned", "req-1", map[string]any{"user_id": 4})
	pub.On("Publish", mock.Anything, RouteUserBanned, env).Return(assert.AnError).Once()

	assert.ErrorIs(t, PublishEvent(context.Background(), RouteUserBanned, env), assert.AnError)
	pub.AssertExpectations(t)
}

func TestEmitSwallowsPublishError(t *testing.T) {
	pub := new(publisherMock)
	SetPublisher(pub)
	defer SetPublisher(nil)

	pub.On("Publish", mock.Anything, RouteGameCompleted, mock.MatchedBy(func(env EventEnvelope) bool {
		return env.EventType == "games" && env.EventName == "completed" && env.OccurredAt != ""
	})).Return(assert.AnError).Once()

	assert.NotPanics(t, func() {
		Emit(context.Background(), RouteGameCompleted, "games", "completed", "", map[string]any{"session_id": 1})
	})
	pub.AssertExpectations(t)
}

func TestClientMetaFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("X-Device-Id", "iphone-1")
	r.Header.Set("X-Request-Id", "req-9")

	meta := ClientMetaFromRequest(r)
	assert.Equal(t, "10.0.0.1", meta.IP)
	assert.Equal(t, "iphone-1", meta.DeviceID)
	assert.Equal(t, "req-9", meta.RequestID)
	assert.Equal(t, "iphone-1", meta.Fields()["device_id"])

	r.Header.Set("X-Forwarded-For", "unknown, 1.2.3.4, 10.0.0.1")
	assert.Equal(t, "1.2.3.4", ClientMetaFromRequest(r).IP)
}

func TestSplitFullMethod(t *testing.T) {
	svc, method := splitFullMethod("/grpc.health.v1.Health/Check")
	assert.Equal(t, "grpc.health.v1.Health", svc)
	assert.Equal(t, "Check", method)

	svc, method = splitFullMethod("bad")
	assert.Equal(t, "unknown", svc)
	assert.Equal(t, "unknown", method)
}
