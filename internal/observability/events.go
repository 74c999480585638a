package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Routing keys.
const (
	RouteUserBanned    = "moderation.user_banned"
	RouteGameCompleted = "games.completed"
	RouteWSEvents      = "ws_events.users"
)

type EventEnvelope struct {
	EventType  string      `json:"event_type"`
	EventName  string      `json:"event_name"`
	OccurredAt string      `json:"occurred_at"`
	RequestID  string      `json:"request_id,omitempty"`
	TraceID    string      `json:"trace_id,omitempty"`
	Payload    interface{} `json:"payload"`
}

// NewEnvelope stamps an envelope with the time and the trace id found in ctx.
func NewEnvelope(ctx context.Context, eventType, eventName, requestID string, payload interface{}) EventEnvelope {
	env := EventEnvelope{
		EventType:  eventType,
		EventName:  eventName,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
		RequestID:  requestID,
		Payload:    payload,
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		env.TraceID = sc.TraceID().String()
	}
	return env
}

// Correlation exposes the ids copied into transport headers.
func (e EventEnvelope) Correlation() (requestID, traceID string) {
	return e.RequestID, e.TraceID
}
