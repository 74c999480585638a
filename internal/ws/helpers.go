package ws

import (
	"context"

	"connectibles/internal/observability"
)

// Socket lifecycle events.
const (
	eventConnect    = "ws_connect"
	eventDisconnect = "ws_disconnect"
	eventError      = "ws_error"
)

func publishWSEvent(ctx context.Context, event string, info ConnInfo, reason string) {
	observability.IncWSEvent(event)
	observability.Emit(ctx, observability.RouteWSEvents, "ws_events", event, info.Client.RequestID, info.eventPayload(event, reason))
}
