package ws

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"connectibles/internal/observability"
)

// ConnInfo describes one live socket of an authenticated user.
type ConnInfo struct {
	ConnID      string
	UserID      int64
	Client      observability.ClientMeta
	ConnectedAt time.Time
}

func newConnInfo(r *http.Request, userID int64) ConnInfo {
	return ConnInfo{
		ConnID:      uuid.NewString(),
		UserID:      userID,
		Client:      observability.ClientMetaFromRequest(r),
		ConnectedAt: time.Now(),
	}
}

func (i ConnInfo) eventPayload(event, reason string) map[string]any {
	identity := i.Client.Fields()
	identity["user_id"] = i.UserID
	return map[string]any{
		"ws": map[string]any{
			"event":       event,
			"conn_id":     i.ConnID,
			"duration_ms": time.Since(i.ConnectedAt).Milliseconds(),
			"reason":      reason,
		},
		"identity": identity,
	}
}
