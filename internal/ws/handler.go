package ws

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"connectibles/internal/apperr"
	"connectibles/internal/observability"
)

type tokenParser interface {
	Parse(token string) (int64, error)
}

// Handler upgrades authenticated clients onto the live event channel.
type Handler struct {
	hub    *Hub
	tokens tokenParser
}

// NewHandler constructs a Handler.
func NewHandler(hub *Hub, tokens tokenParser) *Handler {
	return &Handler{hub: hub, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates by bearer header or ?token= and keeps the socket open
// until the client goes away. Inbound frames are ignored.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("connectibles/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := c.Query("token")
	if header := c.GetHeader("Authorization"); header != "" {
		token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	userID, err := h.tokens.Parse(token)
	if err != nil {
		e := apperr.AuthRequired
		c.JSON(e.Status, gin.H{"error": e.Error(), "code": e.Code})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("websocket upgrade failed")
		return
	}
	info := newConnInfo(c.Request, userID)
	client := h.hub.Register(conn, info)
	observability.IncWSActive()
	publishWSEvent(ctx, eventConnect, info, "")

	go func() {
		var closeReason string
		defer func() {
			h.hub.Unregister(client)
			observability.DecWSActive()
			publishWSEvent(ctx, eventDisconnect, info, closeReason)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					publishWSEvent(ctx, eventError, info, closeReason)
				}
				return
			}
		}
	}()
}
