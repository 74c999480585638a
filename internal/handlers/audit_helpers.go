package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"connectibles/internal/middleware"
	"connectibles/internal/telemetry"
)

// requestIDFromContext returns the id set by middleware.RequestID, minting one
// for routers mounted without it.
func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	id := uuid.NewString()
	c.Set(middleware.RequestIDKey, id)
	return id
}

// auditRecord stamps rec with the request id and, for authenticated callers,
// the actor.
func auditRecord(c *gin.Context, rec telemetry.AuditRecord) telemetry.AuditRecord {
	rec.RequestID = requestIDFromContext(c)
	if rec.ActorID == nil {
		if userID := middleware.UserID(c); userID != 0 {
			rec.ActorID = &userID
		}
	}
	return rec
}
