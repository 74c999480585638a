package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"connectibles/internal/apperr"
	"connectibles/internal/telemetry"
)

type socketStats interface {
	Stats() (users, sockets int)
}

// RegisterDebugRoutes mounts /debug endpoints when enabled. They carry no
// auth and must stay off in production.
func RegisterDebugRoutes(router *gin.Engine, emitter *telemetry.AuditEmitter, hub socketStats, enabled bool) {
	if !enabled {
		return
	}
	debug := router.Group("/debug")

	// Sends one audit record through the broker so the pipeline can be checked end to end.
	debug.POST("/audit-probe", func(c *gin.Context) {
		if emitter == nil {
			respondError(c, apperr.New("AUDIT_DISABLED", http.StatusServiceUnavailable, "audit emitter not configured"))
			return
		}
		emitter.Emit(c.Request.Context(), auditRecord(c, telemetry.AuditRecord{
			Action: telemetry.ActionProbe,
			Text:   "audit probe",
		}))
		c.JSON(http.StatusAccepted, gin.H{"request_id": requestIDFromContext(c)})
	})

	debug.GET("/sockets", func(c *gin.Context) {
		users, sockets := hub.Stats()
		c.JSON(http.StatusOK, gin.H{"users": users, "sockets": sockets})
	})
}
