package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"connectibles/internal/middleware"
	"connectibles/internal/moderation"
	"connectibles/internal/services"
	"connectibles/internal/telemetry"
)

type ReportHandler struct {
	reports *services.ReportService
	audit   *telemetry.AuditEmitter
}

func NewReportHandler(reports *services.ReportService, audit *telemetry.AuditEmitter) *ReportHandler {
	return &ReportHandler{reports: reports, audit: audit}
}

// ReportUser files a report against :user_id and returns the new total.
func (h *ReportHandler) ReportUser(c *gin.Context) {
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var req struct {
		Reason *string `json:"reason" binding:"omitempty,max=500"`
	}
	// The body is optional.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}
	res, err := h.reports.ReportUser(c.Request.Context(), middleware.UserID(c), targetID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	if res.Action == moderation.Ban.String() {
		h.audit.Emit(c.Request.Context(), auditRecord(c, telemetry.AuditRecord{
			Action:   telemetry.ActionUserBanned,
			Level:    telemetry.LevelWarn,
			Text:     fmt.Sprintf("banned after %d reports", res.Count),
			TargetID: &targetID,
		}))
	}
	c.JSON(http.StatusCreated, res)
}
