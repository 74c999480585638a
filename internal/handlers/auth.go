package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"connectibles/internal/services"
	"connectibles/internal/telemetry"
)

// AuthHandler serves the passwordless login endpoints.
type AuthHandler struct {
	auth  *services.AuthService
	audit *telemetry.AuditEmitter
}

func NewAuthHandler(auth *services.AuthService, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{auth: auth, audit: audit}
}

// RequestOTP emails a login code.
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.auth.RequestOTP(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// VerifyOTP exchanges a code for a session token.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	login, err := h.auth.VerifyOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	userID := login.User.ID
	h.audit.Emit(c.Request.Context(), auditRecord(c, telemetry.AuditRecord{
		Action:  telemetry.ActionLogin,
		Text:    fmt.Sprintf("login new_user=%t", login.NewUser),
		ActorID: &userID,
	}))
	c.JSON(http.StatusOK, login)
}
