package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"connectibles/internal/apperr"
	"connectibles/internal/middleware"
	"connectibles/internal/models"
	"connectibles/internal/services"
	"connectibles/internal/telemetry"
)

// UserHandler manages profiles, block lists and avatars.
type UserHandler struct {
	users    *services.UserService
	matches  *services.MatchService
	audit    *telemetry.AuditEmitter
	adminKey string
}

func NewUserHandler(users *services.UserService, matches *services.MatchService, audit *telemetry.AuditEmitter, adminKey string) *UserHandler {
	return &UserHandler{users: users, matches: matches, audit: audit, adminKey: adminKey}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.users.GetMe(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetUser answers {"user": null} for anonymous callers.
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	profile, err := h.users.GetUser(c.Request.Context(), middleware.UserID(c), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) FindMatches(c *gin.Context) {
	matches, err := h.matches.FindMatches(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.UserID(c), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) RegisterPushToken(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.users.RegisterPushToken(c.Request.Context(), middleware.UserID(c), req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RequestAvatarUpload hands out a presigned PUT URL.
func (h *UserHandler) RequestAvatarUpload(c *gin.Context) {
	var req struct {
		ContentType string `json:"contentType" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	upload, err := h.users.RequestAvatarUpload(c.Request.Context(), middleware.UserID(c), req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

func (h *UserHandler) ConfirmAvatar(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.users.ConfirmAvatar(c.Request.Context(), middleware.UserID(c), req.URL); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatarUrl": req.URL})
}

func (h *UserHandler) BlockUser(c *gin.Context) {
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if err := h.users.BlockUser(c.Request.Context(), middleware.UserID(c), targetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "blocked"})
}

func (h *UserHandler) UnblockUser(c *gin.Context) {
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if err := h.users.UnblockUser(c.Request.Context(), middleware.UserID(c), targetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unblocked"})
}

func (h *UserHandler) ListBlocked(c *gin.Context) {
	blocked, err := h.users.ListBlocked(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": blocked})
}

// AdminWipeUsers deletes every account. Requires X-Admin-Key; an empty
// configured key disables the endpoint.
func (h *UserHandler) AdminWipeUsers(c *gin.Context) {
	key := c.GetHeader("X-Admin-Key")
	if h.adminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.adminKey)) != 1 {
		respondError(c, apperr.Forbidden.Withf("invalid admin key"))
		return
	}
	deleted, err := h.users.AdminWipeUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit.Emit(c.Request.Context(), auditRecord(c, telemetry.AuditRecord{
		Action: telemetry.ActionAdminWipe,
		Level:  telemetry.LevelWarn,
		Text:   fmt.Sprintf("admin wiped %d users", deleted),
	}))
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
