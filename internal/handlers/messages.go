package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"connectibles/internal/apperr"
	"connectibles/internal/middleware"
	"connectibles/internal/services"
)

// MessageHandler serves direct messages and the gossip room.
type MessageHandler struct {
	messages *services.MessageService
	gossip   *services.GossipService
}

func NewMessageHandler(messages *services.MessageService, gossip *services.GossipService) *MessageHandler {
	return &MessageHandler{messages: messages, gossip: gossip}
}

type bodyRequest struct {
	Body string `json:"body"`
}

// SendMessage posts a direct message to :user_id.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	receiverID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var req bodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	msg, err := h.messages.SendMessage(c.Request.Context(), middleware.UserID(c), receiverID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h *MessageHandler) GetConversation(c *gin.Context) {
	otherID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	msgs, err := h.messages.GetConversation(c.Request.Context(), middleware.UserID(c), otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	otherID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	updated, err := h.messages.MarkAsRead(c.Request.Context(), middleware.UserID(c), otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	count, err := h.messages.UnreadCount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *MessageHandler) PostGossip(c *gin.Context) {
	var req bodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	msg, err := h.gossip.PostGossip(c.Request.Context(), middleware.UserID(c), req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// ListGossip accepts ?limit=, clamped by the service.
func (h *MessageHandler) ListGossip(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, apperr.InvalidInput.Withf("invalid limit"))
			return
		}
		limit = parsed
	}
	msgs, err := h.gossip.ListGossip(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *MessageHandler) DeleteGossip(c *gin.Context) {
	messageID, ok := pathID(c, "message_id")
	if !ok {
		return
	}
	if err := h.gossip.DeleteGossip(c.Request.Context(), middleware.UserID(c), messageID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
