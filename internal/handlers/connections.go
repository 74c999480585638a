package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"connectibles/internal/middleware"
	"connectibles/internal/models"
	"connectibles/internal/services"
)

// ConnectionHandler exposes waves and connection requests.
type ConnectionHandler struct {
	connections *services.ConnectionService
}

func NewConnectionHandler(connections *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connections: connections}
}

func (h *ConnectionHandler) SendWave(c *gin.Context) {
	h.sendTo(c, h.connections.SendWave)
}

func (h *ConnectionHandler) SendConnectionRequest(c *gin.Context) {
	h.sendTo(c, h.connections.SendConnectionRequest)
}

func (h *ConnectionHandler) AcceptConnectionRequest(c *gin.Context) {
	h.respondTo(c, h.connections.AcceptConnectionRequest)
}

func (h *ConnectionHandler) RejectConnectionRequest(c *gin.Context) {
	h.respondTo(c, h.connections.RejectConnectionRequest)
}

func (h *ConnectionHandler) RemoveConnection(c *gin.Context) {
	otherID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if err := h.connections.RemoveConnection(c.Request.Context(), middleware.UserID(c), otherID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	users, err := h.connections.ListConnections(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connections": users})
}

func (h *ConnectionHandler) ListIncomingRequests(c *gin.Context) {
	requests, err := h.connections.ListIncomingRequests(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// GetConnectionStatus answers {"status": null} for anonymous callers.
func (h *ConnectionHandler) GetConnectionStatus(c *gin.Context) {
	otherID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	state, err := h.connections.GetConnectionStatus(c.Request.Context(), middleware.UserID(c), otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": state})
}

type requestAction func(ctx context.Context, userID, id int64) (models.ConnectionRequest, error)

func (h *ConnectionHandler) sendTo(c *gin.Context, action requestAction) {
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	req, err := action(c.Request.Context(), middleware.UserID(c), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req})
}

func (h *ConnectionHandler) respondTo(c *gin.Context, action requestAction) {
	requestID, ok := pathID(c, "request_id")
	if !ok {
		return
	}
	req, err := action(c.Request.Context(), middleware.UserID(c), requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}
