package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"connectibles/internal/services"
)

type ChillHandler struct {
	chill *services.ChillService
}

func NewChillHandler(chill *services.ChillService) *ChillHandler {
	return &ChillHandler{chill: chill}
}

// CreateChillPost never records who posted.
func (h *ChillHandler) CreateChillPost(c *gin.Context) {
	var req struct {
		Body string  `json:"body"`
		Mood *string `json:"mood"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	post, err := h.chill.CreateChillPost(c.Request.Context(), req.Body, req.Mood)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *ChillHandler) ListChillPosts(c *gin.Context) {
	posts, err := h.chill.ListChillPosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}
