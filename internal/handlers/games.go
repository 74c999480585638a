package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"connectibles/internal/middleware"
	"connectibles/internal/services"
)

// GameHandler serves game sessions, tic-tac-toe AI moves and truth or dare.
type GameHandler struct {
	games     *services.GameService
	truthDare *services.TruthDareService
}

func NewGameHandler(games *services.GameService, truthDare *services.TruthDareService) *GameHandler {
	return &GameHandler{games: games, truthDare: truthDare}
}

func (h *GameHandler) StartGame(c *gin.Context) {
	var req services.StartGameInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	session, err := h.games.StartGame(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// UpdateGameState replaces the session state; a result ends the game.
func (h *GameHandler) UpdateGameState(c *gin.Context) {
	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	var req services.UpdateGameInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	session, err := h.games.UpdateGameState(c.Request.Context(), middleware.UserID(c), sessionID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *GameHandler) PlayTicTacToeMove(c *gin.Context) {
	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	var req struct {
		Cell *int `json:"cell" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := h.games.PlayTicTacToeMove(c.Request.Context(), middleware.UserID(c), sessionID, *req.Cell)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *GameHandler) GetGame(c *gin.Context) {
	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	session, err := h.games.GetGame(c.Request.Context(), middleware.UserID(c), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *GameHandler) ListMyGames(c *gin.Context) {
	sessions, err := h.games.ListMyGames(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *GameHandler) GetMyStats(c *gin.Context) {
	stats, err := h.games.GetMyStats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *GameHandler) Leaderboard(c *gin.Context) {
	entries, err := h.games.Leaderboard(c.Request.Context(), c.Param("game_type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (h *GameHandler) StartTruthDare(c *gin.Context) {
	var req struct {
		OpponentID int64 `json:"opponentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	session, err := h.truthDare.StartTruthDare(c.Request.Context(), middleware.UserID(c), req.OpponentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

func (h *GameHandler) MakeChoice(c *gin.Context) {
	var req struct {
		Choice   string `json:"choice" binding:"required"`
		Question string `json:"question"`
	}
	h.truthDareStep(c, &req, func(ctx *gin.Context, userID, sessionID int64) (any, error) {
		return h.truthDare.MakeChoice(ctx.Request.Context(), userID, sessionID, req.Choice, req.Question)
	})
}

func (h *GameHandler) AnswerTruth(c *gin.Context) {
	var req struct {
		Answer string `json:"answer"`
	}
	h.truthDareStep(c, &req, func(ctx *gin.Context, userID, sessionID int64) (any, error) {
		return h.truthDare.AnswerTruth(ctx.Request.Context(), userID, sessionID, req.Answer)
	})
}

func (h *GameHandler) CompleteDare(c *gin.Context) {
	h.truthDareStep(c, nil, func(ctx *gin.Context, userID, sessionID int64) (any, error) {
		return h.truthDare.CompleteDare(ctx.Request.Context(), userID, sessionID)
	})
}

func (h *GameHandler) SkipRound(c *gin.Context) {
	h.truthDareStep(c, nil, func(ctx *gin.Context, userID, sessionID int64) (any, error) {
		return h.truthDare.SkipRound(ctx.Request.Context(), userID, sessionID)
	})
}

func (h *GameHandler) EndTruthDare(c *gin.Context) {
	h.truthDareStep(c, nil, func(ctx *gin.Context, userID, sessionID int64) (any, error) {
		return h.truthDare.EndTruthDare(ctx.Request.Context(), userID, sessionID)
	})
}

func (h *GameHandler) GetTruthDare(c *gin.Context) {
	h.truthDareStep(c, nil, func(ctx *gin.Context, userID, sessionID int64) (any, error) {
		return h.truthDare.GetTruthDare(ctx.Request.Context(), userID, sessionID)
	})
}

func (h *GameHandler) ListMyTruthDare(c *gin.Context) {
	sessions, err := h.truthDare.ListMyTruthDare(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// truthDareStep parses :session_id and the optional body, then runs step.
func (h *GameHandler) truthDareStep(c *gin.Context, body any, step func(*gin.Context, int64, int64) (any, error)) {
	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	if body != nil {
		if err := c.ShouldBindJSON(body); err != nil {
			respondBindError(c, err)
			return
		}
	}
	session, err := step(c, middleware.UserID(c), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}
