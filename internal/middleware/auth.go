package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"connectibles/internal/apperr"
)

// UserIDKey holds the authenticated user id (int64) in the gin context.
const UserIDKey = "userID"

type TokenParser interface {
	Parse(token string) (int64, error)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authenticate(c, tokens)
		if !ok {
			e := apperr.AuthRequired
			c.AbortWithStatusJSON(e.Status, gin.H{"error": e.Error(), "code": e.Code})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := authenticate(c, tokens); ok {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

// UserID returns the caller's id, or 0 for anonymous requests.
func UserID(c *gin.Context) int64 {
	if val, ok := c.Get(UserIDKey); ok {
		if id, ok := val.(int64); ok {
			return id
		}
	}
	return 0
}

func authenticate(c *gin.Context, tokens TokenParser) (int64, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return 0, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return 0, false
	}
	userID, err := tokens.Parse(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return userID, true
}
