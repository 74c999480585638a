package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"connectibles/internal/apperr"
)

// respondError writes {"error": "CODE: message", "code": "CODE"}. Anything that
// is not a domain error is logged and answered as INTERNAL.
func respondError(c *gin.Context, err error) {
	e := apperr.From(err)
	if e.Code == apperr.Internal.Code {
		log.Error().Err(err).
			Str("request_id", requestIDFromContext(c)).
			Str("route", c.FullPath()).
			Msg("request failed")
	}
	c.JSON(e.Status, gin.H{"error": e.Error(), "code": e.Code})
}

func respondBindError(c *gin.Context, err error) {
	respondError(c, apperr.InvalidInput.Withf("%v", err))
}

// pathID parses an int64 path parameter, answering INVALID_INPUT on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apperr.InvalidInput.Withf("invalid %s", name))
		return 0, false
	}
	return id, true
}
