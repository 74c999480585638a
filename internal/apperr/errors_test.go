package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorRendersCodePrefix(t *testing.T) {
	assert.Equal(t, "ALREADY_WAVED: You already waved at this user", AlreadyWaved.Error())
}

func TestIsMatchesOnCode(t *testing.T) {
	wrapped := fmt.Errorf("send wave: %w", AlreadyWaved)
	assert.ErrorIs(t, wrapped, AlreadyWaved)
	assert.ErrorIs(t, AlreadyWaved.Withf("waved at %d", 3), AlreadyWaved)
	assert.NotErrorIs(t, wrapped, AlreadyPending)
}

func TestFromFallsBackToInternal(t *testing.T) {
	e := From(assert.AnError)
	require.Equal(t, "INTERNAL", e.Code)
	assert.Equal(t, http.StatusInternalServerError, e.Status)

	e = From(fmt.Errorf("wrap: %w", SelfReport))
	assert.Equal(t, "SELF_REPORT", e.Code)
	assert.Equal(t, http.StatusBadRequest, e.Status)
}
