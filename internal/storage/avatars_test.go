package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectibles/internal/apperr"
)

func TestAvatarKey(t *testing.T) {
	key, err := avatarKey(7, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "avatars/7/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
}

func TestAvatarKeyRejectsContentType(t *testing.T) {
	_, err := avatarKey(7, "application/pdf")
	assert.ErrorIs(t, err, apperr.InvalidInput)
}

func TestHasAvatarPrefix(t *testing.T) {
	base := "https://bucket.s3.us-east-1.amazonaws.com"

	assert.True(t, hasAvatarPrefix(base, 7, base+"/avatars/7/abc.jpg"))
	assert.False(t, hasAvatarPrefix(base, 7, base+"/avatars/8/abc.jpg"))
	assert.False(t, hasAvatarPrefix(base, 7, base+"/avatars/7/"))
	assert.False(t, hasAvatarPrefix(base, 7, base+"/avatars/7/../8/abc.jpg"))
	assert.False(t, hasAvatarPrefix(base, 7, "https://evil.example/avatars/7/abc.jpg"))
}
