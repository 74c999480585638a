package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8083, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Jobs.ChillCleanupInterval)
	assert.Equal(t, "campus.edu", cfg.Auth.AllowedDomain)
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("server:\n  port: 9000\nauth:\n  jwt_secret: fromfile\n  allowed_domain: uni.edu\n  otp_ttl: 5m\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))
	t.Setenv("PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "fromfile", cfg.Auth.JWTSecret)
	assert.Equal(t, "uni.edu", cfg.Auth.AllowedDomain)
	assert.Equal(t, 5*time.Minute, cfg.Auth.OTPTTL)
	assert.Equal(t, 10*time.Second, cfg.Jobs.TaskTimeout)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "abc")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
