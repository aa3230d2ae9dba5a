package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum environment for LoadConfig to succeed.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "boardgames")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10, cfg.Database.PoolSize)
	assert.Equal(t, "./migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiration)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
}

func TestLoadConfigAggregatesMissingRequired(t *testing.T) {
	for _, key := range []string{"DB_USER", "DB_PASSWORD", "DB_NAME", "JWT_SECRET"} {
		t.Setenv(key, "")
	}

	_, err := LoadConfig()
	require.Error(t, err)

	msg := err.Error()
	for _, key := range []string{"DB_USER", "DB_PASSWORD", "DB_NAME", "JWT_SECRET"} {
		assert.Contains(t, msg, key)
	}
}

func TestLoadConfigRejectsBadInt(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PORT", "not-a-number")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PORT")
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_EXPIRATION", "one day")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_EXPIRATION")
}

func TestLoadConfigParsesDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_EXPIRATION", "30m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenExpiration)
}

func TestClampPoolSize(t *testing.T) {
	assert.Equal(t, 5, clampPoolSize(1))
	assert.Equal(t, 5, clampPoolSize(5))
	assert.Equal(t, 42, clampPoolSize(42))
	assert.Equal(t, 100, clampPoolSize(500))
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, parseOrigins(""))
	assert.Equal(t, []string{"*"}, parseOrigins(" , ,"))
	assert.Equal(t,
		[]string{"http://localhost:5173", "https://games.example.com"},
		parseOrigins(" http://localhost:5173 , https://games.example.com "))
}

func TestLoadConfigOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Server.AllowedOrigins, 2)
	assert.True(t, strings.HasPrefix(cfg.Server.AllowedOrigins[0], "https://"))
}
