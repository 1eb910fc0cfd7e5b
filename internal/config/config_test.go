package config

import (
	"testing"
	"time"

	"so101builder/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/so101")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("SESSION_EXPIRY_DAYS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 2, cfg.Search.Retries)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.Expiry())
	assert.Equal(t, defaultCORSOrigins, cfg.CORS.Origins)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/so101")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PRICE_SEARCH_RETRIES", "5")
	t.Setenv("PRICE_CACHE_TTL", "15m")
	t.Setenv("SESSION_EXPIRY_DAYS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
	assert.Equal(t, 5, cfg.Search.Retries)
	assert.Equal(t, 15*time.Minute, cfg.Search.CacheTTL)
	assert.Equal(t, 7, cfg.Session.ExpiryDays)
}

func TestStorageEnabled(t *testing.T) {
	assert.False(t, StorageConfig{}.Enabled())
	assert.True(t, StorageConfig{
		Endpoint: "https://r2.example", AccessKey: "a", SecretKey: "s", Bucket: "b",
	}.Enabled())
}
