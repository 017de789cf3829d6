package config_test

import (
	"testing"
	"time"

	"go-hris-leave/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_MAX_RETRIES", "not-a-number")
	t.Setenv("JWT_ACCESS_TTL", "")

	cfg := config.Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, 5, cfg.Database.MaxRetries)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "leave")
	t.Setenv("JWT_REFRESH_TTL", "48h")

	cfg := config.Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 48*time.Hour, cfg.JWT.RefreshTTL)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
	assert.Contains(t, cfg.Database.DSN(), "dbname=leave")
}
