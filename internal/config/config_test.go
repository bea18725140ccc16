package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_TYPE", StoreMemory)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "poll", cfg.Session.Mode)
	assert.Equal(t, 30*time.Second, cfg.Session.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.Store.RetryDelay)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileSize)
	assert.False(t, cfg.Auth.Enabled())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_TYPE", StoreFirebase)
	t.Setenv("FIREBASE_URL", "https://hr-default-rtdb.firebaseio.com/")
	t.Setenv("SESSION_POLL_INTERVAL", "5s")
	t.Setenv("FIREBASE_RETRY_DELAY", "250ms")
	t.Setenv("BUDGET_MONTH", "2025-07")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://hr-default-rtdb.firebaseio.com", cfg.Store.URL)
	assert.Equal(t, 5*time.Second, cfg.Session.PollInterval)
	assert.Equal(t, 250*time.Millisecond, cfg.Store.RetryDelay)
	assert.Equal(t, "2025-07", cfg.Analytics.BudgetMonth)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"firebase without url", map[string]string{"STORE_TYPE": StoreFirebase, "FIREBASE_URL": ""}},
		{"postgres without dsn", map[string]string{"STORE_TYPE": StorePostgres, "DATABASE_URL": ""}},
		{"unknown store", map[string]string{"STORE_TYPE": "redis"}},
		{"bad duration", map[string]string{"STORE_TYPE": StoreMemory, "SESSION_POLL_INTERVAL": "soon"}},
		{"bad port", map[string]string{"STORE_TYPE": StoreMemory, "APP_PORT": "http"}},
		{"bad budget month", map[string]string{"STORE_TYPE": StoreMemory, "BUDGET_MONTH": "July"}},
		{"budget month out of range", map[string]string{"STORE_TYPE": StoreMemory, "BUDGET_MONTH": "2025-13"}},
		{"zero retry delay", map[string]string{"STORE_TYPE": StoreFirebase, "FIREBASE_URL": "https://x.firebaseio.com", "FIREBASE_RETRY_DELAY": "0s"}},
		{"hash without secret", map[string]string{"STORE_TYPE": StoreMemory, "AUTH_ADMIN_PASSWORD_HASH": "$2a$10$x"}},
		{"bad mode", map[string]string{"STORE_TYPE": StoreMemory, "SESSION_MODE": "push"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
