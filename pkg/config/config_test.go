package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "fincompare", cfg.Database.DBName)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshExp)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 6, cfg.OTP.Length)
	assert.Equal(t, 5, cfg.Chat.HistoryWindow)
	assert.Equal(t, "@hourly", cfg.Jobs.OTPPurgeSchedule)
	assert.Equal(t, "@daily", cfg.Jobs.CatalogSyncSchedule)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OTP_TTL_MINUTES", "10")
	t.Setenv("CHAT_HISTORY_WINDOW", "8")
	t.Setenv("OPEN_BANKING_BASE_URL", "https://gateway.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 10*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 8, cfg.Chat.HistoryWindow)
	assert.Equal(t, "https://gateway.example.com", cfg.OpenBanking.BaseURL)
}
