package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("GO_ENV", "config_test_missing")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MONGODB_CONNECTION_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DBNAME", "marketplace_test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, 5*time.Second, cfg.DeliveryPollInterval)
	assert.Equal(t, 10, cfg.DeliveryBatchSize)
	assert.Equal(t, 3, cfg.DeliveryMaxRetries)
	assert.Equal(t, 168*time.Hour, cfg.DeliveryFailedRetention)
	assert.Equal(t, 25.0, cfg.TelegramRatePerSec)
	assert.Equal(t, 5*time.Minute, cfg.FlowCacheTTL)
	assert.False(t, cfg.TelegramEnabled())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("GO_ENV", "config_test_missing")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MONGODB_CONNECTION_URI", "")
	t.Setenv("MONGODB_DBNAME", "")

	_, err := Load()
	assert.Error(t, err)
	assert.Nil(t, NewConfig())
}

func TestLoad_TLSNeedsFiles(t *testing.T) {
	setRequired(t)
	t.Setenv("ENABLE_TLS", "true")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfiguration_Helpers(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", "https://admin.example.com, https://shop.example.com,")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://admin.example.com", "https://shop.example.com"}, cfg.CORSOrigins())
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, "json", cfg.LogConfig().Format)
}
