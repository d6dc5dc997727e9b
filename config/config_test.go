package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	os.Clearenv()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "development", cfg.Environment)
		assert.Equal(t, "info", cfg.LoggingConfig.Level)
		assert.Equal(t, "json", cfg.LoggingConfig.Format)
		assert.False(t, cfg.RedisConfig.Enabled)
		assert.Equal(t, "redis", cfg.RedisConfig.Host)
		assert.Equal(t, "6379", cfg.RedisConfig.Port)
		assert.Equal(t, 0, cfg.RedisConfig.DB)
		assert.Equal(t, "", cfg.HolidayConfig.URL)
		assert.Equal(t, "0 3 * * *", cfg.HolidayConfig.RefreshSpec)
		assert.Equal(t, "", cfg.PricesConfig.URL)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("REDIS_DB", "3")
		t.Setenv("HOLIDAY_DATASET_URL", "https://example.com/holidays.json")
		t.Setenv("PRICE_LOOKUP_URL", "https://example.com/prices")
		t.Setenv("PRICE_LOOKUP_DMNID", "42")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "debug", cfg.LoggingConfig.Level)
		assert.True(t, cfg.RedisConfig.Enabled)
		assert.Equal(t, 3, cfg.RedisConfig.DB)
		assert.Equal(t, "https://example.com/holidays.json", cfg.HolidayConfig.URL)
		assert.Equal(t, "https://example.com/prices", cfg.PricesConfig.URL)
		assert.Equal(t, "42", cfg.PricesConfig.DMNID)
	})
}
