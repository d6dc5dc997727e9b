// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port          string
	Environment   string
	LoggingConfig LoggingConfig
	RedisConfig   RedisConfig
	HolidayConfig HolidayConfig
	PricesConfig  PricesConfig
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string
	Format string
}

// RedisConfig holds the connection settings for the shared lookup cache.
// Redis is optional; with Enabled false every lookup goes upstream.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// HolidayConfig holds the holiday feed settings. RefreshSpec is a cron
// expression for the server-level dataset refresh.
type HolidayConfig struct {
	URL         string
	RefreshSpec string
}

// PricesConfig holds the day-price lookup settings. DMNID is the upstream's
// sales-channel identifier, sent verbatim with every lookup.
type PricesConfig struct {
	URL   string
	DMNID string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	redisEnabled, _ := strconv.ParseBool(getEnv("REDIS_ENABLED", "false"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LoggingConfig: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RedisConfig: RedisConfig{
			Enabled:  redisEnabled,
			Host:     getEnv("REDIS_HOST", "redis"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		HolidayConfig: HolidayConfig{
			URL:         getEnv("HOLIDAY_DATASET_URL", ""),
			RefreshSpec: getEnv("HOLIDAY_REFRESH_SPEC", "0 3 * * *"),
		},
		PricesConfig: PricesConfig{
			URL:   getEnv("PRICE_LOOKUP_URL", ""),
			DMNID: getEnv("PRICE_LOOKUP_DMNID", ""),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
