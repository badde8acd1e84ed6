package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port              int
	DevMode           bool
	DatabasePath      string
	PricesDBPath      string
	LogLevel          string
	DriftThresholdPct float64 // Allocation drift before a rebalancing suggestion fires
	SnapshotCron      string  // Cron spec for the daily valuation job
	QuotesBaseURL     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnvAsInt("PORT", 8080),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		DatabasePath:      getEnv("DATABASE_PATH", "./data/wealthlens.db"),
		PricesDBPath:      getEnv("PRICES_DB_PATH", "./data/prices.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DriftThresholdPct: getEnvAsFloat("DRIFT_THRESHOLD_PCT", 5.0),
		SnapshotCron:      getEnv("SNAPSHOT_CRON", "0 0 1 * * *"), // 01:00 UTC daily
		QuotesBaseURL:     getEnv("QUOTES_BASE_URL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.PricesDBPath == "" {
		return fmt.Errorf("PRICES_DB_PATH is required")
	}
	if c.DriftThresholdPct < 0 {
		return fmt.Errorf("DRIFT_THRESHOLD_PCT must not be negative")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
