package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// RateLimit is the per-client request budget, e.g. "100-M" for 100
	// requests per minute.
	RateLimit string

	// Status thresholds, in whole percent of target reached. Above
	// CriticalPct a goal is critical; above WarningPct it is a warning.
	StatusWarningPct  int64
	StatusCriticalPct int64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("STATUS_WARNING_PCT", 75)
	viper.SetDefault("STATUS_CRITICAL_PCT", 90)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.StatusWarningPct = viper.GetInt64("STATUS_WARNING_PCT")
	cfg.StatusCriticalPct = viper.GetInt64("STATUS_CRITICAL_PCT")
	if cfg.StatusWarningPct <= 0 || cfg.StatusCriticalPct <= cfg.StatusWarningPct || cfg.StatusCriticalPct >= 100 {
		log.Printf("Warning: invalid status thresholds (warning=%d, critical=%d). Using defaults 75/90.\n",
			cfg.StatusWarningPct, cfg.StatusCriticalPct)
		cfg.StatusWarningPct = 75
		cfg.StatusCriticalPct = 90
	}

	return cfg, nil
}
