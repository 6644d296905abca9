package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Brief engine
	Brief BriefSettings
}

// BriefSettings holds the daily brief engine configuration. Timezone is
// the fallback for organisations without one of their own.
type BriefSettings struct {
	Timezone          string
	LookbackDays      int
	ForwardDays       int
	RecipientOverride []string
	SweepInterval     time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:         getEnv("ENV", "development"),
		Brief: BriefSettings{
			Timezone:          getEnv("BRIEF_TIMEZONE", "Australia/Sydney"),
			LookbackDays:      getEnvInt("BRIEF_LOOKBACK_DAYS", 1),
			ForwardDays:       getEnvInt("BRIEF_FORWARD_DAYS", 7),
			RecipientOverride: splitNonEmpty(getEnv("BRIEF_RECIPIENTS", "")),
			SweepInterval:     getEnvDuration("BRIEF_SWEEP_INTERVAL", 24*time.Hour),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Brief.LookbackDays < 1 {
		return fmt.Errorf("BRIEF_LOOKBACK_DAYS must be at least 1")
	}
	if c.Brief.ForwardDays < 1 {
		return fmt.Errorf("BRIEF_FORWARD_DAYS must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
