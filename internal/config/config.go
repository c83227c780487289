// Package config manages application configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Pivot column modes accepted by HOLDINGS_PIVOT_COLUMNS
const (
	PivotColumnsDetailed    = "detailed"
	PivotColumnsAccountInfo = "account_info"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"

	// Session store. The default is a private in-memory SQLite database,
	// so uploads never outlive the process.
	DatabaseURL string

	// Security
	SecretKey string // For signing session cookies

	// Session settings
	SessionDuration time.Duration

	// Uploads
	MaxUploadMB int

	// Logging
	LogLevel string

	// Pipeline
	IntlEquityLabel string
	PivotColumns    string
	DropNetZeroRows bool
}

// Load reads configuration from environment variables with sensible defaults.
// The given env files (".env" when none are named) are loaded first when
// present; real environment variables take precedence over them.
func Load(envFiles ...string) *Config {
	_ = godotenv.Load(envFiles...)

	return &Config{
		Port:            getEnv("HOLDINGS_PORT", "8080"),
		Environment:     getEnv("HOLDINGS_ENV", "development"),
		DatabaseURL:     getEnv("HOLDINGS_DATABASE_URL", "file:holdings?mode=memory&cache=shared"),
		SecretKey:       getEnv("HOLDINGS_SECRET_KEY", "dev-secret-key-change-in-production"),
		SessionDuration: getDurationEnv("HOLDINGS_SESSION_DURATION", 12*time.Hour),
		MaxUploadMB:     getIntEnv("HOLDINGS_MAX_UPLOAD_MB", 10),
		LogLevel:        getEnv("HOLDINGS_LOG_LEVEL", "info"),
		IntlEquityLabel: getEnv("HOLDINGS_INTL_EQUITY_LABEL", "Int'l Equity"),
		PivotColumns:    getEnv("HOLDINGS_PIVOT_COLUMNS", PivotColumnsDetailed),
		DropNetZeroRows: getBoolEnv("HOLDINGS_DROP_NET_ZERO_ROWS", false),
	}
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.Environment != "development" && c.Environment != "production" {
		problems = append(problems, fmt.Sprintf("invalid environment '%s': must be development or production", c.Environment))
	}

	if c.DatabaseURL == "" {
		problems = append(problems, "database URL cannot be empty")
	}

	if c.IsProduction() && (c.SecretKey == "" || strings.HasPrefix(c.SecretKey, "dev-")) {
		problems = append(problems, "HOLDINGS_SECRET_KEY must be set in production")
	}

	if c.SessionDuration < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid session duration %v: must be at least 1 minute", c.SessionDuration))
	}

	if c.MaxUploadMB < 1 || c.MaxUploadMB > 512 {
		problems = append(problems, fmt.Sprintf("invalid max upload size %d MB: must be between 1 and 512", c.MaxUploadMB))
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if c.PivotColumns != PivotColumnsDetailed && c.PivotColumns != PivotColumnsAccountInfo {
		problems = append(problems, fmt.Sprintf("invalid pivot columns '%s': must be %s or %s",
			c.PivotColumns, PivotColumnsDetailed, PivotColumnsAccountInfo))
	}

	if strings.TrimSpace(c.IntlEquityLabel) == "" {
		problems = append(problems, "international equity label cannot be empty")
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed:\n- " + strings.Join(problems, "\n- "))
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
