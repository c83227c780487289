package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:            "8080",
		Environment:     "development",
		DatabaseURL:     ":memory:",
		SecretKey:       "dev-secret",
		SessionDuration: time.Hour,
		MaxUploadMB:     10,
		LogLevel:        "info",
		IntlEquityLabel: "Int'l Equity",
		PivotColumns:    PivotColumnsDetailed,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid development config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid account info columns",
			mutate: func(c *Config) { c.PivotColumns = PivotColumnsAccountInfo },
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid environment",
			mutate:      func(c *Config) { c.Environment = "staging" },
			wantErr:     true,
			errorString: "invalid environment 'staging'",
		},
		{
			name: "production needs a real secret",
			mutate: func(c *Config) {
				c.Environment = "production"
			},
			wantErr:     true,
			errorString: "HOLDINGS_SECRET_KEY must be set in production",
		},
		{
			name:        "upload limit too small",
			mutate:      func(c *Config) { c.MaxUploadMB = 0 },
			wantErr:     true,
			errorString: "invalid max upload size 0 MB",
		},
		{
			name:        "bad log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "bad pivot columns",
			mutate:      func(c *Config) { c.PivotColumns = "wide" },
			wantErr:     true,
			errorString: "invalid pivot columns 'wide'",
		},
		{
			name:        "blank international label",
			mutate:      func(c *Config) { c.IntlEquityLabel = "  " },
			wantErr:     true,
			errorString: "international equity label cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 12*time.Hour, cfg.SessionDuration)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.Equal(t, PivotColumnsDetailed, cfg.PivotColumns)
	assert.False(t, cfg.DropNetZeroRows)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := "HOLDINGS_PORT=9090\nHOLDINGS_PIVOT_COLUMNS=account_info\n"
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(envFile), 0o600))
	t.Cleanup(func() { os.Unsetenv("HOLDINGS_PIVOT_COLUMNS") })

	t.Setenv("HOLDINGS_DROP_NET_ZERO_ROWS", "true")
	t.Setenv("HOLDINGS_SESSION_DURATION", "30m")
	t.Setenv("HOLDINGS_MAX_UPLOAD_MB", "25")
	// Real environment wins over .env
	t.Setenv("HOLDINGS_PORT", "7070")

	cfg := Load(path)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, PivotColumnsAccountInfo, cfg.PivotColumns)
	assert.True(t, cfg.DropNetZeroRows)
	assert.Equal(t, 30*time.Minute, cfg.SessionDuration)
	assert.Equal(t, 25, cfg.MaxUploadMB)
}
