package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const FileName = "flashcharts.config.json"

type Config struct {
	Database  Database  `json:"database" mapstructure:"database"`
	Studio    Studio    `json:"studio" mapstructure:"studio"`
	Analytics Analytics `json:"analytics" mapstructure:"analytics"`
	LogLevel  string    `json:"log_level" mapstructure:"log_level"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type Studio struct {
	Port int `json:"port" mapstructure:"port"`
}

type Analytics struct {
	// IntegerCast overrides the dialect's choice of casting COUNT and integer
	// SUM results. Nil leaves it to the dialect.
	IntegerCast        *bool         `json:"integer_cast,omitempty" mapstructure:"integer_cast"`
	QueryTimeout       time.Duration `json:"query_timeout" mapstructure:"query_timeout"`
	RateLimit          RateLimit     `json:"rate_limit" mapstructure:"rate_limit"`
	MaxSessions        int           `json:"max_sessions" mapstructure:"max_sessions"`
	SessionIdleTimeout time.Duration `json:"session_idle_timeout" mapstructure:"session_idle_timeout"`
}

type RateLimit struct {
	RequestsPerSecond float64 `json:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `json:"burst" mapstructure:"burst"`
}

var supportedProviders = []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3", "duckdb"}

// DefaultJSON is written by `flashcharts init`.
const DefaultJSON = `{
  "database": {
    "provider": "postgresql",
    "url_env": "DATABASE_URL"
  },
  "studio": {
    "port": 5555
  },
  "analytics": {
    "query_timeout": "30s",
    "rate_limit": {
      "requests_per_second": 10,
      "burst": 20
    },
    "max_sessions": 256,
    "session_idle_timeout": "30m"
  },
  "log_level": "info"
}
`

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Provider == "" {
		c.Database.Provider = "postgresql"
	}
	if c.Database.URLEnv == "" {
		c.Database.URLEnv = "DATABASE_URL"
	}
	if c.Studio.Port == 0 {
		c.Studio.Port = 5555
	}
	if c.Analytics.QueryTimeout == 0 {
		c.Analytics.QueryTimeout = 30 * time.Second
	}
	if c.Analytics.RateLimit.RequestsPerSecond == 0 {
		c.Analytics.RateLimit.RequestsPerSecond = 10
	}
	if c.Analytics.RateLimit.Burst == 0 {
		c.Analytics.RateLimit.Burst = 20
	}
	if c.Analytics.MaxSessions == 0 {
		c.Analytics.MaxSessions = 256
	}
	if c.Analytics.SessionIdleTimeout == 0 {
		c.Analytics.SessionIdleTimeout = 30 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.Studio.Port <= 0 || c.Studio.Port > 65535 {
		return fmt.Errorf("studio.port must be between 1 and 65535, got %d", c.Studio.Port)
	}
	if c.Analytics.QueryTimeout < 0 {
		return fmt.Errorf("analytics.query_timeout cannot be negative")
	}
	if c.Analytics.RateLimit.RequestsPerSecond <= 0 || c.Analytics.RateLimit.Burst <= 0 {
		return fmt.Errorf("analytics.rate_limit values must be positive")
	}
	if c.Analytics.MaxSessions <= 0 {
		return fmt.Errorf("analytics.max_sessions must be positive")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	return nil
}

// SlogLevel maps LogLevel to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
