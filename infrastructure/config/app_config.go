package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"sprestore/database"
	"sprestore/logging"
)

// Default Graph endpoints. The site recycle-bin API only exists on beta.
const (
	DefaultGraphBaseURL = "https://graph.microsoft.com/v1.0"
	DefaultGraphBetaURL = "https://graph.microsoft.com/beta"
)

// GraphConfig holds Graph endpoint and credential configuration.
type GraphConfig struct {
	Token           string
	BaseURL         string
	BetaURL         string
	Timeout         time.Duration // metadata and listing calls
	DownloadTimeout time.Duration // content streaming
}

// LocateConfig holds the reconciliation loop policy.
type LocateConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// AppConfig holds application-wide system configuration.
type AppConfig struct {
	Graph              GraphConfig
	Locate             LocateConfig
	RecycleBinPageSize int
	OutDir             string
	Database           *database.Config
	Logging            *logging.Config
}

// LoadAppConfigFromEnv loads complete application configuration from
// environment variables.
func LoadAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		Graph: GraphConfig{
			Token:           os.Getenv("GRAPH_TOKEN"),
			BaseURL:         getEnvWithDefault("GRAPH_BASE_URL", DefaultGraphBaseURL),
			BetaURL:         getEnvWithDefault("GRAPH_BETA_URL", DefaultGraphBetaURL),
			Timeout:         getEnvDurationWithDefault("GRAPH_TIMEOUT", 30*time.Second),
			DownloadTimeout: getEnvDurationWithDefault("GRAPH_DOWNLOAD_TIMEOUT", 120*time.Second),
		},
		Locate: LocateConfig{
			MaxAttempts: getEnvIntWithDefault("LOCATE_MAX_ATTEMPTS", 6),
			Delay:       getEnvDurationWithDefault("LOCATE_DELAY", 2*time.Second),
		},
		RecycleBinPageSize: getEnvIntWithDefault("RECYCLE_BIN_PAGE_SIZE", 200),
		OutDir:             getEnvWithDefault("OUT_DIR", "."),
		Database:           LoadDatabaseConfigFromEnv(),
		Logging:            LoadLoggingConfigFromEnv(),
	}
}

// LoadDatabaseConfigFromEnv loads database configuration from environment
// variables.
func LoadDatabaseConfigFromEnv() *database.Config {
	return &database.Config{
		Path:            getEnvWithDefault("DB_PATH", "./sprestore.db"),
		MaxOpenConns:    getEnvIntWithDefault("DB_MAX_OPEN_CONNS", 4),
		MaxIdleConns:    getEnvIntWithDefault("DB_MAX_IDLE_CONNS", 2),
		ConnMaxLifetime: getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", time.Hour),
		BusyTimeoutMs:   getEnvIntWithDefault("DB_BUSY_TIMEOUT_MS", 5000),
		EnableWAL:       getEnvBoolWithDefault("DB_ENABLE_WAL", true),
	}
}

// LoadLoggingConfigFromEnv loads logging configuration from environment
// variables.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: getEnvWithDefault("LOG_FORMAT", "text"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stderr"),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, def bool) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Helper functions for environment variable parsing.
func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value, defaultValue)
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
