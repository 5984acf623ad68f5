// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all driver configuration. The core library itself takes
// no configuration; everything here belongs to the demo driver and its
// archive.
type Config struct {
	// Archive settings.
	ArchivePath string // SQLite file for the provenance archive; empty disables it.

	// Export settings.
	ExportDir string // Directory for exported JSON documents; empty disables export.

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	// Operational settings.
	LogLevel string
	TopN     int // Rows shown in rendered leaderboard tables.
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		ArchivePath:  envStr("KIROKU_ARCHIVE_PATH", ""),
		ExportDir:    envStr("KIROKU_EXPORT_DIR", ""),
		OTELEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELInsecure: envBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		ServiceName:  envStr("OTEL_SERVICE_NAME", "kiroku"),
		LogLevel:     envStr("KIROKU_LOG_LEVEL", "info"),
		TopN:         envInt("KIROKU_TOP_N", 10),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that configuration values are usable.
func (c Config) Validate() error {
	if c.TopN <= 0 {
		return fmt.Errorf("config: KIROKU_TOP_N must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: KIROKU_LOG_LEVEL must be one of debug, info, warn, error")
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
