// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultFeedURL is the official song catalog feed.
const DefaultFeedURL = "https://ongeki.sega.jp/assets/json/music/music.json"

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Server ServerConfig
	Feed   FeedConfig
	Jobs   JobsConfig
	Ops    OpsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds persistent storage configuration.
type DataConfig struct {
	BasePath string
}

// DatabasePath returns the sqlite database file under the data directory.
func (d DataConfig) DatabasePath() string {
	return filepath.Join(d.BasePath, "museum.db")
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	RateLimit    float64       // Requests per second per client IP (default: 10)
	RateBurst    int           // Burst size per client IP (default: 20)
}

// FeedConfig holds catalog feed client configuration.
type FeedConfig struct {
	URLs    []string      // Feed URLs, fetched in order
	Timeout time.Duration // Per-request timeout (default: 30s)
	Spacing time.Duration // Minimum delay between feed requests (default: 5s)
}

// JobsConfig holds scheduled job configuration. Clock values are
// "HH:MM" wall-clock times in the configured time zone.
type JobsConfig struct {
	Enabled         bool
	IngestionAt     string // daily ingestion time (default: 07:00)
	NormalizationAt string // daily normalization time (default: 07:30)
	TimeZone        string // IANA zone name (default: Asia/Tokyo)
	RunOnStart      bool   // run ingestion immediately on startup
}

// Location resolves the configured time zone.
func (j JobsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(j.TimeZone)
}

// OpsConfig holds operational notification configuration.
// Empty webhook URLs disable delivery for that severity.
type OpsConfig struct {
	SlackInfoWebhookURL  string
	SlackWarnWebhookURL  string
	SlackErrorWebhookURL string
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for persistent data")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	// Feed flags
	feedURLs := flag.String("feed-urls", "", "Comma-separated catalog feed URLs")
	feedTimeout := flag.String("feed-timeout", "", "Feed request timeout (default: 30s)")
	feedSpacing := flag.String("feed-spacing", "", "Delay between feed requests (default: 5s)")

	// Job flags
	jobsEnabled := flag.String("jobs-enabled", "", "Enable scheduled jobs (default: true)")
	ingestionAt := flag.String("ingestion-at", "", "Daily ingestion time HH:MM (default: 07:00)")
	normalizationAt := flag.String("normalization-at", "", "Daily normalization time HH:MM (default: 07:30)")
	timeZone := flag.String("time-zone", "", "Time zone for job schedules (default: Asia/Tokyo)")
	runOnStart := flag.String("run-on-start", "", "Run ingestion on startup (default: true)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:      getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			RateLimit: float64(getIntConfigValue("", "SERVER_RATE_LIMIT", 10)),
			RateBurst: getIntConfigValue("", "SERVER_RATE_BURST", 20),
		},
		Feed: FeedConfig{
			URLs: splitList(getConfigValue(*feedURLs, "FEED_URLS", DefaultFeedURL)),
		},
		Jobs: JobsConfig{
			Enabled:         getBoolConfigValue(*jobsEnabled, "JOBS_ENABLED", true),
			IngestionAt:     getConfigValue(*ingestionAt, "INGESTION_AT", "07:00"),
			NormalizationAt: getConfigValue(*normalizationAt, "NORMALIZATION_AT", "07:30"),
			TimeZone:        getConfigValue(*timeZone, "TIME_ZONE", "Asia/Tokyo"),
			RunOnStart:      getBoolConfigValue(*runOnStart, "RUN_ON_START", true),
		},
		Ops: OpsConfig{
			SlackInfoWebhookURL:  getConfigValue("", "SLACK_INFO_WEBHOOK_URL", ""),
			SlackWarnWebhookURL:  getConfigValue("", "SLACK_WARN_WEBHOOK_URL", ""),
			SlackErrorWebhookURL: getConfigValue("", "SLACK_ERROR_WEBHOOK_URL", ""),
		},
	}

	// Parse durations.
	var err error
	if cfg.Server.ReadTimeout, err = parseDuration(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = parseDuration(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = parseDuration(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}
	if cfg.Feed.Timeout, err = parseDuration(*feedTimeout, "FEED_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid feed timeout: %w", err)
	}
	if cfg.Feed.Spacing, err = parseDuration(*feedSpacing, "FEED_SPACING", "5s"); err != nil {
		return nil, fmt.Errorf("invalid feed spacing: %w", err)
	}

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if len(c.Feed.URLs) == 0 {
		return errors.New("at least one feed URL is required")
	}

	if _, _, err := ParseClock(c.Jobs.IngestionAt); err != nil {
		return fmt.Errorf("invalid ingestion time: %w", err)
	}
	if _, _, err := ParseClock(c.Jobs.NormalizationAt); err != nil {
		return fmt.Errorf("invalid normalization time: %w", err)
	}
	if _, err := c.Jobs.Location(); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.Jobs.TimeZone, err)
	}

	return nil
}

// ParseClock parses a "HH:MM" wall-clock string.
func ParseClock(s string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid clock value %q (want HH:MM)", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock value %q out of range", s)
	}
	return hour, minute, nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "OngekiMuseum", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// splitList splits a comma-separated value into trimmed non-empty elements.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseDuration resolves a duration with the usual flag/env/default precedence.
func parseDuration(flagValue, envKey, defaultValue string) (time.Duration, error) {
	str := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(str)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", str, err)
	}
	return d, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
