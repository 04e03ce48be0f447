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

// Config holds the application configuration.
type Config struct {
	App        AppConfig
	Logger     LoggerConfig
	Catalog    CatalogConfig
	Thumbnails ThumbnailsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// CatalogConfig holds catalog document configuration.
type CatalogConfig struct {
	// Path to the catalog JSON document to enrich.
	Path string
	// DryRun resolves thumbnails without writing the document back.
	DryRun bool
}

// ThumbnailsConfig holds thumbnails API configuration.
type ThumbnailsConfig struct {
	// BatchSize is the maximum number of asset IDs per request (default: 100).
	BatchSize int
	// RequestDelay is the minimum delay between successive requests (default: 1s).
	RequestDelay time.Duration
	// MaxRetries is how often a pending asset is retried before it is
	// marked failed (default: 5).
	MaxRetries int
	// Size is the requested thumbnail size (default: 250x250).
	Size string
	// Format is the requested image format (default: Png).
	Format string
	// RequestTimeout bounds each HTTP request (default: 10s).
	RequestTimeout time.Duration
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
	catalogPath := flag.String("catalog", "", "Path to the catalog JSON document")
	dryRun := flag.String("dry-run", "", "Resolve thumbnails without writing the document (default: false)")

	// Thumbnails API flags
	batchSize := flag.String("batch-size", "", "Max asset IDs per thumbnails request (default: 100)")
	requestDelay := flag.String("request-delay", "", "Minimum delay between requests (default: 1s)")
	maxRetries := flag.String("max-retries", "", "Retries per pending asset before giving up (default: 5)")
	thumbSize := flag.String("size", "", "Requested thumbnail size (default: 250x250)")
	thumbFormat := flag.String("format", "", "Requested image format (default: Png)")
	requestTimeout := flag.String("request-timeout", "", "Per-request HTTP timeout (default: 10s)")

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
		Catalog: CatalogConfig{
			Path:   getConfigValue(*catalogPath, "CATALOG_PATH", ""),
			DryRun: getBoolConfigValue(*dryRun, "DRY_RUN", false),
		},
		Thumbnails: ThumbnailsConfig{
			BatchSize:  getIntConfigValue(*batchSize, "THUMBNAIL_BATCH_SIZE", 100),
			MaxRetries: getIntConfigValue(*maxRetries, "THUMBNAIL_MAX_RETRIES", 5),
			Size:       getConfigValue(*thumbSize, "THUMBNAIL_SIZE", "250x250"),
			Format:     getConfigValue(*thumbFormat, "THUMBNAIL_FORMAT", "Png"),
		},
	}

	// Parse request pacing durations.
	delayStr := getConfigValue(*requestDelay, "THUMBNAIL_REQUEST_DELAY", "1s")
	delay, err := time.ParseDuration(delayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid request delay %q: %w", delayStr, err)
	}
	cfg.Thumbnails.RequestDelay = delay

	timeoutStr := getConfigValue(*requestTimeout, "THUMBNAIL_REQUEST_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid request timeout %q: %w", timeoutStr, err)
	}
	cfg.Thumbnails.RequestTimeout = timeout

	// Expand and validate catalog path.
	if err := cfg.expandCatalogPath(); err != nil {
		return nil, fmt.Errorf("invalid catalog path: %w", err)
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

	if c.Catalog.Path == "" {
		return errors.New("catalog path is required (use -catalog or CATALOG_PATH)")
	}

	if c.Thumbnails.BatchSize < 1 {
		return fmt.Errorf("invalid batch size: %d (must be at least 1)", c.Thumbnails.BatchSize)
	}

	if c.Thumbnails.MaxRetries < 0 {
		return fmt.Errorf("invalid max retries: %d (must not be negative)", c.Thumbnails.MaxRetries)
	}

	if c.Thumbnails.RequestDelay < 0 {
		return fmt.Errorf("invalid request delay: %s (must not be negative)", c.Thumbnails.RequestDelay)
	}

	if c.Thumbnails.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout: %s (must be positive)", c.Thumbnails.RequestTimeout)
	}

	if c.Thumbnails.Size == "" {
		return errors.New("thumbnail size cannot be empty")
	}

	if c.Thumbnails.Format == "" {
		return errors.New("thumbnail format cannot be empty")
	}

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

// expandCatalogPath expands ~ and makes the path absolute.
// An empty path stays empty; Validate reports it as missing.
func (c *Config) expandCatalogPath() error {
	if c.Catalog.Path == "" {
		return nil
	}

	expanded, err := expandPath(c.Catalog.Path, "")
	if err != nil {
		return err
	}
	c.Catalog.Path = expanded
	return nil
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
