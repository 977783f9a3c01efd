package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// xAI API
	XAIAPIKey  string
	XAIBaseURL string // Override for tests and proxies (default: api host)

	// Logging
	LogLevel string

	// Generation settings
	DedupThreshold     float64
	PostsPerBatch      int
	HistoryLimit       int
	RotationWindow     int
	MaxAttemptsPerPost int
	HistorianDomain    string

	// Scheduler settings
	GenerateInterval time.Duration
	MaxBatchesPerDay int

	// Link preview settings
	PreviewCacheTTL time.Duration
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:    getEnv("DATABASE_PATH", "data/soulfeed.db"),
		XAIAPIKey:       getEnv("XAI_API_KEY", ""),
		XAIBaseURL:      getEnv("XAI_BASE_URL", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		HistorianDomain: getEnv("HISTORIAN_DOMAIN", "en.wikipedia.org"),
	}

	// Parse floats
	threshold, err := strconv.ParseFloat(getEnv("DEDUP_THRESHOLD", "0.35"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEDUP_THRESHOLD: %w", err)
	}
	cfg.DedupThreshold = threshold

	// Parse integers
	cfg.PostsPerBatch, err = getEnvInt("POSTS_PER_BATCH", 5)
	if err != nil {
		return nil, err
	}
	cfg.HistoryLimit, err = getEnvInt("HISTORY_LIMIT", 20)
	if err != nil {
		return nil, err
	}
	cfg.RotationWindow, err = getEnvInt("ROTATION_WINDOW", 3)
	if err != nil {
		return nil, err
	}
	cfg.MaxAttemptsPerPost, err = getEnvInt("MAX_ATTEMPTS_PER_POST", 3)
	if err != nil {
		return nil, err
	}
	cfg.MaxBatchesPerDay, err = getEnvInt("MAX_BATCHES_PER_DAY", 2)
	if err != nil {
		return nil, err
	}

	// Parse durations
	cfg.GenerateInterval, err = time.ParseDuration(getEnv("GENERATE_INTERVAL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid GENERATE_INTERVAL: %w", err)
	}
	cfg.PreviewCacheTTL, err = time.ParseDuration(getEnv("PREVIEW_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PREVIEW_CACHE_TTL: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.DedupThreshold <= 0 || c.DedupThreshold > 1 {
		return fmt.Errorf("DEDUP_THRESHOLD must be in (0, 1], got %v", c.DedupThreshold)
	}
	return nil
}

// ValidateForGeneration checks configuration needed for content generation.
func (c *Config) ValidateForGeneration() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.XAIAPIKey == "" {
		return fmt.Errorf("XAI_API_KEY is required for generation")
	}
	if c.PostsPerBatch < 1 {
		return fmt.Errorf("POSTS_PER_BATCH must be at least 1")
	}
	return nil
}

// ValidateForServe checks all configuration needed for serve mode.
func (c *Config) ValidateForServe() error {
	if err := c.ValidateForGeneration(); err != nil {
		return err
	}
	if c.GenerateInterval < time.Minute {
		return fmt.Errorf("GENERATE_INTERVAL must be at least 1m")
	}
	if c.MaxBatchesPerDay < 1 {
		return fmt.Errorf("MAX_BATCHES_PER_DAY must be at least 1")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
