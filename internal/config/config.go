// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/v0xg/pomgen/internal/prompt"
)

// MemoryDB selects the in-memory store instead of SQLite
const MemoryDB = ":memory:"

// Config holds all configuration for pomgen.
type Config struct {
	// Storage
	DBPath string

	// Model provider
	Provider string
	Model    string
	BaseURL  string
	APIKey   string // seeded into the store when set

	// Default output language
	Language prompt.Language

	// HTTP surface
	BindAddr string

	// Browser
	Headless    bool
	ProfileDir  string
	Width       int
	Height      int
	LoadTimeout time.Duration

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	lang, err := prompt.ParseLanguage(getEnvOrDefault("POMGEN_LANGUAGE", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Config{
		DBPath:      getEnvOrDefault("POMGEN_DB_PATH", "./data/pomgen.db"),
		Provider:    strings.ToLower(getEnvOrDefault("POMGEN_PROVIDER", "gemini")),
		Model:       os.Getenv("POMGEN_MODEL"),
		BaseURL:     os.Getenv("POMGEN_BASE_URL"),
		APIKey:      getEnvOrDefault("POMGEN_API_KEY", os.Getenv("GEMINI_API_KEY")),
		Language:    lang,
		BindAddr:    getEnvOrDefault("POMGEN_BIND_ADDR", "127.0.0.1:8420"),
		Headless:    getEnvBoolOrDefault("POMGEN_HEADLESS", false),
		ProfileDir:  os.Getenv("POMGEN_PROFILE_DIR"),
		Width:       getEnvIntOrDefault("POMGEN_WIDTH", 1280),
		Height:      getEnvIntOrDefault("POMGEN_HEIGHT", 800),
		LoadTimeout: time.Duration(getEnvIntOrDefault("POMGEN_LOAD_TIMEOUT_MS", 30000)) * time.Millisecond,
		LogLevel:    strings.ToLower(getEnvOrDefault("POMGEN_LOG_LEVEL", "info")),
		LogFile:     getEnvOrDefault("POMGEN_LOG_FILE", "logs/pomgen.log"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("POMGEN_DB_PATH cannot be empty")
	}
	switch c.Provider {
	case "gemini", "google", "claude", "anthropic", "openai", "gpt":
	default:
		return fmt.Errorf("POMGEN_PROVIDER %q is not one of gemini, claude, openai", c.Provider)
	}
	if c.BindAddr == "" {
		return fmt.Errorf("POMGEN_BIND_ADDR cannot be empty")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.LoadTimeout <= 0 {
		return fmt.Errorf("POMGEN_LOAD_TIMEOUT_MS must be > 0")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("POMGEN_LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

// InMemory reports whether the store should live in memory only
func (c *Config) InMemory() bool {
	return c.DBPath == MemoryDB
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
