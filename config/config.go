package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// HTTP configuration
	ListenAddr string

	// Database configuration
	DatabaseURL string

	// Credit configuration
	InitialCredits     int64 // Balance granted by ensure-initialized for new users
	DailyBonusAmount   int64 // Credits granted per daily bonus claim
	LedgerHistoryLimit int   // Max ledger entries returned alongside a balance

	// Daily bonus guard configuration
	BonusRetentionDays int           // How long claim records are kept in memory
	CleanupInterval    time.Duration // How often stale claim records are swept

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// Set replaces the global configuration instance. Intended for tests.
func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// NewTestConfig returns a configuration suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		ListenAddr:         ":0",
		InitialCredits:     100,
		DailyBonusAmount:   50,
		LedgerHistoryLimit: 20,
		BonusRetentionDays: 7,
		CleanupInterval:    time.Hour,
		Environment:        "test",
	}
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env file is fine; the environment may come from the host
	_ = godotenv.Load()

	config := &Config{
		ListenAddr:  os.Getenv("LISTEN_ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Credit settings with defaults
		InitialCredits:     100,
		DailyBonusAmount:   50,
		LedgerHistoryLimit: 20,
		BonusRetentionDays: 7,
		CleanupInterval:    time.Hour,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if v := os.Getenv("INITIAL_CREDITS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.InitialCredits = parsed
		}
	}
	if v := os.Getenv("DAILY_BONUS_AMOUNT"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.DailyBonusAmount = parsed
		}
	}
	if v := os.Getenv("LEDGER_HISTORY_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			config.LedgerHistoryLimit = parsed
		}
	}
	if v := os.Getenv("BONUS_RETENTION_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			config.BonusRetentionDays = parsed
		}
	}
	if v := os.Getenv("CLEANUP_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			config.CleanupInterval = parsed
		}
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8084"
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
