// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the portal client needs at startup.
type Config struct {
	// APIBaseURL is the queue service root, e.g. http://localhost:5000.
	APIBaseURL string
	// APITimeout bounds each HTTP request.
	APITimeout time.Duration
	// QueuePollInterval is how often the queue snapshot is refetched.
	QueuePollInterval time.Duration
	// StatsPollInterval is how often aggregate statistics are refetched.
	StatsPollInterval time.Duration
	// RedisAddr, when set, backs local state with Redis instead of memory.
	RedisAddr string
	// AdminToken seeds the bearer credential for privileged operations.
	AdminToken string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables always win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:5000"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		AdminToken: os.Getenv("ADMIN_TOKEN"),
	}

	var err error
	if cfg.APITimeout, err = getDuration("API_TIMEOUT_MS", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.QueuePollInterval, err = getDuration("QUEUE_POLL_INTERVAL_MS", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.StatsPollInterval, err = getDuration("STATS_POLL_INTERVAL_MS", 60*time.Second); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer of milliseconds, got %q", key, v)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
