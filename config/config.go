package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	PageLimit      int
	TeamListLimit  int
}

func Load() Config {
	return Config{
		APIBaseURL:     strFromEnv("RESCUE_API_URL", "http://localhost:8080"),
		RequestTimeout: durFromEnv("RESCUE_HTTP_TIMEOUT", 10*time.Second),
		PageLimit:      intFromEnv("RESCUE_PAGE_LIMIT", 20),
		TeamListLimit:  intFromEnv("RESCUE_TEAM_LIST_LIMIT", 100),
	}
}

func strFromEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func intFromEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func durFromEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
