package config

import (
	"os"
	"strings"
	"time"
)

// Film source strategies.
const (
	SourceMirror   = "mirror"   // films synced into the local store
	SourceSnapshot = "snapshot" // films served from a TTL-cached upstream snapshot
)

type Config struct {
	Port         string
	Env          string
	SwapiBaseURL string
	SwapiTimeout time.Duration
	FilmSource   string
	SnapshotTTL  time.Duration
	SyncOnRead   bool
	RedisAddr    string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		SwapiBaseURL: getEnv("SWAPI_BASE_URL", "https://swapi.dev/api"),
		SwapiTimeout: getDurationEnv("SWAPI_TIMEOUT", 15*time.Second),
		FilmSource:   getEnv("FILM_SOURCE", SourceMirror),
		SnapshotTTL:  getDurationEnv("FILM_SNAPSHOT_TTL", 6*time.Hour),
		SyncOnRead:   getBoolEnv("FILM_SYNC_ON_READ", false),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
	}
}

// UseSnapshot reports whether films are served from the cached snapshot
// instead of the local mirror.
func (c *Config) UseSnapshot() bool {
	return c.FilmSource == SourceSnapshot
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.EqualFold(value, "true") || value == "1"
	}
	return defaultValue
}
