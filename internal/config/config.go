package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string

	// HeaderKey guards the data routes when set: requests must send it in
	// x-ncaa-key. Empty disables auth.
	HeaderKey string

	CORSOrigins []string
}

// CacheConfig selects and tunes the response cache backend
type CacheConfig struct {
	Backend       string // "memory" or "redis"
	RedisURL      string
	RedisPassword string
	KeyPrefix     string

	// SweepInterval bounds memory growth of the in-process store. Zero
	// disables the background sweep; expiry stays lazy either way.
	SweepInterval time.Duration
}

// Board is one sport/division scoreboard the live poller watches
type Board struct {
	Sport    string
	Division string
}

// LiveConfig drives the websocket score broadcaster
type LiveConfig struct {
	PollInterval time.Duration
	Boards       []Board
}

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Cache  CacheConfig
	Live   LiveConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        getEnv("SERVER_ADDR", ":3000"),
			HeaderKey:   getEnv("NCAA_HEADER_KEY", ""),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Cache: CacheConfig{
			Backend:       getEnv("CACHE_BACKEND", "memory"),
			RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			KeyPrefix:     getEnv("CACHE_KEY_PREFIX", "ncaa"),
			SweepInterval: getDuration("CACHE_SWEEP_INTERVAL", 5*time.Minute),
		},
		Live: LiveConfig{
			PollInterval: getDuration("LIVE_POLL_INTERVAL", 15*time.Second),
			Boards:       loadBoards(),
		},
	}
}

// loadBoards reads the comma-separated sport/division pairs the live poller
// watches, e.g. "football/fbs,basketball-men/d1".
func loadBoards() []Board {
	var boards []Board
	for _, entry := range strings.Split(getEnv("SPORTS", "football/fbs"), ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "/", 2)
		board := Board{Sport: parts[0], Division: "d1"}
		if len(parts) == 2 {
			board.Division = parts[1]
		}
		boards = append(boards, board)
	}
	return boards
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("[config] %s=%q is not a duration, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
