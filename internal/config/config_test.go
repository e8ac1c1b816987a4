package config_test

import (
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := config.LoadConfig()

	if cfg.Server.Addr != ":3000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.HeaderKey != "" {
		t.Errorf("header key = %q, want auth disabled", cfg.Server.HeaderKey)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("cache backend = %q", cfg.Cache.Backend)
	}
	if cfg.Live.PollInterval != 15*time.Second {
		t.Errorf("poll interval = %s", cfg.Live.PollInterval)
	}
	if len(cfg.Live.Boards) != 1 || cfg.Live.Boards[0] != (config.Board{Sport: "football", Division: "fbs"}) {
		t.Errorf("boards = %v", cfg.Live.Boards)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":8090")
	t.Setenv("NCAA_HEADER_KEY", "secret")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LIVE_POLL_INTERVAL", "5s")
	t.Setenv("SPORTS", "basketball-men/d1, basketball-women/d1,")

	cfg := config.LoadConfig()

	if cfg.Server.Addr != ":8090" || cfg.Server.HeaderKey != "secret" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisURL != "redis://cache:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Live.PollInterval != 5*time.Second {
		t.Errorf("poll interval = %s", cfg.Live.PollInterval)
	}

	want := []config.Board{
		{Sport: "basketball-men", Division: "d1"},
		{Sport: "basketball-women", Division: "d1"},
	}
	if len(cfg.Live.Boards) != len(want) {
		t.Fatalf("boards = %v", cfg.Live.Boards)
	}
	for i, board := range want {
		if cfg.Live.Boards[i] != board {
			t.Errorf("board %d = %v, want %v", i, cfg.Live.Boards[i], board)
		}
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	t.Setenv("LIVE_POLL_INTERVAL", "soon")

	cfg := config.LoadConfig()
	if cfg.Live.PollInterval != 15*time.Second {
		t.Errorf("poll interval = %s, want default on parse failure", cfg.Live.PollInterval)
	}
}
