package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/bracket"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/cache"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/config"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/game"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/live"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/scoreboard"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/upstream/casablanca"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/upstream/sdata"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/upstream/web"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	fmt.Println("=== Fortuna NCAA Data Service ===")

	// Load configuration
	cfg := config.LoadConfig()

	// Background context for the cache sweeper, live hub and poller
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Select the cache backend
	var store cache.Store
	switch cfg.Cache.Backend {
	case "redis":
		redisOpts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			fmt.Printf("❌ Failed to parse Redis URL: %v\n", err)
			os.Exit(1)
		}
		if cfg.Cache.RedisPassword != "" {
			redisOpts.Password = cfg.Cache.RedisPassword
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
		store = cache.NewRedisStore(redisClient, cfg.Cache.KeyPrefix)
		fmt.Println("✓ Connected to Redis cache")

	default:
		memStore := cache.NewMemoryStore()
		memStore.StartSweeper(ctx, cfg.Cache.SweepInterval)
		store = memStore
		fmt.Println("✓ Using in-memory cache")
	}

	// Upstream clients and the shared resolver
	graphqlClient := sdata.New()
	legacyClient := casablanca.New()
	siteClient := web.New()
	resolver := cache.NewResolver(store)

	// Domain services
	scores := scoreboard.NewService(resolver, graphqlClient, legacyClient)
	games := game.NewService(resolver, graphqlClient, legacyClient)
	brackets := bracket.NewService(resolver, graphqlClient, siteClient)

	// Live hub and scoreboard poller
	boards := make([]models.Subscription, 0, len(cfg.Live.Boards))
	for _, b := range cfg.Live.Boards {
		boards = append(boards, models.Subscription{Sport: b.Sport, Division: b.Division})
	}
	hub := live.NewHub(boards)
	go hub.Run(ctx)

	poller := live.NewPoller(hub, scores, cfg.Live.PollInterval)
	go poller.Run(ctx)
	fmt.Printf("✓ Live hub polling %d board(s) every %s\n", len(boards), cfg.Live.PollInterval)

	handler := handlers.NewHandler(scores, games, brackets, resolver, siteClient, legacyClient, store, hub)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "x-ncaa-key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Routes
	r.Get("/healthz", handler.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(handlers.RequireHeaderKey(cfg.Server.HeaderKey))
		handler.Routes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ NCAA data service listening on %s\n", cfg.Server.Addr)
		fmt.Println("  Endpoints:")
		fmt.Println("    GET /scoreboard/{sport}/{division}")
		fmt.Println("    GET /scoreboard/{sport}/{division}/{year}/{week}")
		fmt.Println("    GET /scoreboard/{sport}/{division}/{year}/{month}/{day}")
		fmt.Println("    GET /game/{gameID}")
		fmt.Println("    GET /game/{gameID}/boxscore")
		fmt.Println("    GET /game/{gameID}/play-by-play")
		fmt.Println("    GET /game/{gameID}/scoring-summary")
		fmt.Println("    GET /game/{gameID}/team-stats")
		fmt.Println("    GET /stats/{sport}/{division}/{page}")
		fmt.Println("    GET /rankings/{sport}/{division}/{poll}")
		fmt.Println("    GET /standings/{sport}/{division}")
		fmt.Println("    GET /schedule/{sport}/{division}/{year}/{month}")
		fmt.Println("    GET /history/{sport}/{page}")
		fmt.Println("    GET /brackets/{sport}/{division}/{year}")
		fmt.Println("    GET /news/{sport}")
		fmt.Println("    GET /live?sport=&division=")
		fmt.Println("    GET /healthz")
		fmt.Println("    GET /metrics")

		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		fmt.Printf("❌ Server error: %v\n", err)
		os.Exit(1)

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)

		// Give outstanding requests a deadline for completion
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ Could not stop server: %v\n", err)
			}
		}
	}

	fmt.Println("✓ Shutdown complete")
}
