package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/throneofjarls/api/internal/config"
	"github.com/freeeve/throneofjarls/api/internal/game"
	"github.com/freeeve/throneofjarls/api/internal/handler"
	"github.com/freeeve/throneofjarls/api/internal/logger"
	"github.com/freeeve/throneofjarls/api/internal/middleware"
	"github.com/freeeve/throneofjarls/api/internal/repository/postgres"
	redisrepo "github.com/freeeve/throneofjarls/api/internal/repository/redis"
)

func main() {
	logger.Init()
	cfg := config.Load()
	game.GonnxModelPath = cfg.GonnxModelPath
	game.GroqAPIKey = cfg.GroqAPIKey
	game.GroqModel = cfg.GroqModel
	log.Info().Str("databaseURL", cfg.DatabaseURL).Msg("Config loaded")

	// Database
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()

	if err := postgres.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Database migration failed")
	}

	// Redis
	redisClient, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Repos
	eventRepo := postgres.NewEventRepo(db)
	snapshotRepo := postgres.NewSnapshotRepo(db)

	// WebSocket hub
	wsHub := handler.NewHub()

	// Game manager
	manager := game.NewManager(eventRepo, snapshotRepo, wsHub)

	// Handlers
	gameHandler := handler.NewGameHandler(manager, redisClient)
	wsHandler := handler.NewWSHandler(wsHub, manager, redisClient)

	// Router
	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("POST /api/games", gameHandler.CreateGame)
	mux.HandleFunc("GET /api/games", gameHandler.ListGames)
	mux.HandleFunc("GET /api/games/{id}", gameHandler.GetGame)
	mux.HandleFunc("POST /api/games/{id}/join", gameHandler.JoinGame)
	mux.HandleFunc("POST /api/games/{id}/start", gameHandler.StartGame)
	mux.HandleFunc("POST /api/games/{id}/ai", gameHandler.AddAI)
	mux.HandleFunc("GET /api/games/{id}/valid-moves/{pieceId}", gameHandler.ValidMoves)

	// WebSocket (auth via joinGame message, not middleware)
	mux.HandleFunc("GET /ws", wsHandler.ServeWS)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Recover active games from their latest snapshots.
	if n, err := manager.Recover(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to recover active games (non-fatal)")
	} else if n > 0 {
		log.Info().Int("games", n).Msg("Active games recovered")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	manager.Shutdown()
	log.Info().Msg("Server stopped")
}
