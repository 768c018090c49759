package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moodchat/internal/auth"
	"moodchat/internal/chat"
	"moodchat/internal/config"
	"moodchat/internal/database"
	"moodchat/internal/handlers"
	"moodchat/internal/metrics"
	"moodchat/internal/sentiment"
	"moodchat/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Apply schema migrations before taking connections
	if err := database.RunMigrations(cfg.Database.URL); err != nil {
		logger.Fatal("Failed to run migrations: %v", err)
	}

	// Initialize database
	db, err := database.NewPostgresDB(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Metrics
	promRegistry := prometheus.NewRegistry()
	collector := metrics.NewPrometheusCollector(promRegistry)

	// Chat core
	registry := chat.NewRegistry(cfg.Chat.SendBuffer)
	hub := chat.NewHub(registry, collector)
	typing := chat.NewTypingTracker(registry, hub)
	scorer := sentiment.NewLexiconScorer()
	pipeline := chat.NewPipeline(registry, hub, typing, db, scorer, cfg.Chat.ScoreTimeout, collector)
	controller := chat.NewController(registry, hub, typing, pipeline, cfg.Chat.Rooms, collector)

	// Services and handlers
	authService := auth.NewService(db, cfg)
	authHandlers := handlers.NewAuthHandlers(authService)
	messageHandlers := handlers.NewMessageHandlers(authService, db, cfg.Chat.Rooms)
	wsHandlers := handlers.NewWebSocketHandlers(authService, controller, cfg.Chat)

	router := handlers.NewRouter(authHandlers, messageHandlers, wsHandlers, promRegistry)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Server started on %s", cfg.Server.Port)
		logger.Info("WebSocket endpoint: ws://localhost%s/ws", cfg.Server.Port)
		logger.Info("Rooms: %v", cfg.Chat.Rooms)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error: %v", err)
	}
}
