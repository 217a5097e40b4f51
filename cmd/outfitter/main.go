package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/outfitter-labs/outfitter/internal/api"
	"github.com/outfitter-labs/outfitter/internal/config"
	"github.com/outfitter-labs/outfitter/internal/events"
	"github.com/outfitter-labs/outfitter/internal/gemini"
	"github.com/outfitter-labs/outfitter/internal/pipeline"
	"github.com/outfitter-labs/outfitter/internal/planner"
	"github.com/outfitter-labs/outfitter/internal/session"
	"github.com/outfitter-labs/outfitter/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("outfitter starting", "port", cfg.Port, "mode", cfg.PipelineMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	if cfg.InitDB {
		if err := db.EnsureSchema(ctx); err != nil {
			slog.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		if err := db.SeedProducts(ctx); err != nil {
			slog.Error("catalog seed failed", "error", err)
			os.Exit(1)
		}
		slog.Info("database initialised")
	}

	// Gemini client
	if cfg.GeminiAPIKey == "" {
		slog.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	llm := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	slog.Info("gemini client ready", "model", cfg.GeminiModel)

	// Audit events (optional — outfitter works without NATS, just no audit trail)
	var publisher *events.Publisher
	if cfg.NatsURL != "" {
		publisher, err = events.NewPublisher(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — running without audit events")
	}

	// Session memory
	sessions := session.NewStore(cfg.SessionTTL)
	defer sessions.Close()

	// Pipeline — the guarded turn handler
	pipe := pipeline.New(
		planner.New(llm, slog.Default()),
		db,
		sessions,
		publisher,
		pipeline.Config{
			Mode:          pipeline.Mode(cfg.PipelineMode),
			HistoryWindow: cfg.HistoryWindow,
			OracleTimeout: cfg.OracleTimeout,
		},
		slog.Default(),
	)

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.PipelineMode, cfg.APIToken, pipe, sessions, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("outfitter ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("outfitter stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
