package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatlens/chatlens/internal/analyzer"
	"github.com/chatlens/chatlens/internal/anthropic"
	"github.com/chatlens/chatlens/internal/api"
	"github.com/chatlens/chatlens/internal/batch"
	"github.com/chatlens/chatlens/internal/config"
	"github.com/chatlens/chatlens/internal/events"
	"github.com/chatlens/chatlens/internal/notify"
	"github.com/chatlens/chatlens/internal/processor"
	"github.com/chatlens/chatlens/internal/store"
)

func main() {
	batchDir := flag.String("batch", "", "analyze every .txt file in this directory instead of serving HTTP")
	dryRun := flag.Bool("dry-run", false, "batch mode: parse files only, no LLM calls")
	flag.Parse()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Anthropic client
	if cfg.AnthropicAPIKey == "" {
		slog.Error("ANTHROPIC_API_KEY is required")
		os.Exit(1)
	}
	llm := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	slog.Info("anthropic client ready", "model", cfg.AnthropicModel)

	// Database (optional: without it analyses are returned but not kept)
	var db *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set, running without analysis history")
	}

	// NATS (optional)
	var pub *events.Publisher
	if cfg.NatsURL != "" {
		var err error
		pub, err = events.Connect(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set, running without event publishing")
	}

	// Slack (optional)
	var notifier *notify.Notifier
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		notifier = notify.NewNotifier(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
		slog.Info("slack notifier ready", "channel", cfg.SlackChannel)
	} else {
		slog.Warn("slack not configured, running without digests")
	}

	proc := processor.New(analyzer.New(llm, slog.Default()), db, pub, notifier, slog.Default())

	if *batchDir != "" {
		runner := batch.NewRunner(batch.Config{Dir: *batchDir, DryRun: *dryRun}, proc, slog.Default())
		if err := runner.Run(ctx); err != nil {
			slog.Error("batch failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, proc, db, cfg.MaxUploadBytes)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if pub != nil {
		if err := pub.Publish(events.SubjectServiceStarted, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
		}); err != nil {
			slog.Warn("failed to publish startup event", "error", err)
		}
	}

	slog.Info("chatlens ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("chatlens stopped")
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
