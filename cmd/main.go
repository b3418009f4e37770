package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"github.com/hmZa-Sfyn/custom-irc-server/moderation"
	"github.com/hmZa-Sfyn/custom-irc-server/observability"
	"github.com/hmZa-Sfyn/custom-irc-server/repositories"
	"github.com/hmZa-Sfyn/custom-irc-server/runtime"
	"github.com/hmZa-Sfyn/custom-irc-server/runtime/workers"
	"github.com/hmZa-Sfyn/custom-irc-server/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so that every defer (database close, session
// drain) executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := newLogger(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	// Defer will be executed before run() returned anything to main()
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Moderation
	words, err := moderation.EmbeddedWords()
	if err != nil {
		return fmt.Errorf("loading censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(words, config.ModerationCharReplacement, log)
	if err != nil {
		return fmt.Errorf("building moderator: %w", err)
	}

	// 4. Relay core
	tracker := observability.NewTracker()
	registry := runtime.NewRegistry()
	history := repositories.NewHistoryRepository(db, log)
	delivery := runtime.NewDelivery(registry, tracker, log)
	interpreter := runtime.NewInterpreter(registry, delivery, history, moderator, tracker, log)
	lifecycle := runtime.NewLifecycle(registry, delivery, interpreter, tracker, log)

	// 5. Listener
	// Bound here rather than inside the worker: a busy port must fail the
	// process instead of crash-looping under supervision.
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	log.Info("Chat relay listening", "address", address)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 7. Supervised workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		server.NewChatServer(log, listener, lifecycle, config.SinkTimeout),
		workers.NewMonitorWorker(log, registry, tracker, config.MetricInterval),
	)
	sup.Run(ctx)

	log.Info("Program stopped cleanly")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
