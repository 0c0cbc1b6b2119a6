package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"courier/auth"
	"courier/cache"
	"courier/domain/event"
	"courier/infrastructure/httpserver"
	"courier/internal"
	"courier/mailer"
	"courier/observability"
	"courier/repositories"
	"courier/runtime/workers"
	"courier/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes
// error reporting, so that deferred cleanups (database close, worker drain)
// always execute before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := newLogger(config.LogLevel)
	auth.SetSigningKey(config.AuthSecret)

	// 2. Database (BadgerDB)
	options := badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(options)
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Defer ensures the database lock is released and buffers are flushed.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories, cache and services
	userRepository := repositories.NewUserRepository(db)
	threadRepository := repositories.NewThreadRepository(db, logger)
	messageRepository := repositories.NewMessageRepository(db, logger)
	messageCache := cache.NewMessageCache(config.CacheTTL)
	notifications := make(chan event.MessageSent, config.NotifyBufferSize)

	resolver := services.NewThreadResolver(threadRepository, logger)
	messageService := services.NewMessageService(
		resolver, threadRepository, messageRepository, userRepository,
		messageCache, notifications, logger)
	searchService := services.NewSearchService(threadRepository, messageRepository)
	authService := services.NewAuthService(userRepository, config.AuthTokenDuration)

	monitor, err := observability.NewMonitor()
	if err != nil {
		return exitRuntime, fmt.Errorf("monitor init failed: %w", err)
	}

	// 4. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Notifier worker under supervision
	smtpMailer := mailer.NewSMTPMailer(config.SMTPHost, config.SMTPPort, config.SMTPFrom)
	supervisor := workers.NewSupervisor(logger)
	supervisor.Add(workers.NewNotifierWorker(notifications, smtpMailer, logger))

	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		supervisor.Run(ctx)
	}()

	// 6. HTTP server
	server := httpserver.NewServer(
		authService, messageService, searchService,
		userRepository, messageRepository, monitor, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler: server.Router(),
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return exitRuntime, err
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	// 7. Graceful shutdown: stop accepting requests, then drain workers.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "err", err)
	}
	supervisor.Stop()
	<-supervisorDone

	return exitOK, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
