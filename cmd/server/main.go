package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iudanet/todoist/internal/client/iocli"
	"github.com/iudanet/todoist/internal/crypto"
	"github.com/iudanet/todoist/internal/server/console"
	"github.com/iudanet/todoist/internal/server/handlers"
	"github.com/iudanet/todoist/internal/server/middleware"
	"github.com/iudanet/todoist/internal/server/render"
	"github.com/iudanet/todoist/internal/server/storage/sqlite"
	"github.com/iudanet/todoist/internal/token"
	"github.com/iudanet/todoist/internal/validation"
	"github.com/iudanet/todoist/pkg/api"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// Parse flags
	showVersion := flag.Bool("version", false, "Show version information")
	addr := flag.String("addr", ":8080", "Listen address")
	dbPath := flag.String("db", ":memory:", "SQLite database for document trees")
	secret := flag.String("secret", "", "Session secret (not recommended)")
	secretFile := flag.String("secret-file", "", "Path to file containing the session secret")
	rate := flag.Int("rate", 600, "Maximum session requests per client per minute")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	withConsole := flag.Bool("console", false, "Run the operator console on stdin")
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		return 0
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q\n", *logLevel)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sharedSecret, err := readSecret(*secret, *secretFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	key, err := crypto.DeriveSigningKey(sharedSecret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to derive signing key: %v\n", err)
		return 1
	}
	logger.Info("Signing key ready", "fingerprint", crypto.Fingerprint(key))

	engine := render.NewEngine(store, logger)

	limiter := middleware.NewRateLimiter(*rate, time.Minute)
	defer limiter.Stop()

	sessions := handlers.NewSessionHandler(logger, engine)
	health := handlers.NewHealthHandler(logger, Version, engine, store)

	mux := http.NewServeMux()
	mux.HandleFunc(api.PathHealth, health.Health)
	mux.Handle(api.PathSession, middleware.Chain(
		http.HandlerFunc(sessions.Open),
		middleware.AuthMiddleware(logger, token.Config{Secret: key}),
		middleware.RateLimitMiddleware(limiter, logger),
	))

	srv := &http.Server{
		Addr: *addr,
		Handler: middleware.Chain(mux,
			middleware.RecoveryMiddleware(logger),
			middleware.LoggingWithSkip(logger, []string{api.PathHealth}),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Render server listening", "addr", *addr, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if *withConsole {
		con := console.New(engine, iocli.NewStdio(), logger)
		go func() {
			if err := con.Run(ctx); err != nil {
				logger.Error("console stopped", "error", err)
			}
			// Выход из консоли останавливает сервер
			stop()
		}()
	}

	code := 0
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			logger.Error("server failed", "error", err)
			code = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := engine.CloseAll(shutdownCtx); err != nil {
		logger.Warn("failed to close sessions", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		code = 1
	}

	logger.Info("Render server stopped")
	return code
}

// readSecret returns the shared secret with priority: env TODOIST_SECRET, file, flag
func readSecret(fromArgs, fromFile string) (string, error) {
	secret := os.Getenv("TODOIST_SECRET")
	if secret == "" && fromFile != "" {
		content, err := os.ReadFile(fromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read secret file: %w", err)
		}
		secret = strings.TrimSpace(string(content))
	}
	if secret == "" {
		secret = fromArgs
	}
	if secret == "" {
		return "", fmt.Errorf("session secret is required: set TODOIST_SECRET, --secret-file or --secret")
	}
	if err := validation.ValidateSecret(secret); err != nil {
		return "", fmt.Errorf("invalid secret: %w", err)
	}
	return secret, nil
}

func printVersion() {
	fmt.Printf("Todoist Render Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
