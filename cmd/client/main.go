package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/todoist/internal/client/api"
	"github.com/iudanet/todoist/internal/client/cli"
	"github.com/iudanet/todoist/internal/client/entry"
	"github.com/iudanet/todoist/internal/client/iocli"
	"github.com/iudanet/todoist/internal/client/persist"
	"github.com/iudanet/todoist/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Render server URL")
	target := flag.String("target", "", "Target frame name")
	title := flag.String("title", "To-do list", "Frame title")
	file := flag.String("file", persist.DefaultFile, "Export file")
	capacity := flag.Int("capacity", entry.DefaultCapacity, "Maximum number of entries")
	archivePath := flag.String("archive", "todoist-archive.db", "Export archive database, empty to disable")
	secret := flag.String("secret", "", "Session secret (not recommended)")
	secretFile := flag.String("secret-file", "", "Path to file containing the session secret")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Usage = cli.PrintUsage
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		return 0
	}

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		return 1
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q\n", *logLevel)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Открываем BoltDB архив экспортов
	var archive cli.Archive
	if *archivePath != "" {
		boltStorage, err := boltdb.New(ctx, *archivePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open archive: %v\n", err)
			return 1
		}
		defer func() {
			if err := boltStorage.Close(); err != nil {
				logger.Error("failed to close archive", "error", err)
			}
		}()
		archive = boltStorage
	}

	opts := cli.Options{
		Secrets: cli.Secrets{
			FromFile: *secretFile,
			FromArgs: *secret,
		},
		Client:   clientName(),
		Target:   *target,
		Title:    *title,
		File:     *file,
		Capacity: *capacity,
	}

	c := cli.New(iocli.NewStdio(), logger, api.NewClient(*serverURL, logger), archive, opts)

	// Выполняем команду
	if err := c.Run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUnknownCommand) {
			cli.PrintUsage()
		}
		return 1
	}
	return 0
}

// clientName возвращает имя клиента для токена сессии
func clientName() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "todoist"
}

func printVersion() {
	fmt.Printf("Todoist Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
