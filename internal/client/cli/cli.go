package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/iudanet/todoist/internal/client/api"
	"github.com/iudanet/todoist/internal/client/iocli"
	"github.com/iudanet/todoist/internal/client/storage"
	"github.com/iudanet/todoist/internal/validation"
)

// ErrUnknownCommand is returned by Run for a command it does not know
var ErrUnknownCommand = errors.New("unknown command")

// SecretEnv is the environment variable holding the shared session secret
const SecretEnv = "TODOIST_SECRET"

// Secrets перечисляет источники общего секрета, кроме переменной окружения
type Secrets struct {
	FromFile string
	FromArgs string
}

// Options собирает глобальные флаги клиента
type Options struct {
	Secrets  Secrets
	Client   string // имя клиента в токене сессии
	Target   string
	Title    string
	File     string // файл экспорта
	Capacity int
}

// Archive хранит снимки экспорта; *boltdb.Storage реализует его
type Archive interface {
	storage.ExportArchive
	storage.MetadataStorage
}

type Cli struct {
	io        iocli.IO
	logger    *slog.Logger
	apiClient api.ClientAPI
	archive   Archive
	opts      Options
}

// New создает CLI. archive может быть nil, тогда экспорт не архивируется.
func New(io iocli.IO, logger *slog.Logger, apiClient api.ClientAPI, archive Archive, opts Options) *Cli {
	return &Cli{
		io:        io,
		logger:    logger,
		apiClient: apiClient,
		archive:   archive,
		opts:      opts,
	}
}

// Run выполняет команду
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "run":
		return c.runSession(ctx, nil)
	case "status":
		return c.runStatus(ctx)
	case "history":
		return c.runHistory(ctx)
	case "restore":
		return c.runRestore(ctx, args)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// getSecret retrieves the shared secret from various sources with priority:
// 1. Environment variable TODOIST_SECRET
// 2. File specified in secrets.FromFile
// 3. Command-line parameter
// 4. Interactive prompt (fallback)
func (c *Cli) getSecret(secrets Secrets) (string, error) {
	// Priority 1: Environment variable
	if envSecret := os.Getenv(SecretEnv); envSecret != "" {
		return envSecret, nil
	}

	// Priority 2: File
	if secrets.FromFile != "" {
		content, err := os.ReadFile(secrets.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read secret file: %w", err)
		}
		// Убираем trailing newline/whitespace
		secret := strings.TrimSpace(string(content))
		if secret == "" {
			return "", fmt.Errorf("secret file is empty")
		}
		return secret, nil
	}

	// Priority 3: CLI parameter
	if secrets.FromArgs != "" {
		return secrets.FromArgs, nil
	}

	// Priority 4: Interactive prompt (fallback)
	secret, err := c.io.ReadSecret("Session secret: ")
	if err != nil {
		return "", fmt.Errorf("failed to read secret from stdin: %w", err)
	}
	if secret == "" {
		return "", fmt.Errorf("secret cannot be empty")
	}

	return secret, nil
}

// readSecret получает секрет и проверяет его
func (c *Cli) readSecret() (string, error) {
	secret, err := c.getSecret(c.opts.Secrets)
	if err != nil {
		return "", fmt.Errorf("failed to get secret: %w", err)
	}
	if err := validation.ValidateSecret(secret); err != nil {
		return "", fmt.Errorf("invalid secret: %w", err)
	}
	return secret, nil
}

func PrintUsage() {
	fmt.Println("Todoist Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  todoist [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version              Show version information")
	fmt.Println("  --server URL           Render server URL (default: http://localhost:8080)")
	fmt.Println("  --target NAME          Target frame name (default: new top-level frame)")
	fmt.Println("  --title TITLE          Frame title (default: To-do list)")
	fmt.Println("  --file PATH            Export file (default: output_list.txt)")
	fmt.Println("  --capacity N           Maximum number of entries (default: 1000)")
	fmt.Println("  --archive PATH         Export archive database, empty to disable (default: todoist-archive.db)")
	fmt.Println("  --secret SECRET        Session secret (not recommended, use env var or file)")
	fmt.Println("  --secret-file PATH     Path to file containing the session secret")
	fmt.Println("  --log-level LEVEL      debug, info, warn or error (default: info)")
	fmt.Println()
	fmt.Println("Secret Priority (highest to lowest):")
	fmt.Println("  1. TODOIST_SECRET environment variable")
	fmt.Println("  2. --secret-file (file path)")
	fmt.Println("  3. --secret (command line)")
	fmt.Println("  4. Interactive prompt (fallback)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run                    Open the to-do list on the render server")
	fmt.Println("  status                 Show server health and archive state")
	fmt.Println("  history                List archived exports")
	fmt.Println("  restore <seq>          Open the to-do list preloaded with an archived export")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  export TODOIST_SECRET='correct-horse-battery'")
	fmt.Println("  todoist run")
	fmt.Println("  todoist --file ~/todo.txt --target work run")
	fmt.Println("  todoist history")
	fmt.Println("  todoist restore 3")
}
