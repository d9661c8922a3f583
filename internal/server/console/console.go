// Package console is an operator prompt that plays the user of the render
// server: it shows the document, clicks elements and answers dialogs.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/iudanet/todoist/internal/client/iocli"
	"github.com/iudanet/todoist/internal/models"
	"github.com/iudanet/todoist/internal/server/render"
	"github.com/iudanet/todoist/pkg/api"
)

// ErrQuit is returned by Exec for the quit command
var ErrQuit = errors.New("console: quit")

// ErrNoSession is returned when a command needs a session and none is selected
var ErrNoSession = errors.New("no session selected")

// Engine is the part of the render engine the console drives
type Engine interface {
	SetDialogHook(hook render.DialogHook)
	Sessions(ctx context.Context) ([]*models.Frame, error)
	Dump(ctx context.Context, sessionID string, w io.Writer) error
	Click(ctx context.Context, sessionID string, location api.Location) (int, error)
	ClickByID(ctx context.Context, sessionID, htmlID string) (int, error)
	Answer(ctx context.Context, sessionID, text string) error
	Dismiss(ctx context.Context, sessionID string) error
	Dialogs(ctx context.Context, sessionID string) ([]*models.Dialog, error)
	Close(ctx context.Context, sessionID string) error
}

const usage = `Commands:
  sessions          list attached sessions
  use <id>          select a session (prefix is enough)
  tree              print the document of the selected session
  click <id|loc>    click an element by id attribute or location
  answer <text>     answer the oldest pending input dialog
  dismiss           cancel the oldest pending input dialog
  dialogs           list dialogs of the selected session
  close             close the selected session frame
  help              show this help
  quit              leave the console`

// Console выполняет команды оператора над движком
type Console struct {
	engine  Engine
	io      iocli.IO
	logger  *slog.Logger
	current string
	mu      sync.Mutex
}

// New создает консоль и подписывается на диалоги движка
func New(engine Engine, io iocli.IO, logger *slog.Logger) *Console {
	c := &Console{
		engine: engine,
		io:     io,
		logger: logger,
	}
	engine.SetDialogHook(c.showDialog)
	return c
}

// Run читает команды до EOF, quit или отмены контекста
func (c *Console) Run(ctx context.Context) error {
	c.io.Println(`Render console. Type "help" for commands.`)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := c.io.ReadInput("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read command: %w", err)
		}

		if err := c.Exec(ctx, line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			c.io.Printf("Error: %v\n", err)
		}
	}
}

// Exec выполняет одну команду
func (c *Console) Exec(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
		return nil
	case "help":
		c.io.Println(usage)
		return nil
	case "quit", "exit":
		return ErrQuit
	case "sessions":
		return c.sessions(ctx)
	case "use":
		return c.use(ctx, rest)
	}

	sessionID, err := c.selected(ctx)
	if err != nil {
		return err
	}

	switch cmd {
	case "tree":
		return c.engine.Dump(ctx, sessionID, c.io)
	case "click":
		return c.click(ctx, sessionID, rest)
	case "answer":
		if rest == "" {
			return errors.New("usage: answer <text>")
		}
		return c.engine.Answer(ctx, sessionID, rest)
	case "dismiss":
		return c.engine.Dismiss(ctx, sessionID)
	case "dialogs":
		return c.dialogs(ctx, sessionID)
	case "close":
		if err := c.engine.Close(ctx, sessionID); err != nil {
			return err
		}
		c.mu.Lock()
		c.current = ""
		c.mu.Unlock()
		c.io.Printf("Session %s closed\n", sessionID)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (c *Console) sessions(ctx context.Context) error {
	frames, err := c.engine.Sessions(ctx)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		c.io.Println("No sessions")
		return nil
	}

	current := c.currentID()
	for _, f := range frames {
		mark := " "
		if f.ID == current {
			mark = "*"
		}
		c.io.Printf("%s %s  client=%s target=%q title=%q since %s\n",
			mark, f.ID, f.Client, f.Target, f.Title, f.CreatedAt.Format("15:04:05"))
	}
	return nil
}

func (c *Console) use(ctx context.Context, prefix string) error {
	if prefix == "" {
		return errors.New("usage: use <id>")
	}

	frames, err := c.engine.Sessions(ctx)
	if err != nil {
		return err
	}

	var found []string
	for _, f := range frames {
		if strings.HasPrefix(f.ID, prefix) {
			found = append(found, f.ID)
		}
	}
	switch len(found) {
	case 0:
		return fmt.Errorf("%w: %s", render.ErrSessionNotFound, prefix)
	case 1:
	default:
		return fmt.Errorf("ambiguous session prefix %q", prefix)
	}

	c.mu.Lock()
	c.current = found[0]
	c.mu.Unlock()
	c.io.Printf("Using session %s\n", found[0])
	return nil
}

// selected возвращает выбранную сессию; единственная сессия выбирается сама
func (c *Console) selected(ctx context.Context) (string, error) {
	if id := c.currentID(); id != "" {
		return id, nil
	}

	frames, err := c.engine.Sessions(ctx)
	if err != nil {
		return "", err
	}
	if len(frames) != 1 {
		return "", ErrNoSession
	}

	c.mu.Lock()
	c.current = frames[0].ID
	c.mu.Unlock()
	return frames[0].ID, nil
}

func (c *Console) currentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Console) click(ctx context.Context, sessionID, target string) error {
	if target == "" {
		return errors.New("usage: click <id|location>")
	}

	var (
		n   int
		err error
	)
	if loc, convErr := strconv.ParseUint(target, 10, 64); convErr == nil {
		n, err = c.engine.Click(ctx, sessionID, api.Location(loc))
	} else {
		n, err = c.engine.ClickByID(ctx, sessionID, target)
	}
	if err != nil {
		return err
	}

	if n == 0 {
		c.io.Println("Nobody listens to clicks there")
	}
	return nil
}

func (c *Console) dialogs(ctx context.Context, sessionID string) error {
	dialogs, err := c.engine.Dialogs(ctx, sessionID)
	if err != nil {
		return err
	}
	for _, d := range dialogs {
		state := ""
		if d.Kind == models.DialogKindInput && !d.Answered {
			state = " (pending)"
		}
		c.io.Printf("#%d %s %q: %s%s\n", d.ID, d.Kind, d.Title, d.Text, state)
	}
	return nil
}

func (c *Console) showDialog(sessionID string, d *models.Dialog) {
	c.logger.Debug("dialog opened", slog.String("session", sessionID), slog.String("kind", string(d.Kind)))

	switch d.Kind {
	case models.DialogKindInput:
		c.io.Printf("\n[%s] %s: %s [%s]\n(answer <text> | dismiss)\n", shortID(sessionID), d.Title, d.Text, d.Value)
	default:
		c.io.Printf("\n[%s] %s: %s\n", shortID(sessionID), d.Title, d.Text)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
