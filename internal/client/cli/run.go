package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/todoist/internal/client/api"
	"github.com/iudanet/todoist/internal/client/channel"
	"github.com/iudanet/todoist/internal/client/dispatch"
	"github.com/iudanet/todoist/internal/client/entry"
	"github.com/iudanet/todoist/internal/client/persist"
	"github.com/iudanet/todoist/internal/client/storage"
	"github.com/iudanet/todoist/internal/client/todo"
	"github.com/iudanet/todoist/internal/crypto"
	"github.com/iudanet/todoist/internal/token"
	papi "github.com/iudanet/todoist/pkg/api"
)

// runSession открывает фрейм, строит страницу и обрабатывает события
// до закрытия фрейма. preload, если задан, загружается сразу после построения страницы.
// Прерывание по сигналу на любом шаге считается штатным завершением.
func (c *Cli) runSession(ctx context.Context, preload []string) error {
	err := c.serveSession(ctx, preload)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled)) {
		c.logger.Info("Interrupted, session closed", "error", err)
		c.io.Println("Interrupted")
		return nil
	}
	return err
}

func (c *Cli) serveSession(ctx context.Context, preload []string) error {
	secret, err := c.readSecret()
	if err != nil {
		return err
	}

	key, err := crypto.DeriveSigningKey(secret)
	if err != nil {
		return fmt.Errorf("failed to derive signing key: %w", err)
	}
	c.logger.Debug("Signing key derived", "fingerprint", crypto.Fingerprint(key))

	tok, err := token.Issue(token.Config{Secret: key}, c.opts.Client, c.opts.Target)
	if err != nil {
		return fmt.Errorf("failed to issue session token: %w", err)
	}

	session, err := c.apiClient.OpenSession(ctx, api.SessionOptions{
		Target: c.opts.Target,
		Title:  c.opts.Title,
		Token:  tok,
	})
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			c.logger.Debug("Session close", "error", err)
		}
	}()

	ch := channel.New(session, c.logger, nil)
	svc := todo.NewService(ch, entry.NewStore(c.opts.Capacity), c.logger)

	var archive storage.ExportArchive
	if c.archive != nil {
		archive = c.archive
	}
	codec := persist.NewCodec(svc, c.opts.File, archive, c.logger)

	if _, err := svc.Setup(ctx); err != nil {
		return fmt.Errorf("failed to build page: %w", err)
	}

	if preload != nil {
		if err := codec.LoadRecords(ctx, preload); err != nil {
			return fmt.Errorf("failed to restore entries: %w", err)
		}
	}

	d := dispatch.New(ch, c.logger)
	d.Handle(todo.RequestorNewEntry, func(ctx context.Context, _ papi.Instruction) error {
		_, err := svc.CreateEntry(ctx)
		return err
	})
	d.Handle(todo.RequestorDelete, svc.DeleteEntry)
	d.Handle(todo.RequestorEdit, svc.EditEntry)
	d.Handle(todo.RequestorExport, func(ctx context.Context, _ papi.Instruction) error {
		return codec.Export(ctx)
	})
	d.Handle(todo.RequestorLoad, func(ctx context.Context, _ papi.Instruction) error {
		return codec.Load(ctx)
	})

	c.io.Println("To-do list is open. Close the frame to exit.")
	if err := d.Run(ctx); err != nil {
		return err
	}
	c.io.Printf("Frame closed, %d entries in the list\n", svc.Store().Len())
	return nil
}
