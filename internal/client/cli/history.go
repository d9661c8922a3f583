package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/iudanet/todoist/internal/client/storage"
)

var errArchiveDisabled = errors.New("export archive is disabled, set --archive")

func (c *Cli) runHistory(ctx context.Context) error {
	if c.archive == nil {
		return errArchiveDisabled
	}

	snapshots, err := c.archive.ListSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		c.io.Println("No exports archived yet")
		return nil
	}

	c.io.Printf("%-5s %-20s %-8s %s\n", "SEQ", "EXPORTED", "ENTRIES", "FILE")
	for _, s := range snapshots {
		c.io.Printf("%-5d %-20s %-8d %s\n", s.Seq, s.CreatedAt.Format(time.DateTime), len(s.Items), s.File)
	}
	return nil
}

func (c *Cli) runRestore(ctx context.Context, args []string) error {
	if c.archive == nil {
		return errArchiveDisabled
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: todoist restore <seq>")
	}

	seq, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snapshot number %q: %w", args[0], err)
	}

	snap, err := c.archive.GetSnapshot(ctx, seq)
	if err != nil {
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			return fmt.Errorf("export #%d not found in archive", seq)
		}
		return fmt.Errorf("failed to get snapshot: %w", err)
	}

	c.io.Printf("Restoring export #%d (%d entries)\n", snap.Seq, len(snap.Items))
	// Пустой снимок все равно проходит через LoadRecords: пользователь увидит диалог
	items := snap.Items
	if items == nil {
		items = []string{}
	}
	return c.runSession(ctx, items)
}
