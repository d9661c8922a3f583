package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Server Status ===")
	c.io.Println()

	health, err := c.apiClient.Health(ctx)
	if err != nil {
		// Не прерываем выполнение, архив доступен и без сервера
		c.io.Printf("Server: unreachable (%v)\n", err)
	} else {
		c.io.Printf("Server: %s\n", health.Status)
		c.io.Printf("Version: %s\n", health.Version)
		c.io.Printf("Open sessions: %d\n", health.Sessions)
	}

	c.io.Println()
	c.io.Println("=== Export Archive ===")
	c.io.Println()

	if c.archive == nil {
		c.io.Println("Archive disabled")
		return nil
	}

	snapshots, err := c.archive.ListSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	c.io.Printf("Archived exports: %d\n", len(snapshots))

	ts, err := c.archive.GetLastExportTimestamp(ctx)
	if err != nil {
		return fmt.Errorf("failed to get last export time: %w", err)
	}
	if ts == 0 {
		c.io.Println("Last export: never")
	} else {
		exported := time.Unix(ts, 0)
		c.io.Printf("Last export: %s (%s ago)\n", exported.Format(time.RFC3339), time.Since(exported).Round(time.Second))
	}

	return nil
}
