// Package persist exports the to-do list to a flat file and loads it back.
package persist

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/iudanet/todoist/internal/client/entry"
	"github.com/iudanet/todoist/internal/client/storage"
	"github.com/iudanet/todoist/internal/client/todo"
)

// DefaultFile is the export file used when none is configured
const DefaultFile = "output_list.txt"

// LoadState guards against loading twice in one session
type LoadState int

const (
	NotLoaded LoadState = iota
	Loaded
)

// Builder renders entries and shows dialogs; *todo.Service implements it
type Builder interface {
	Materialize(ctx context.Context, text string) (entry.Entry, error)
	Notify(ctx context.Context, title, text string) error
	Store() *entry.Store
}

// Codec exports the entry store to a file and loads it back once per session
type Codec struct {
	builder Builder
	archive storage.ExportArchive
	logger  *slog.Logger
	path    string
	state   LoadState
}

// NewCodec creates a codec writing to path. archive may be nil.
func NewCodec(builder Builder, path string, archive storage.ExportArchive, logger *slog.Logger) *Codec {
	if path == "" {
		path = DefaultFile
	}
	return &Codec{
		builder: builder,
		archive: archive,
		logger:  logger,
		path:    path,
	}
}

// Path returns the export file path
func (c *Codec) Path() string {
	return c.path
}

// State returns the load state
func (c *Codec) State() LoadState {
	return c.state
}

// Export writes every live entry to the file, truncating it.
// A write failure is shown to the user and logged; only transport errors are returned.
func (c *Codec) Export(ctx context.Context) error {
	texts := c.builder.Store().Texts()

	if err := writeFile(c.path, texts); err != nil {
		c.logger.Error("Failed to export entries", "file", c.path, "error", err)
		return c.builder.Notify(ctx, todo.TitleFailure, todo.MsgExportFailed)
	}
	c.logger.Info("Entries exported", "file", c.path, "count", len(texts))

	if c.archive != nil {
		snap := &storage.Snapshot{File: c.path, Items: texts}
		if err := c.archive.SaveSnapshot(ctx, snap); err != nil {
			// Файл уже записан, архив вторичен
			c.logger.Warn("Failed to archive export", "error", err)
		} else {
			c.logger.Debug("Export archived", "seq", snap.Seq, "id", snap.ID)
		}
	}

	return c.builder.Notify(ctx, todo.TitleSuccess, todo.MsgExported)
}

// Load reads the file and renders its records as new entries.
// It succeeds at most once per session.
func (c *Codec) Load(ctx context.Context) error {
	if c.state == Loaded {
		return c.builder.Notify(ctx, todo.TitleFailure, todo.MsgLoadedTwice)
	}

	records, err := readFile(c.path)
	if err != nil {
		c.logger.Error("Failed to load entries", "file", c.path, "error", err)
		return c.builder.Notify(ctx, todo.TitleFailure, todo.MsgLoadFailed)
	}

	return c.LoadRecords(ctx, records)
}

// LoadRecords renders records as new entries, appended after the live ones.
// Records that do not fit in the store are skipped and reported.
func (c *Codec) LoadRecords(ctx context.Context, records []string) error {
	if c.state == Loaded {
		return c.builder.Notify(ctx, todo.TitleFailure, todo.MsgLoadedTwice)
	}

	// Пустые после обрезки записи не становятся записями списка
	records = slices.DeleteFunc(slices.Clone(records), func(r string) bool {
		return strings.TrimSpace(r) == ""
	})
	if len(records) == 0 {
		return c.builder.Notify(ctx, todo.TitleEmptyFile, todo.MsgEmptyFile)
	}

	store := c.builder.Store()
	loaded := 0
	for _, record := range records {
		if store.Full() {
			break
		}
		if _, err := c.builder.Materialize(ctx, record); err != nil {
			return fmt.Errorf("failed to load record %d: %w", loaded+1, err)
		}
		loaded++
	}

	skipped := len(records) - loaded
	msg := fmt.Sprintf("%s %d entries were not loaded.", todo.MsgTooMany, skipped)
	if loaded == 0 {
		// Ничего не загружено: повторная попытка остается доступной
		c.logger.Warn("Entry store full, nothing loaded", "skipped", skipped)
		return c.builder.Notify(ctx, todo.TitleFailure, msg)
	}

	c.state = Loaded

	if skipped > 0 {
		c.logger.Warn("Entry store full, records skipped", "loaded", loaded, "skipped", skipped)
		if err := c.builder.Notify(ctx, todo.TitleFailure, msg); err != nil {
			return err
		}
	}

	c.logger.Info("Entries loaded", "file", c.path, "count", loaded)
	return c.builder.Notify(ctx, todo.TitleSuccess, todo.MsgLoaded)
}

func writeFile(path string, texts []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	return EncodeRecords(f, texts)
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return DecodeRecords(f)
}
