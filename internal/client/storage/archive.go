package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one export of the to-do list kept in the archive
type Snapshot struct {
	CreatedAt time.Time `json:"created_at"`
	File      string    `json:"file"`  // файл, в который был сделан экспорт
	Items     []string  `json:"items"` // тексты записей в порядке списка
	ID        uuid.UUID `json:"id"`
	Seq       uint64    `json:"seq"` // порядковый номер в архиве, начиная с 1
}

//go:generate moq -out archive_mock.go . ExportArchive

// ExportArchive keeps every export as a numbered snapshot
type ExportArchive interface {
	// SaveSnapshot stores a snapshot, assigning its Seq and ID
	SaveSnapshot(ctx context.Context, snap *Snapshot) error

	// GetSnapshot retrieves a snapshot by sequence number
	// Returns ErrSnapshotNotFound if there is no such snapshot
	GetSnapshot(ctx context.Context, seq uint64) (*Snapshot, error)

	// LatestSnapshot returns the most recent snapshot
	// Returns ErrSnapshotNotFound if the archive is empty
	LatestSnapshot(ctx context.Context) (*Snapshot, error)

	// ListSnapshots returns all snapshots, oldest first
	ListSnapshots(ctx context.Context) ([]*Snapshot, error)
}
