package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/todoist/internal/client/storage"
)

const (
	keyLastExportTimestamp = "last_export_timestamp"
)

// putLastExportTimestamp сохраняет timestamp внутри уже открытой транзакции
func putLastExportTimestamp(tx *bbolt.Tx, timestamp int64) error {
	bucket := tx.Bucket(bucketMetadata)
	if bucket == nil {
		return fmt.Errorf("metadata bucket not found")
	}

	// Конвертируем int64 в bytes
	timestampBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timestampBytes, uint64(timestamp))

	if err := bucket.Put([]byte(keyLastExportTimestamp), timestampBytes); err != nil {
		return fmt.Errorf("failed to save last export timestamp: %w", err)
	}
	return nil
}

// GetLastExportTimestamp retrieves the unix time of the last archived export
// Returns 0 if nothing was exported yet
func (s *Storage) GetLastExportTimestamp(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var timestamp int64

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		timestampBytes := bucket.Get([]byte(keyLastExportTimestamp))
		if timestampBytes == nil {
			// Экспортов еще не было
			return nil
		}

		timestamp = int64(binary.BigEndian.Uint64(timestampBytes))
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to get last export timestamp: %w", err)
	}

	return timestamp, nil
}
