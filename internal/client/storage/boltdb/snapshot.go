package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/iudanet/todoist/internal/client/storage"
)

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// SaveSnapshot stores a snapshot, assigning its Seq and ID
func (s *Storage) SaveSnapshot(ctx context.Context, snap *storage.Snapshot) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			return fmt.Errorf("snapshots bucket not found")
		}

		// NextSequence монотонен в пределах файла и не откатывается при удалении
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate sequence: %w", err)
		}
		snap.Seq = seq
		snap.ID = uuid.New()

		data, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		if err := bucket.Put(seqKey(seq), data); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}

		return putLastExportTimestamp(tx, snap.CreatedAt.Unix())
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// GetSnapshot retrieves a snapshot by sequence number
func (s *Storage) GetSnapshot(ctx context.Context, seq uint64) (*storage.Snapshot, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var snap *storage.Snapshot

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			return storage.ErrSnapshotNotFound
		}

		data := bucket.Get(seqKey(seq))
		if data == nil {
			return storage.ErrSnapshotNotFound
		}

		snap = &storage.Snapshot{}
		if err := json.Unmarshal(data, snap); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return snap, nil
}

// LatestSnapshot returns the most recent snapshot
func (s *Storage) LatestSnapshot(ctx context.Context) (*storage.Snapshot, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var snap *storage.Snapshot

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			return storage.ErrSnapshotNotFound
		}

		_, data := bucket.Cursor().Last()
		if data == nil {
			return storage.ErrSnapshotNotFound
		}

		snap = &storage.Snapshot{}
		if err := json.Unmarshal(data, snap); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ListSnapshots returns all snapshots, oldest first
func (s *Storage) ListSnapshots(ctx context.Context) ([]*storage.Snapshot, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	snapshots := make([]*storage.Snapshot, 0)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			return nil
		}

		// Ключи big-endian, поэтому ForEach идет по возрастанию seq
		return bucket.ForEach(func(k, v []byte) error {
			var snap storage.Snapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return fmt.Errorf("failed to unmarshal snapshot: %w", err)
			}
			snapshots = append(snapshots, &snap)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}
