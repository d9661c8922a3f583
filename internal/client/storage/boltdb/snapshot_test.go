package boltdb

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/todoist/internal/client/storage"
)

func TestSaveSnapshot_AssignsSeqAndID(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	first := &storage.Snapshot{File: "output_list.txt", Items: []string{"buy milk", "walk dog"}}
	second := &storage.Snapshot{File: "output_list.txt", Items: []string{"walk dog"}}
	require.NoError(t, store.SaveSnapshot(ctx, first))
	require.NoError(t, store.SaveSnapshot(ctx, second))

	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, uint64(2), second.Seq)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.CreatedAt.IsZero())

	got, err := store.GetSnapshot(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, []string{"buy milk", "walk dog"}, got.Items)
	assert.Equal(t, "output_list.txt", got.File)
}

func TestGetSnapshot_NotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetSnapshot(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
}

func TestLatestSnapshot(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.LatestSnapshot(ctx)
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)

	for _, items := range [][]string{{"a"}, {"a", "b"}, {"c"}} {
		require.NoError(t, store.SaveSnapshot(ctx, &storage.Snapshot{Items: items}))
	}

	latest, err := store.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), latest.Seq)
	assert.Equal(t, []string{"c"}, latest.Items)
}

func TestListSnapshots(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	list, err := store.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Больше 255 записей, чтобы проверить порядок big-endian ключей
	for i := 0; i < 300; i++ {
		require.NoError(t, store.SaveSnapshot(ctx, &storage.Snapshot{Items: []string{"x"}}))
	}

	list, err = store.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, list, 300)
	for i, snap := range list {
		assert.Equal(t, uint64(i+1), snap.Seq)
	}
}

func TestSnapshots_Closed(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.SaveSnapshot(ctx, &storage.Snapshot{}), storage.ErrStorageClosed)
	_, err := store.GetSnapshot(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	_, err = store.LatestSnapshot(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	_, err = store.ListSnapshots(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
