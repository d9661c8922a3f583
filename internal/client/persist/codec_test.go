package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/todoist/internal/client/channel"
	"github.com/iudanet/todoist/internal/client/entry"
	"github.com/iudanet/todoist/internal/client/storage"
	"github.com/iudanet/todoist/internal/client/todo"
	"github.com/iudanet/todoist/internal/server/render"
	"github.com/iudanet/todoist/internal/testutil"
	"github.com/iudanet/todoist/pkg/api"
)

type testSession struct {
	svc   *todo.Service
	codec *Codec
	lb    *testutil.Loopback
}

func newTestSession(t *testing.T, path string, capacity int, archive storage.ExportArchive) *testSession {
	lb := testutil.New(t)
	ch := channel.New(lb, testutil.DiscardLogger(), nil)
	svc := todo.NewService(ch, entry.NewStore(capacity), testutil.DiscardLogger())
	return &testSession{
		svc:   svc,
		codec: NewCodec(svc, path, archive, testutil.DiscardLogger()),
		lb:    lb,
	}
}

func (s *testSession) add(t *testing.T, texts ...string) {
	for _, text := range texts {
		_, err := s.svc.Materialize(context.Background(), text)
		require.NoError(t, err)
	}
}

func TestNewCodec_DefaultPath(t *testing.T) {
	c := NewCodec(nil, "", nil, testutil.DiscardLogger())
	assert.Equal(t, DefaultFile, c.Path())
	assert.Equal(t, NotLoaded, c.State())
}

func TestCodec_ExportThenLoadInFreshSession(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "list.txt")

	first := newTestSession(t, path, 0, nil)
	first.add(t, "buy milk", "walk the dog", "call mum")
	require.NoError(t, first.codec.Export(ctx))
	assert.Equal(t, []string{todo.MsgExported}, first.lb.MessageDialogs(t))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "buy milk\nwalk the dog\ncall mum\n", string(data))

	second := newTestSession(t, path, 0, nil)
	require.NoError(t, second.codec.Load(ctx))

	assert.Equal(t, Loaded, second.codec.State())
	assert.Equal(t, []string{"buy milk", "walk the dog", "call mum"}, second.svc.Store().Texts())
	assert.Equal(t, []string{todo.MsgLoaded}, second.lb.MessageDialogs(t))

	// Записи отрисованы на сервере
	for _, e := range second.svc.Store().Entries() {
		assert.Equal(t, e.Text, second.lb.Content(t, e.Locations.Text))
	}
}

func TestCodec_ExportTruncates(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("old\nstale\nlines\n"), 0o600))

	s := newTestSession(t, path, 0, nil)
	s.add(t, "fresh")
	require.NoError(t, s.codec.Export(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(data))
}

func TestCodec_LoadTwice(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o600))

	s := newTestSession(t, path, 0, nil)
	require.NoError(t, s.codec.Load(ctx))
	require.Equal(t, []string{"a", "b"}, s.svc.Store().Texts())

	require.NoError(t, s.codec.Load(ctx))
	assert.Equal(t, []string{"a", "b"}, s.svc.Store().Texts())
	assert.Equal(t, []string{todo.MsgLoaded, todo.MsgLoadedTwice}, s.lb.MessageDialogs(t))
}

func TestCodec_LoadAppendsToLiveEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file\n"), 0o600))

	s := newTestSession(t, path, 0, nil)
	s.add(t, "typed first")
	require.NoError(t, s.codec.Load(ctx))

	assert.Equal(t, []string{"typed first", "from file"}, s.svc.Store().Texts())
	entries := s.svc.Store().Entries()
	assert.Less(t, entries[0].Identity, entries[1].Identity)
}

func TestCodec_LoadMissingFile(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, filepath.Join(t.TempDir(), "nope.txt"), 0, nil)

	require.NoError(t, s.codec.Load(ctx))
	assert.Equal(t, NotLoaded, s.codec.State())
	assert.Zero(t, s.svc.Store().Len())
	assert.Equal(t, []string{todo.MsgLoadFailed}, s.lb.MessageDialogs(t))
}

func TestCodec_LoadEmptyFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o600))

	s := newTestSession(t, path, 0, nil)
	require.NoError(t, s.codec.Load(ctx))

	// Пустой файл не блокирует повторную загрузку
	assert.Equal(t, NotLoaded, s.codec.State())
	assert.Equal(t, []string{todo.MsgEmptyFile}, s.lb.MessageDialogs(t))

	require.NoError(t, os.WriteFile(path, []byte("now there is one\n"), 0o600))
	require.NoError(t, s.codec.Load(ctx))
	assert.Equal(t, Loaded, s.codec.State())
	assert.Equal(t, []string{"now there is one"}, s.svc.Store().Texts())
}

func TestCodec_LoadBeyondCapacity(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\nd\ne\n"), 0o600))

	s := newTestSession(t, path, 3, nil)
	require.NoError(t, s.codec.Load(ctx))

	assert.Equal(t, []string{"a", "b", "c"}, s.svc.Store().Texts())
	assert.Equal(t, Loaded, s.codec.State())

	msgs := s.lb.MessageDialogs(t)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "2 entries were not loaded")
	assert.Equal(t, todo.MsgLoaded, msgs[1])
}

func TestCodec_ExportFailure(t *testing.T) {
	ctx := context.Background()
	// Путь в несуществующей директории
	s := newTestSession(t, filepath.Join(t.TempDir(), "missing", "list.txt"), 0, nil)
	s.add(t, "a")

	require.NoError(t, s.codec.Export(ctx))
	assert.Equal(t, []string{todo.MsgExportFailed}, s.lb.MessageDialogs(t))
}

func TestCodec_ExportArchives(t *testing.T) {
	ctx := context.Background()
	archive := &storage.ExportArchiveMock{
		SaveSnapshotFunc: func(ctx context.Context, snap *storage.Snapshot) error {
			snap.Seq = 1
			return nil
		},
	}

	path := filepath.Join(t.TempDir(), "list.txt")
	s := newTestSession(t, path, 0, archive)
	s.add(t, "a", "b")
	require.NoError(t, s.codec.Export(ctx))

	calls := archive.SaveSnapshotCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"a", "b"}, calls[0].Snap.Items)
	assert.Equal(t, path, calls[0].Snap.File)
}

func TestCodec_ArchiveFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	archive := &storage.ExportArchiveMock{
		SaveSnapshotFunc: func(ctx context.Context, snap *storage.Snapshot) error {
			return errors.New("archive locked")
		},
	}

	s := newTestSession(t, filepath.Join(t.TempDir(), "list.txt"), 0, archive)
	s.add(t, "a")

	require.NoError(t, s.codec.Export(ctx))
	assert.Equal(t, []string{todo.MsgExported}, s.lb.MessageDialogs(t))
}

func TestCodec_LoadRecords(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, filepath.Join(t.TempDir(), "list.txt"), 0, nil)

	require.NoError(t, s.codec.LoadRecords(ctx, []string{"restored"}))
	assert.Equal(t, []string{"restored"}, s.svc.Store().Texts())
	assert.Equal(t, Loaded, s.codec.State())
}

func TestCodec_LoadSkipsBlankRecords(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "list.txt")
	// Файл, поправленный руками: строка из одних пробелов
	require.NoError(t, os.WriteFile(path, []byte("buy milk\n   \ncall mum\n"), 0o600))

	s := newTestSession(t, path, 0, nil)
	require.NoError(t, s.codec.Load(ctx))

	assert.Equal(t, Loaded, s.codec.State())
	assert.Equal(t, []string{"buy milk", "call mum"}, s.svc.Store().Texts())
	assert.Equal(t, []string{todo.MsgLoaded}, s.lb.MessageDialogs(t))
}

func TestCodec_LoadRecordsBlankOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, filepath.Join(t.TempDir(), "list.txt"), 0, nil)

	require.NoError(t, s.codec.LoadRecords(ctx, []string{"  ", "\t"}))

	assert.Equal(t, NotLoaded, s.codec.State())
	assert.Zero(t, s.svc.Store().Len())
	assert.Equal(t, []string{todo.MsgEmptyFile}, s.lb.MessageDialogs(t))
}

func TestCodec_LoadIntoFullStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o600))

	s := newTestSession(t, path, 1, nil)
	s.add(t, "live")
	require.NoError(t, s.codec.Load(ctx))

	// Ничего не загружено, загрузку можно повторить
	assert.Equal(t, NotLoaded, s.codec.State())
	assert.Equal(t, []string{"live"}, s.svc.Store().Texts())
	msgs := s.lb.MessageDialogs(t)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "2 entries were not loaded")

	// После освобождения места повторная загрузка проходит
	live := s.svc.Store().Entries()[0]
	ev := api.NewInstruction(api.OpEvent, todo.RequestorDelete, live.Locations.Delete, render.EventClick)
	require.NoError(t, s.svc.DeleteEntry(ctx, ev))

	require.NoError(t, s.codec.Load(ctx))
	assert.Equal(t, Loaded, s.codec.State())
	assert.Equal(t, []string{"a"}, s.svc.Store().Texts())
}
