package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/todoist/pkg/api"
)

// newTestEntry создает entry с последовательными location начиная с base
func newTestEntry(s *Store, text string, base api.Location) Entry {
	return Entry{
		Identity: s.AllocateIdentity(),
		Text:     text,
		Locations: Locations{
			Container: base,
			Text:      base + 1,
			Delete:    base + 2,
			Edit:      base + 3,
		},
	}
}

func TestNewStore_DefaultCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     int
	}{
		{name: "zero uses default", capacity: 0, want: DefaultCapacity},
		{name: "negative uses default", capacity: -5, want: DefaultCapacity},
		{name: "explicit capacity", capacity: 3, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(tt.capacity)
			assert.Equal(t, tt.want, s.Capacity())
			assert.Equal(t, 0, s.Len())
			assert.Equal(t, 1, s.PeekIdentity())
		})
	}
}

func TestNamesFor(t *testing.T) {
	names := NamesFor(12)
	assert.Equal(t, "entryDivID12", names.Container)
	assert.Equal(t, "textID12", names.Text)
	assert.Equal(t, "deleteButtonID12", names.Delete)
	assert.Equal(t, "editButtonID12", names.Edit)
}

func TestStore_InsertAndLookup(t *testing.T) {
	s := NewStore(10)
	e := newTestEntry(s, "buy milk", 10)
	require.NoError(t, s.Insert(e))

	got, err := s.Get(10)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	// Поиск по кнопкам удаления и редактирования
	byDelete, err := s.ByControl(12)
	require.NoError(t, err)
	assert.Equal(t, e, byDelete)

	byEdit, err := s.ByControl(13)
	require.NoError(t, err)
	assert.Equal(t, e, byEdit)

	// Текстовый узел не является контролом
	_, err = s.ByControl(11)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestStore_InsertRejectsEmptyText(t *testing.T) {
	s := NewStore(10)
	for _, text := range []string{"", "   ", "\t\n"} {
		err := s.Insert(newTestEntry(s, text, 10))
		assert.ErrorIs(t, err, ErrEmptyText)
	}
	assert.Equal(t, 0, s.Len())
}

func TestStore_InsertDuplicateLocation(t *testing.T) {
	s := NewStore(10)
	require.NoError(t, s.Insert(newTestEntry(s, "first", 10)))

	err := s.Insert(newTestEntry(s, "second", 10))
	assert.ErrorIs(t, err, ErrDuplicateLocation)

	// Контрол пересекается с уже существующей записью
	clash := newTestEntry(s, "third", 20)
	clash.Locations.Edit = 12
	err = s.Insert(clash)
	assert.ErrorIs(t, err, ErrDuplicateLocation)

	assert.Equal(t, []string{"first"}, s.Texts())
}

func TestStore_CapacityExceeded(t *testing.T) {
	s := NewStore(2)
	require.NoError(t, s.Insert(newTestEntry(s, "one", 10)))
	assert.False(t, s.Full())
	require.NoError(t, s.Insert(newTestEntry(s, "two", 20)))
	assert.True(t, s.Full())

	err := s.Insert(newTestEntry(s, "three", 30))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, []string{"one", "two"}, s.Texts())
}

func TestStore_UpdateText(t *testing.T) {
	s := NewStore(10)
	require.NoError(t, s.Insert(newTestEntry(s, "old", 10)))

	require.NoError(t, s.UpdateText(10, "new"))
	got, err := s.Get(10)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Text)

	assert.ErrorIs(t, s.UpdateText(10, ""), ErrEmptyText)
	assert.ErrorIs(t, s.UpdateText(99, "x"), ErrEntryNotFound)

	got, err = s.Get(10)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Text)
}

func TestStore_DeleteTwice(t *testing.T) {
	s := NewStore(10)
	require.NoError(t, s.Insert(newTestEntry(s, "keep", 10)))
	require.NoError(t, s.Insert(newTestEntry(s, "drop", 20)))

	deleted, err := s.Delete(20)
	require.NoError(t, err)
	assert.Equal(t, "drop", deleted.Text)

	// Повторное удаление не должно портить хранилище
	_, err = s.Delete(20)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = s.ByControl(22)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []string{"keep"}, s.Texts())
}

func TestStore_IdentityNeverReused(t *testing.T) {
	s := NewStore(10)
	first := newTestEntry(s, "a", 10)
	require.NoError(t, s.Insert(first))
	_, err := s.Delete(10)
	require.NoError(t, err)

	second := newTestEntry(s, "b", 20)
	require.NoError(t, s.Insert(second))
	assert.Greater(t, second.Identity, first.Identity)

	// Insert с большим identity сдвигает счетчик вперед
	foreign := Entry{
		Identity:  50,
		Text:      "c",
		Locations: Locations{Container: 30, Text: 31, Delete: 32, Edit: 33},
	}
	require.NoError(t, s.Insert(foreign))
	assert.Equal(t, 51, s.PeekIdentity())
}

func TestStore_EntriesOrder(t *testing.T) {
	s := NewStore(10)
	require.NoError(t, s.Insert(newTestEntry(s, "one", 10)))
	require.NoError(t, s.Insert(newTestEntry(s, "two", 20)))
	require.NoError(t, s.Insert(newTestEntry(s, "three", 30)))
	_, err := s.Delete(20)
	require.NoError(t, err)
	require.NoError(t, s.Insert(newTestEntry(s, "four", 40)))

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, api.Location(10), entries[0].Locations.Container)
	assert.Equal(t, api.Location(30), entries[1].Locations.Container)
	assert.Equal(t, api.Location(40), entries[2].Locations.Container)
	assert.Equal(t, []string{"one", "three", "four"}, s.Texts())
}
