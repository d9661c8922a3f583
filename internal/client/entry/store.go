package entry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iudanet/todoist/pkg/api"
)

// DefaultCapacity is the number of entries a store holds when no capacity is configured.
const DefaultCapacity = 1000

// Element id prefixes. An entry with identity n owns elements named prefix+n.
const (
	ContainerIDPrefix = "entryDivID"
	TextIDPrefix      = "textID"
	DeleteIDPrefix    = "deleteButtonID"
	EditIDPrefix      = "editButtonID"
)

// Locations records where the elements of one entry live in the remote document.
type Locations struct {
	Container api.Location
	Text      api.Location
	Delete    api.Location
	Edit      api.Location
}

// Entry is one to-do item.
type Entry struct {
	Text      string
	Locations Locations
	Identity  int
}

// Names returns the element ids derived from an identity.
type Names struct {
	Container string
	Text      string
	Delete    string
	Edit      string
}

// NamesFor builds the element ids for an identity.
func NamesFor(identity int) Names {
	n := strconv.Itoa(identity)
	return Names{
		Container: ContainerIDPrefix + n,
		Text:      TextIDPrefix + n,
		Delete:    DeleteIDPrefix + n,
		Edit:      EditIDPrefix + n,
	}
}

// Store maps live entries to their remote locations.
//
// Entries are indexed by container location; delete and edit controls are
// indexed back to their container. The store is owned by a single session
// control path and is not safe for concurrent use.
type Store struct {
	entries  map[api.Location]*Entry
	controls map[api.Location]api.Location
	order    []api.Location
	capacity int
	next     int
}

// NewStore creates an empty store. Non-positive capacity selects DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		entries:  make(map[api.Location]*Entry),
		controls: make(map[api.Location]api.Location),
		capacity: capacity,
		next:     1,
	}
}

// Capacity returns the maximum number of live entries.
func (s *Store) Capacity() int {
	return s.capacity
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Full reports whether another entry would exceed the capacity.
func (s *Store) Full() bool {
	return len(s.entries) >= s.capacity
}

// AllocateIdentity returns the next identity and advances the counter.
// Identities are never handed out twice, even if the entry is never inserted.
func (s *Store) AllocateIdentity() int {
	id := s.next
	s.next++
	return id
}

// PeekIdentity returns the identity the next AllocateIdentity call will return.
func (s *Store) PeekIdentity() int {
	return s.next
}

// Insert adds a live entry.
func (s *Store) Insert(e Entry) error {
	if strings.TrimSpace(e.Text) == "" {
		return ErrEmptyText
	}
	if s.Full() {
		return fmt.Errorf("%w: capacity %d", ErrCapacityExceeded, s.capacity)
	}

	loc := e.Locations
	if _, ok := s.entries[loc.Container]; ok {
		return fmt.Errorf("%w: container %d", ErrDuplicateLocation, loc.Container)
	}
	for _, c := range []api.Location{loc.Delete, loc.Edit} {
		if _, ok := s.controls[c]; ok {
			return fmt.Errorf("%w: control %d", ErrDuplicateLocation, c)
		}
	}

	stored := e
	s.entries[loc.Container] = &stored
	s.controls[loc.Delete] = loc.Container
	s.controls[loc.Edit] = loc.Container
	s.order = append(s.order, loc.Container)

	// Идентификаторы выдаются только вперед, даже если entry пришла с чужим identity
	if e.Identity >= s.next {
		s.next = e.Identity + 1
	}
	return nil
}

// Get returns a copy of the entry owning the container.
func (s *Store) Get(container api.Location) (Entry, error) {
	e, ok := s.entries[container]
	if !ok {
		return Entry{}, fmt.Errorf("%w: container %d", ErrEntryNotFound, container)
	}
	return *e, nil
}

// ByControl resolves the entry whose delete or edit control lives at loc.
func (s *Store) ByControl(loc api.Location) (Entry, error) {
	container, ok := s.controls[loc]
	if !ok {
		return Entry{}, fmt.Errorf("%w: control %d", ErrEntryNotFound, loc)
	}
	return s.Get(container)
}

// UpdateText replaces the text of a live entry.
func (s *Store) UpdateText(container api.Location, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	e, ok := s.entries[container]
	if !ok {
		return fmt.Errorf("%w: container %d", ErrEntryNotFound, container)
	}
	e.Text = text
	return nil
}

// Delete removes a live entry and forgets all of its locations.
func (s *Store) Delete(container api.Location) (Entry, error) {
	e, ok := s.entries[container]
	if !ok {
		return Entry{}, fmt.Errorf("%w: container %d", ErrEntryNotFound, container)
	}

	delete(s.entries, container)
	delete(s.controls, e.Locations.Delete)
	delete(s.controls, e.Locations.Edit)
	for i, c := range s.order {
		if c == container {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return *e, nil
}

// Entries returns copies of the live entries in insertion order.
func (s *Store) Entries() []Entry {
	result := make([]Entry, 0, len(s.order))
	for _, c := range s.order {
		result = append(result, *s.entries[c])
	}
	return result
}

// Texts returns the texts of the live entries in insertion order.
func (s *Store) Texts() []string {
	result := make([]string, 0, len(s.order))
	for _, c := range s.order {
		result = append(result, s.entries[c].Text)
	}
	return result
}
