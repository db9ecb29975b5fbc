// Package collection holds the client's canonical copy of the book
// collection and shelf set.
//
// Every mutation bumps the collection version and notifies observers
// synchronously after the lock is released, before the mutating call
// returns. Mutations return a Prior that can later be passed to Revert.
package collection

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
)

// Local consistency faults. These indicate a caller bug, not a user error.
var (
	ErrNotFound       = errors.New("book not found")
	ErrDuplicateID    = errors.New("book id already present")
	ErrUnknownShelf   = errors.New("shelf not found")
	ErrDuplicateShelf = errors.New("shelf id already present")
)

// ChangeKind says what a Change did.
type ChangeKind string

const (
	ChangeLoaded   ChangeKind = "loaded"
	ChangeInserted ChangeKind = "inserted"
	ChangeUpdated  ChangeKind = "updated"
	ChangeRemoved  ChangeKind = "removed"
	ChangeReverted ChangeKind = "reverted"
	ChangeShelves  ChangeKind = "shelves"
)

// Change describes one applied mutation.
type Change struct {
	Kind    ChangeKind
	BookID  catalog.ID
	Version uint64
}

// Observer is called after every change.
type Observer func(Change)

type entry struct {
	book catalog.Book
	rev  [aspectCount]uint64
}

// State is safe for concurrent use.
type State struct {
	mu         sync.RWMutex
	books      map[catalog.ID]*entry
	order      []catalog.ID
	shelves    map[catalog.ID]catalog.Shelf
	shelfOrder []catalog.ID
	version    uint64
	// rev stamps aspect revisions. It is never reset, so an entry
	// recreated by Load or Revert never reuses a stamp an older Prior holds.
	rev uint64

	obsMu   sync.Mutex
	obs     map[int]Observer
	nextObs int
}

// New returns an empty collection.
func New() *State {
	return &State{
		books:   make(map[catalog.ID]*entry),
		shelves: make(map[catalog.ID]catalog.Shelf),
		obs:     make(map[int]Observer),
	}
}

// Subscribe registers fn for change notifications. The returned func
// removes it.
func (s *State) Subscribe(fn Observer) (cancel func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.obs[id] = fn
	s.obsMu.Unlock()
	return func() {
		s.obsMu.Lock()
		delete(s.obs, id)
		s.obsMu.Unlock()
	}
}

func (s *State) notify(c Change) {
	s.obsMu.Lock()
	fns := make([]Observer, 0, len(s.obs))
	for i := 0; i < s.nextObs; i++ {
		if fn, ok := s.obs[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.obsMu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

// bump must be called with mu held.
func (s *State) bump(kind ChangeKind, id catalog.ID) Change {
	s.version++
	return Change{Kind: kind, BookID: id, Version: s.version}
}

// Load replaces the whole book collection. Later duplicates of an id
// overwrite earlier ones but keep the first position.
func (s *State) Load(books []catalog.Book) {
	s.mu.Lock()
	s.books = make(map[catalog.ID]*entry, len(books))
	s.order = s.order[:0]
	for _, b := range books {
		if e, ok := s.books[b.ID]; ok {
			e.book = b
			continue
		}
		s.books[b.ID] = &entry{book: b}
		s.order = append(s.order, b.ID)
	}
	c := s.bump(ChangeLoaded, "")
	s.mu.Unlock()
	s.notify(c)
}

// LoadShelves replaces the shelf set.
func (s *State) LoadShelves(shelves []catalog.Shelf) {
	s.mu.Lock()
	s.shelves = make(map[catalog.ID]catalog.Shelf, len(shelves))
	s.shelfOrder = s.shelfOrder[:0]
	for _, sh := range shelves {
		if _, ok := s.shelves[sh.ID]; !ok {
			s.shelfOrder = append(s.shelfOrder, sh.ID)
		}
		s.shelves[sh.ID] = sh
	}
	c := s.bump(ChangeShelves, "")
	s.mu.Unlock()
	s.notify(c)
}

// Insert adds a book that already carries its server-assigned id.
func (s *State) Insert(b catalog.Book) error {
	s.mu.Lock()
	if _, ok := s.books[b.ID]; ok {
		s.mu.Unlock()
		return fmt.Errorf("insert %s: %w", b.ID, ErrDuplicateID)
	}
	s.books[b.ID] = &entry{book: b}
	s.order = append(s.order, b.ID)
	c := s.bump(ChangeInserted, b.ID)
	s.mu.Unlock()
	s.notify(c)
	return nil
}

// InsertShelf adds a shelf that already carries its server-assigned id.
func (s *State) InsertShelf(sh catalog.Shelf) error {
	s.mu.Lock()
	if _, ok := s.shelves[sh.ID]; ok {
		s.mu.Unlock()
		return fmt.Errorf("insert shelf %s: %w", sh.ID, ErrDuplicateShelf)
	}
	s.shelves[sh.ID] = sh
	s.shelfOrder = append(s.shelfOrder, sh.ID)
	c := s.bump(ChangeShelves, "")
	s.mu.Unlock()
	s.notify(c)
	return nil
}

// Book returns a copy of the book with the given id.
func (s *State) Book(id catalog.ID) (catalog.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.books[id]
	if !ok {
		return catalog.Book{}, false
	}
	return e.book, true
}

// Books returns the collection in insertion order.
func (s *State) Books() []catalog.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Book, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.books[id].book)
	}
	return out
}

// Len returns the number of books held.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Version increases on every change. Derived views key caches on it.
func (s *State) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Shelves returns the shelf set in load/insert order.
func (s *State) Shelves() []catalog.Shelf {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Shelf, 0, len(s.shelfOrder))
	for _, id := range s.shelfOrder {
		out = append(out, s.shelves[id])
	}
	return out
}

// Shelf returns the shelf with the given id.
func (s *State) Shelf(id catalog.ID) (catalog.Shelf, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shelves[id]
	return sh, ok
}

// ShelfByName finds a shelf by exact name, falling back to a
// case-insensitive match.
func (s *State) ShelfByName(name string) (catalog.Shelf, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var fold *catalog.Shelf
	for _, id := range s.shelfOrder {
		sh := s.shelves[id]
		if sh.Name == name {
			return sh, true
		}
		if fold == nil && strings.EqualFold(sh.Name, name) {
			fold = &sh
		}
	}
	if fold != nil {
		return *fold, true
	}
	return catalog.Shelf{}, false
}

// ByCatalogRef returns the book correlated with a catalog entry.
func (s *State) ByCatalogRef(ref string) (catalog.Book, bool) {
	if b := catalog.ByCatalogRef(s.Books(), ref); b != nil {
		return *b, true
	}
	return catalog.Book{}, false
}

// Snapshot copies the collection for caching or export.
func (s *State) Snapshot() catalog.Snapshot {
	return catalog.Snapshot{Shelves: s.Shelves(), Books: s.Books()}
}

// Contents returns the version together with the books and shelves it
// describes, read under one lock.
func (s *State) Contents() (uint64, []catalog.Book, []catalog.Shelf) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	books := make([]catalog.Book, 0, len(s.order))
	for _, id := range s.order {
		books = append(books, s.books[id].book)
	}
	shelves := make([]catalog.Shelf, 0, len(s.shelfOrder))
	for _, id := range s.shelfOrder {
		shelves = append(shelves, s.shelves[id])
	}
	return s.version, books, shelves
}
