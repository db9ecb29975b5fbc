// Package memstore is an in-memory bookshelf store speaking the same REST
// API as the real one. It backs the serve command and client tests.
package memstore

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
)

// Operation names accepted by FailNext.
const (
	OpListBooks     = "list-books"
	OpCreateBook    = "create-book"
	OpUpdateShelf   = "update-shelf"
	OpUpdateDetails = "update-details"
	OpUpdateType    = "update-type"
	OpDeleteBook    = "delete-book"
	OpListShelves   = "list-shelves"
	OpCreateShelf   = "create-shelf"
	OpSearch        = "search"
)

type failure struct {
	status  int
	message string
}

// Store holds books and shelves in memory. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	books     []catalog.Book
	shelves   []catalog.Shelf
	nextBook  int
	nextShelf int
	catalog   []catalog.Candidate
	failures  map[string][]failure
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithCatalog sets the records the search endpoint answers from.
func WithCatalog(c []catalog.Candidate) Option {
	return func(s *Store) { s.catalog = append([]catalog.Candidate(nil), c...) }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a store seeded with the well-known shelves.
func New(opts ...Option) *Store {
	s := &Store{failures: make(map[string][]failure), now: time.Now}
	for _, name := range catalog.WellKnownShelves() {
		s.nextShelf++
		s.shelves = append(s.shelves, catalog.Shelf{ID: itoa(s.nextShelf), Name: name})
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailNext makes the next call of op answer with status and message
// instead of running. Calls queue up.
func (s *Store) FailNext(op string, status int, message string) {
	s.mu.Lock()
	s.failures[op] = append(s.failures[op], failure{status: status, message: message})
	s.mu.Unlock()
}

func (s *Store) takeFailure(op string) (failure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.failures[op]
	if len(q) == 0 {
		return failure{}, false
	}
	s.failures[op] = q[1:]
	return q[0], true
}

// Books returns a copy of every stored book.
func (s *Store) Books() []catalog.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Book(nil), s.books...)
}

// Shelves returns a copy of the shelf set.
func (s *Store) Shelves() []catalog.Shelf {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Shelf(nil), s.shelves...)
}

// Seed adds books directly, assigning ids and defaults as Create does.
func (s *Store) Seed(books ...catalog.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range books {
		s.insertLocked(b)
	}
}

// Restore loads an exported snapshot. Shelves are matched by name and
// created when missing; books get fresh ids and follow their shelf.
func (s *Store) Restore(snap catalog.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shelfIDs := make(map[catalog.ID]catalog.ID, len(snap.Shelves))
	for _, sh := range snap.Shelves {
		shelfIDs[sh.ID] = s.shelfByNameLocked(sh.Name)
	}
	for _, b := range snap.Books {
		b.ShelfID = shelfIDs[b.ShelfID]
		s.insertLocked(b)
	}
}

// shelfByNameLocked returns the id of the named shelf, creating it.
func (s *Store) shelfByNameLocked(name string) catalog.ID {
	for _, sh := range s.shelves {
		if strings.EqualFold(sh.Name, name) {
			return sh.ID
		}
	}
	s.nextShelf++
	sh := catalog.Shelf{ID: itoa(s.nextShelf), Name: strings.TrimSpace(name)}
	s.shelves = append(s.shelves, sh)
	return sh.ID
}

func (s *Store) insertLocked(b catalog.Book) catalog.Book {
	s.nextBook++
	b.ID = itoa(s.nextBook)
	if strings.TrimSpace(b.Author) == "" {
		b.Author = catalog.DefaultAuthor
	}
	if b.ShelfID.IsZero() {
		b.ShelfID = s.shelves[0].ID
	}
	if b.Format == "" {
		b.Format = catalog.FormatBook
	}
	if b.CreatedAt == nil {
		now := s.now().UTC()
		b.CreatedAt = &now
	}
	s.books = append(s.books, b)
	return b
}

func (s *Store) bookIndexLocked(id catalog.ID) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) hasShelfLocked(id catalog.ID) bool {
	for _, sh := range s.shelves {
		if sh.ID == id {
			return true
		}
	}
	return false
}

func itoa(n int) catalog.ID { return catalog.ID(strconv.Itoa(n)) }
