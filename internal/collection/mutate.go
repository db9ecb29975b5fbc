package collection

import (
	"fmt"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
)

// aspect is the group of fields one kind of mutation owns. Revisions are
// tracked per aspect so an edit never undoes a concurrent move.
type aspect int

const (
	aspectShelf aspect = iota
	aspectDetails
	aspectFormat
	aspectCount
)

func (a aspect) String() string {
	switch a {
	case aspectShelf:
		return "shelf"
	case aspectDetails:
		return "details"
	case aspectFormat:
		return "format"
	}
	return "unknown"
}

// Prior captures what a mutation replaced. Pass it to Revert to undo the
// mutation or to Confirm to merge the store's canonical record.
type Prior struct {
	id      catalog.ID
	aspect  aspect
	before  catalog.Book
	rev     uint64
	removed bool
	index   int
}

// BookID returns the id of the mutated book.
func (p Prior) BookID() catalog.ID { return p.id }

// Before returns the book as it was before the mutation.
func (p Prior) Before() catalog.Book { return p.before }

// IsZero reports whether p was never filled in by a mutation.
func (p Prior) IsZero() bool { return p.id == "" }

// ApplyShelfChange moves a book to another shelf. The single membership
// slot is overwritten in one step.
func (s *State) ApplyShelfChange(id, shelfID catalog.ID) (Prior, error) {
	s.mu.Lock()
	e, ok := s.books[id]
	if !ok {
		s.mu.Unlock()
		return Prior{}, fmt.Errorf("move %s: %w", id, ErrNotFound)
	}
	if _, ok := s.shelves[shelfID]; !ok {
		s.mu.Unlock()
		return Prior{}, fmt.Errorf("move %s to %s: %w", id, shelfID, ErrUnknownShelf)
	}
	p := s.capture(e, aspectShelf)
	e.book.ShelfID = shelfID
	p.rev = e.rev[aspectShelf]
	c := s.bump(ChangeUpdated, id)
	s.mu.Unlock()
	s.notify(c)
	return p, nil
}

// ApplyDetailsEdit validates d and, if valid, replaces the book's editable
// fields. A validation failure leaves the collection untouched.
func (s *State) ApplyDetailsEdit(id catalog.ID, d catalog.Details) (Prior, error) {
	if err := d.Validate(); err != nil {
		return Prior{}, err
	}
	d = d.Normalize()

	s.mu.Lock()
	e, ok := s.books[id]
	if !ok {
		s.mu.Unlock()
		return Prior{}, fmt.Errorf("edit %s: %w", id, ErrNotFound)
	}
	p := s.capture(e, aspectDetails)
	e.book = e.book.WithDetails(d)
	p.rev = e.rev[aspectDetails]
	c := s.bump(ChangeUpdated, id)
	s.mu.Unlock()
	s.notify(c)
	return p, nil
}

// ApplyFormatChange switches a book between paper and audio.
func (s *State) ApplyFormatChange(id catalog.ID, f catalog.Format) (Prior, error) {
	if !f.Valid() {
		return Prior{}, &catalog.ValidationError{Field: "type", Message: "must be 'book' or 'audiobook'"}
	}
	s.mu.Lock()
	e, ok := s.books[id]
	if !ok {
		s.mu.Unlock()
		return Prior{}, fmt.Errorf("change type of %s: %w", id, ErrNotFound)
	}
	p := s.capture(e, aspectFormat)
	e.book.Format = f
	p.rev = e.rev[aspectFormat]
	c := s.bump(ChangeUpdated, id)
	s.mu.Unlock()
	s.notify(c)
	return p, nil
}

// Remove drops a book from the collection, remembering its position.
func (s *State) Remove(id catalog.ID) (Prior, error) {
	s.mu.Lock()
	e, ok := s.books[id]
	if !ok {
		s.mu.Unlock()
		return Prior{}, fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	idx := s.indexOf(id)
	p := Prior{id: id, before: e.book, removed: true, index: idx}
	delete(s.books, id)
	s.order = append(s.order[:idx], s.order[idx+1:]...)
	c := s.bump(ChangeRemoved, id)
	s.mu.Unlock()
	s.notify(c)
	return p, nil
}

// Revert restores the values captured in p. It reports false without error
// when there is nothing to restore: p was already reverted, or a later
// mutation of the same fields superseded it.
func (s *State) Revert(p Prior) (bool, error) {
	if p.IsZero() {
		return false, nil
	}
	s.mu.Lock()
	if p.removed {
		if _, ok := s.books[p.id]; ok {
			s.mu.Unlock()
			return false, nil
		}
		idx := p.index
		if idx < 0 || idx > len(s.order) {
			idx = len(s.order)
		}
		s.books[p.id] = &entry{book: p.before}
		s.order = append(s.order, "")
		copy(s.order[idx+1:], s.order[idx:])
		s.order[idx] = p.id
		c := s.bump(ChangeReverted, p.id)
		s.mu.Unlock()
		s.notify(c)
		return true, nil
	}

	e, ok := s.books[p.id]
	if !ok {
		s.mu.Unlock()
		return false, fmt.Errorf("revert %s of %s: %w", p.aspect, p.id, ErrNotFound)
	}
	if e.rev[p.aspect] != p.rev {
		s.mu.Unlock()
		return false, nil
	}
	switch p.aspect {
	case aspectShelf:
		e.book.ShelfID = p.before.ShelfID
	case aspectDetails:
		e.book = e.book.WithDetails(p.before.Details())
	case aspectFormat:
		e.book.Format = p.before.Format
	}
	e.rev[p.aspect] = s.stamp()
	c := s.bump(ChangeReverted, p.id)
	s.mu.Unlock()
	s.notify(c)
	return true, nil
}

// Confirm merges the store's canonical record for a confirmed mutation.
// Fields owned by other aspects keep their current local values. It reports
// false when the mutation was superseded or the book is gone.
func (s *State) Confirm(p Prior, canonical catalog.Book) bool {
	if p.IsZero() || p.removed {
		return false
	}
	s.mu.Lock()
	e, ok := s.books[p.id]
	if !ok || e.rev[p.aspect] != p.rev {
		s.mu.Unlock()
		return false
	}
	merged := canonical
	merged.ID = e.book.ID
	if p.aspect != aspectShelf || merged.ShelfID.IsZero() {
		merged.ShelfID = e.book.ShelfID
	}
	if p.aspect != aspectDetails {
		merged = merged.WithDetails(e.book.Details())
	}
	if p.aspect != aspectFormat || merged.Format == "" {
		merged.Format = e.book.Format
	}
	e.book = merged
	c := s.bump(ChangeUpdated, p.id)
	s.mu.Unlock()
	s.notify(c)
	return true
}

// capture must be called with mu held. It stamps a fresh aspect revision.
func (s *State) capture(e *entry, a aspect) Prior {
	e.rev[a] = s.stamp()
	return Prior{id: e.book.ID, aspect: a, before: e.book}
}

// stamp must be called with mu held.
func (s *State) stamp() uint64 {
	s.rev++
	return s.rev
}

func (s *State) indexOf(id catalog.ID) int {
	for i, v := range s.order {
		if v == id {
			return i
		}
	}
	return -1
}
