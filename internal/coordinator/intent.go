package coordinator

import "github.com/blackwell-systems/shelfboard/internal/catalog"

// Intent is a user request to change the collection. Only the types in this
// package implement it.
type Intent interface {
	Kind() string
}

// Move puts a book on another shelf.
type Move struct {
	BookID  catalog.ID
	ShelfID catalog.ID
}

// Edit replaces a book's editable details.
type Edit struct {
	BookID  catalog.ID
	Details catalog.Details
}

// Add creates a book from a catalog search result.
type Add struct {
	Draft catalog.Draft
}

// ChangeFormat switches a book between paper and audio.
type ChangeFormat struct {
	BookID catalog.ID
	Format catalog.Format
}

// Delete removes a book.
type Delete struct {
	BookID catalog.ID
}

// CreateShelf adds a user shelf.
type CreateShelf struct {
	Name string
}

func (Move) Kind() string         { return "move" }
func (Edit) Kind() string         { return "edit" }
func (Add) Kind() string          { return "add" }
func (ChangeFormat) Kind() string { return "format" }
func (Delete) Kind() string       { return "delete" }
func (CreateShelf) Kind() string  { return "create-shelf" }
