package catalog

import "time"

// DefaultAuthor is shown and stored when a book has no author.
const DefaultAuthor = "Unknown Author"

// Well-known shelf names seeded by the store. By-shelf views list them
// first, in this order.
const (
	ShelfWantToRead       = "Want to Read"
	ShelfCurrentlyReading = "Currently Reading"
	ShelfRead             = "Read"
)

var wellKnownShelves = []string{ShelfWantToRead, ShelfCurrentlyReading, ShelfRead}

// Format is the kind of copy the reader owns.
type Format string

const (
	FormatBook      Format = "book"
	FormatAudiobook Format = "audiobook"
)

// Valid reports whether f is one of the known formats.
func (f Format) Valid() bool {
	return f == FormatBook || f == FormatAudiobook
}

// Book is one entry in the collection.
type Book struct {
	ID          ID         `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Author      string     `json:"author" yaml:"author,omitempty"`
	CatalogRef  string     `json:"open_library_id,omitempty" yaml:"open_library_id,omitempty"`
	ISBN        string     `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	CoverURL    *string    `json:"cover_url,omitempty" yaml:"cover_url,omitempty"`
	Rating      *int       `json:"rating,omitempty" yaml:"rating,omitempty"`
	Comments    *string    `json:"comments,omitempty" yaml:"comments,omitempty"`
	Series      *string    `json:"series,omitempty" yaml:"series,omitempty"`
	SeriesIndex *int       `json:"series_index,omitempty" yaml:"series_index,omitempty"`
	ShelfID     ID         `json:"shelf_id,omitempty" yaml:"shelf_id,omitempty"`
	Format      Format     `json:"type,omitempty" yaml:"type,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// DisplayAuthor returns the author or DefaultAuthor when empty.
func (b Book) DisplayAuthor() string {
	if b.Author == "" {
		return DefaultAuthor
	}
	return b.Author
}

// Details returns a copy of the editable fields.
func (b Book) Details() Details {
	return Details{
		Rating:      cloneInt(b.Rating),
		Comments:    cloneString(b.Comments),
		Series:      cloneString(b.Series),
		SeriesIndex: cloneInt(b.SeriesIndex),
	}
}

// WithDetails returns b with its editable fields replaced by d.
func (b Book) WithDetails(d Details) Book {
	d = d.Clone()
	b.Rating = d.Rating
	b.Comments = d.Comments
	b.Series = d.Series
	b.SeriesIndex = d.SeriesIndex
	return b
}

// Shelf is a user-visible grouping a book can sit on.
type Shelf struct {
	ID   ID     `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// WellKnownRank returns the fixed position of a well-known shelf name and
// true, or (0, false) for any other name.
func WellKnownRank(name string) (int, bool) {
	for i, n := range wellKnownShelves {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// IsWellKnown reports whether name is one of the seeded shelves.
func IsWellKnown(name string) bool {
	_, ok := WellKnownRank(name)
	return ok
}

// WellKnownShelves returns the seeded shelf names in display order.
func WellKnownShelves() []string {
	return append([]string(nil), wellKnownShelves...)
}

// Draft is the payload for adding a book picked from a search result.
type Draft struct {
	Title      string  `json:"title" validate:"required"`
	Author     string  `json:"author"`
	CatalogRef string  `json:"open_library_id" validate:"required"`
	ISBN       string  `json:"isbn,omitempty"`
	CoverURL   *string `json:"cover_url,omitempty"`
}

// Candidate is one record returned by the catalog search.
type Candidate struct {
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	ISBN       string  `json:"isbn,omitempty"`
	CatalogRef string  `json:"open_library_id"`
	CoverURL   *string `json:"cover_url,omitempty"`
}

// Draft converts a search candidate into an add payload.
func (c Candidate) Draft() Draft {
	return Draft{
		Title:      c.Title,
		Author:     c.Author,
		CatalogRef: c.CatalogRef,
		ISBN:       c.ISBN,
		CoverURL:   cloneString(c.CoverURL),
	}
}

// Snapshot is a point-in-time copy of the collection, written to the
// offline cache and by the export command.
type Snapshot struct {
	SavedAt time.Time `yaml:"saved_at"`
	Shelves []Shelf   `yaml:"shelves"`
	Books   []Book    `yaml:"books"`
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
