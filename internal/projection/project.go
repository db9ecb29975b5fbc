// Package projection derives grouped, ordered views of the collection.
// Project is a pure function of its inputs; Engine adds a one-entry memo
// keyed by collection version and parameters.
package projection

import (
	"slices"
	"strings"
	"time"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// UnshelvedName labels the trailing by-shelf group for books whose shelf is
// unset or unknown.
const UnshelvedName = "Unshelved"

// Input is the collection data a view is computed from.
type Input struct {
	Books   []catalog.Book
	Shelves []catalog.Shelf
}

// Group is one rendered column or section.
type Group struct {
	// Key is the shelf id (by-shelf), the author name (by-author), or
	// empty (no grouping, and the unshelved group).
	Key   string         `json:"key,omitempty" yaml:"key,omitempty"`
	Name  string         `json:"name" yaml:"name"`
	Books []catalog.Book `json:"books" yaml:"books"`
}

// View is the render model for one set of parameters.
type View struct {
	Params  Params
	Groups  []Group
	Matched int
}

// Find returns the group and row of a book, or (-1, -1).
func (v View) Find(id catalog.ID) (int, int) {
	for gi, g := range v.Groups {
		for bi, b := range g.Books {
			if b.ID == id {
				return gi, bi
			}
		}
	}
	return -1, -1
}

func (v View) clone() View {
	out := v
	out.Groups = make([]Group, len(v.Groups))
	for i, g := range v.Groups {
		g.Books = slices.Clone(g.Books)
		out.Groups[i] = g
	}
	return out
}

// Project computes the view. Identical inputs always yield identical output.
func Project(in Input, p Params) View {
	p = p.Normalize()
	col := newCollator(p.Locale)

	filtered := make([]catalog.Book, 0, len(in.Books))
	for _, b := range in.Books {
		if catalog.MatchesSearch(b, p.Search) {
			filtered = append(filtered, b)
		}
	}

	var groups []Group
	switch p.Group {
	case GroupAuthor:
		groups = groupByAuthor(filtered, col)
	case GroupNone:
		groups = []Group{{Books: filtered}}
	default:
		groups = groupByShelf(filtered, in.Shelves, col)
	}

	for i := range groups {
		sortBooks(groups[i].Books, p.Sort, p.Order, col)
	}

	if p.Only != "" {
		kept := groups[:0]
		for _, g := range groups {
			if g.Key == p.Only || g.Name == p.Only {
				kept = append(kept, g)
			}
		}
		groups = kept
	}

	return View{Params: p, Groups: groups, Matched: len(filtered)}
}

func newCollator(locale string) *collate.Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return collate.New(tag, collate.IgnoreCase)
}

// CompareShelfNames orders the well-known shelves first in their fixed
// order, then everything else alphabetically under the given locale.
func CompareShelfNames(a, b, locale string) int {
	return compareShelfNames(a, b, newCollator(locale))
}

func compareShelfNames(a, b string, col *collate.Collator) int {
	ra, okA := catalog.WellKnownRank(a)
	rb, okB := catalog.WellKnownRank(b)
	switch {
	case okA && okB:
		return ra - rb
	case okA:
		return -1
	case okB:
		return 1
	}
	return compareText(a, b, col)
}

func compareText(a, b string, col *collate.Collator) int {
	if c := col.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func groupByShelf(books []catalog.Book, shelves []catalog.Shelf, col *collate.Collator) []Group {
	ordered := slices.Clone(shelves)
	slices.SortStableFunc(ordered, func(a, b catalog.Shelf) int {
		if c := compareShelfNames(a.Name, b.Name, col); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})

	groups := make([]Group, 0, len(ordered)+1)
	index := make(map[catalog.ID]int, len(ordered))
	for _, sh := range ordered {
		if _, dup := index[sh.ID]; dup {
			continue
		}
		index[sh.ID] = len(groups)
		groups = append(groups, Group{Key: string(sh.ID), Name: sh.Name, Books: []catalog.Book{}})
	}

	var unshelved []catalog.Book
	for _, b := range books {
		if i, ok := index[b.ShelfID]; ok {
			groups[i].Books = append(groups[i].Books, b)
			continue
		}
		unshelved = append(unshelved, b)
	}
	if len(unshelved) > 0 {
		groups = append(groups, Group{Name: UnshelvedName, Books: unshelved})
	}
	return groups
}

func groupByAuthor(books []catalog.Book, col *collate.Collator) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, b := range books {
		name := b.DisplayAuthor()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Key: name, Name: name})
		}
		groups[i].Books = append(groups[i].Books, b)
	}
	slices.SortStableFunc(groups, func(a, b Group) int {
		return compareText(a.Name, b.Name, col)
	})
	return groups
}

func sortBooks(books []catalog.Book, field SortField, order SortOrder, col *collate.Collator) {
	sign := 1
	if order == Desc {
		sign = -1
	}
	var cmp func(a, b catalog.Book) int
	switch field {
	case SortAuthor:
		cmp = func(a, b catalog.Book) int {
			return sign * col.CompareString(a.DisplayAuthor(), b.DisplayAuthor())
		}
	case SortRating:
		cmp = func(a, b catalog.Book) int {
			switch {
			case a.Rating == nil && b.Rating == nil:
				return 0
			case a.Rating == nil:
				return 1
			case b.Rating == nil:
				return -1
			}
			return sign * (*a.Rating - *b.Rating)
		}
	case SortCreated:
		cmp = func(a, b catalog.Book) int {
			return sign * createdAt(a).Compare(createdAt(b))
		}
	default:
		cmp = func(a, b catalog.Book) int {
			return sign * col.CompareString(a.Title, b.Title)
		}
	}
	slices.SortStableFunc(books, cmp)
}

// createdAt treats a missing timestamp as the oldest possible value.
func createdAt(b catalog.Book) time.Time {
	if b.CreatedAt == nil {
		return time.Time{}
	}
	return *b.CreatedAt
}
