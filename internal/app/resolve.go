package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/collection"
)

var (
	errBookNotFound  = errors.New("book not found")
	errAmbiguousBook = errors.New("more than one book matches")
	errShelfNotFound = errors.New("shelf not found")
)

// findBook resolves a book by id, then by case-insensitive title.
func findBook(state *collection.State, ref string) (catalog.Book, error) {
	ref = strings.TrimSpace(ref)
	if b, ok := state.Book(catalog.ID(ref)); ok {
		return b, nil
	}

	var matches []catalog.Book
	for _, b := range state.Books() {
		if strings.EqualFold(b.Title, ref) {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 0:
		return catalog.Book{}, fmt.Errorf("%q: %w", ref, errBookNotFound)
	case 1:
		return matches[0], nil
	}
	ids := make([]string, len(matches))
	for i, b := range matches {
		ids[i] = string(b.ID)
	}
	return catalog.Book{}, fmt.Errorf("%q: %w (ids %s)", ref, errAmbiguousBook, strings.Join(ids, ", "))
}

// findShelf resolves a shelf by id, then by name.
func findShelf(state *collection.State, ref string) (catalog.Shelf, error) {
	ref = strings.TrimSpace(ref)
	if sh, ok := state.Shelf(catalog.ID(ref)); ok {
		return sh, nil
	}
	if sh, ok := state.ShelfByName(ref); ok {
		return sh, nil
	}
	return catalog.Shelf{}, fmt.Errorf("%q: %w", ref, errShelfNotFound)
}

// shelfName returns the display name of a book's shelf.
func shelfName(state *collection.State, id catalog.ID) string {
	if sh, ok := state.Shelf(id); ok {
		return sh.Name
	}
	return "Unshelved"
}
