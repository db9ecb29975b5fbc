package catalog

import "strings"

// MatchesSearch reports whether the title or displayed author contains q,
// ignoring case. An empty q matches everything.
func MatchesSearch(b Book, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(b.Title), q) {
		return true
	}
	return strings.Contains(strings.ToLower(b.DisplayAuthor()), q)
}

// ByID returns the first book with the given ID, or nil.
func ByID(books []Book, id ID) *Book {
	for i := range books {
		if books[i].ID == id {
			return &books[i]
		}
	}
	return nil
}

// ByCatalogRef returns the first book correlated with the given catalog
// entry, or nil. An empty ref never matches.
func ByCatalogRef(books []Book, ref string) *Book {
	if ref == "" {
		return nil
	}
	for i := range books {
		if strings.EqualFold(books[i].CatalogRef, ref) {
			return &books[i]
		}
	}
	return nil
}
