package projection

import (
	"fmt"
	"strings"
)

// SortField selects the within-group ordering.
type SortField string

const (
	SortTitle   SortField = "title"
	SortAuthor  SortField = "author"
	SortRating  SortField = "rating"
	SortCreated SortField = "created"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// GroupMode selects how books are partitioned.
type GroupMode string

const (
	GroupShelf  GroupMode = "shelf"
	GroupAuthor GroupMode = "author"
	GroupNone   GroupMode = "none"
)

// Params are the transient view settings owned by the UI. Params is
// comparable and used as a cache key.
type Params struct {
	Search string
	Sort   SortField
	Order  SortOrder
	Group  GroupMode
	// Only keeps a single group, matched by key or name.
	Only string
	// Locale is a BCP 47 tag for collation; empty means English.
	Locale string
}

// DefaultOrder returns the natural order for a field: descending for
// rating, ascending otherwise.
func DefaultOrder(f SortField) SortOrder {
	if f == SortRating {
		return Desc
	}
	return Asc
}

// Normalize fills defaults and trims the search text.
func (p Params) Normalize() Params {
	p.Search = strings.TrimSpace(p.Search)
	if p.Sort == "" {
		p.Sort = SortTitle
	}
	if p.Order == "" {
		p.Order = DefaultOrder(p.Sort)
	}
	if p.Group == "" {
		p.Group = GroupShelf
	}
	if p.Locale == "" {
		p.Locale = "en"
	}
	return p
}

// ParseSortField accepts the CLI spellings of a sort field.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "title":
		return SortTitle, nil
	case "author":
		return SortAuthor, nil
	case "rating":
		return SortRating, nil
	case "created", "created_at", "added":
		return SortCreated, nil
	}
	return "", fmt.Errorf("unknown sort field %q (want title, author, rating or created)", s)
}

// ParseSortOrder accepts asc/desc. Empty yields "" so Normalize can pick the
// field default.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	}
	return "", fmt.Errorf("unknown sort order %q (want asc or desc)", s)
}

// ParseGroupMode accepts shelf/author/none.
func ParseGroupMode(s string) (GroupMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shelf", "shelves", "status":
		return GroupShelf, nil
	case "author", "authors":
		return GroupAuthor, nil
	case "none", "flat":
		return GroupNone, nil
	}
	return "", fmt.Errorf("unknown group mode %q (want shelf, author or none)", s)
}

// Next cycles through the sort fields, for UIs with a single sort key.
func (f SortField) Next() SortField {
	switch f {
	case SortTitle:
		return SortAuthor
	case SortAuthor:
		return SortRating
	case SortRating:
		return SortCreated
	}
	return SortTitle
}

// Next cycles through the group modes.
func (g GroupMode) Next() GroupMode {
	switch g {
	case GroupShelf:
		return GroupAuthor
	case GroupAuthor:
		return GroupNone
	}
	return GroupShelf
}

// Flip returns the opposite order.
func (o SortOrder) Flip() SortOrder {
	if o == Desc {
		return Asc
	}
	return Desc
}
