package projection_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/projection"
	"pgregory.net/rapid"
)

func intp(v int) *int { return &v }

func groupNames(v projection.View) []string {
	names := make([]string, len(v.Groups))
	for i, g := range v.Groups {
		names[i] = g.Name
	}
	return names
}

func titles(books []catalog.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestProject_ShelfGroupOrder(t *testing.T) {
	in := projection.Input{Shelves: []catalog.Shelf{
		{ID: "1", Name: "Read"},
		{ID: "2", Name: "Zeta"},
		{ID: "3", Name: "Want to Read"},
		{ID: "4", Name: "Currently Reading"},
		{ID: "5", Name: "Alpha"},
	}}
	v := projection.Project(in, projection.Params{Group: projection.GroupShelf})
	want := []string{"Want to Read", "Currently Reading", "Read", "Alpha", "Zeta"}
	if got := groupNames(v); !reflect.DeepEqual(got, want) {
		t.Errorf("group order = %v, want %v", got, want)
	}
	for _, g := range v.Groups {
		if g.Books == nil {
			t.Errorf("empty shelf %q should still be a drop target with a non-nil book list", g.Name)
		}
	}
}

func TestProject_RatingDescUnratedLast(t *testing.T) {
	in := projection.Input{Books: []catalog.Book{
		{ID: "1", Title: "first-null"},
		{ID: "2", Title: "three", Rating: intp(3)},
		{ID: "3", Title: "second-null"},
		{ID: "4", Title: "nine", Rating: intp(9)},
	}}
	v := projection.Project(in, projection.Params{Group: projection.GroupNone, Sort: projection.SortRating, Order: projection.Desc})
	want := []string{"nine", "three", "first-null", "second-null"}
	if got := titles(v.Groups[0].Books); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	v = projection.Project(in, projection.Params{Group: projection.GroupNone, Sort: projection.SortRating, Order: projection.Asc})
	want = []string{"three", "nine", "first-null", "second-null"}
	if got := titles(v.Groups[0].Books); !reflect.DeepEqual(got, want) {
		t.Errorf("asc order = %v, want %v", got, want)
	}
}

func TestProject_RatingDefaultsToDescending(t *testing.T) {
	in := projection.Input{Books: []catalog.Book{
		{ID: "1", Title: "low", Rating: intp(2)},
		{ID: "2", Title: "high", Rating: intp(8)},
	}}
	v := projection.Project(in, projection.Params{Group: projection.GroupNone, Sort: projection.SortRating})
	if got := titles(v.Groups[0].Books); got[0] != "high" {
		t.Errorf("order = %v, want high first", got)
	}
}

func TestProject_SearchFilter(t *testing.T) {
	in := projection.Input{
		Shelves: []catalog.Shelf{{ID: "1", Name: catalog.ShelfRead}},
		Books: []catalog.Book{
			{ID: "1", Title: "Dune", Author: "Frank Herbert", ShelfID: "1"},
			{ID: "2", Title: "Emma", Author: "Jane Austen", ShelfID: "1"},
			{ID: "3", Title: "Persuasion", Author: "Jane Austen", ShelfID: "1"},
		},
	}
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Dune", "Emma", "Persuasion"}},
		{"  AUSTEN ", []string{"Emma", "Persuasion"}},
		{"dun", []string{"Dune"}},
		{"tolkien", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			v := projection.Project(in, projection.Params{Search: tt.query})
			if v.Matched != len(tt.want) {
				t.Errorf("Matched = %d, want %d", v.Matched, len(tt.want))
			}
			if got := titles(v.Groups[0].Books); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("books = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProject_CreatedMissingIsOldest(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	in := projection.Input{Books: []catalog.Book{
		{ID: "1", Title: "newer", CreatedAt: &t2},
		{ID: "2", Title: "undated"},
		{ID: "3", Title: "older", CreatedAt: &t1},
	}}
	v := projection.Project(in, projection.Params{Group: projection.GroupNone, Sort: projection.SortCreated})
	want := []string{"undated", "older", "newer"}
	if got := titles(v.Groups[0].Books); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestProject_GroupByAuthor(t *testing.T) {
	in := projection.Input{Books: []catalog.Book{
		{ID: "1", Title: "Dune", Author: "herbert"},
		{ID: "2", Title: "Emma", Author: "Austen"},
		{ID: "3", Title: "Anon"},
		{ID: "4", Title: "Persuasion", Author: "Austen"},
	}}
	v := projection.Project(in, projection.Params{Group: projection.GroupAuthor})
	want := []string{"Austen", "herbert", catalog.DefaultAuthor}
	if got := groupNames(v); !reflect.DeepEqual(got, want) {
		t.Errorf("groups = %v, want %v", got, want)
	}
	if got := titles(v.Groups[0].Books); !reflect.DeepEqual(got, []string{"Emma", "Persuasion"}) {
		t.Errorf("Austen books = %v", got)
	}
}

func TestProject_UnshelvedTrailingGroup(t *testing.T) {
	in := projection.Input{
		Shelves: []catalog.Shelf{{ID: "1", Name: catalog.ShelfRead}},
		Books: []catalog.Book{
			{ID: "1", Title: "Placed", ShelfID: "1"},
			{ID: "2", Title: "Lost", ShelfID: "404"},
			{ID: "3", Title: "Loose"},
		},
	}
	v := projection.Project(in, projection.Params{})
	if got := groupNames(v); !reflect.DeepEqual(got, []string{catalog.ShelfRead, projection.UnshelvedName}) {
		t.Fatalf("groups = %v", got)
	}
	if got := titles(v.Groups[1].Books); !reflect.DeepEqual(got, []string{"Loose", "Lost"}) {
		t.Errorf("unshelved = %v", got)
	}
}

func TestProject_Only(t *testing.T) {
	in := projection.Input{
		Shelves: []catalog.Shelf{{ID: "1", Name: catalog.ShelfWantToRead}, {ID: "2", Name: catalog.ShelfRead}},
		Books:   []catalog.Book{{ID: "1", Title: "Dune", ShelfID: "2"}},
	}
	for _, only := range []string{"2", catalog.ShelfRead} {
		v := projection.Project(in, projection.Params{Only: only})
		if len(v.Groups) != 1 || v.Groups[0].Key != "2" {
			t.Errorf("Only=%q: groups = %v", only, groupNames(v))
		}
	}
	v := projection.Project(in, projection.Params{Only: "Nowhere"})
	if len(v.Groups) != 0 {
		t.Errorf("Only=Nowhere: groups = %v", groupNames(v))
	}
}

func TestProject_FindLocatesBook(t *testing.T) {
	in := projection.Input{
		Shelves: []catalog.Shelf{{ID: "1", Name: catalog.ShelfWantToRead}, {ID: "2", Name: catalog.ShelfRead}},
		Books:   []catalog.Book{{ID: "7", Title: "Dune", ShelfID: "2"}},
	}
	v := projection.Project(in, projection.Params{})
	if g, r := v.Find("7"); g != 1 || r != 0 {
		t.Errorf("Find = (%d, %d), want (1, 0)", g, r)
	}
	if g, r := v.Find("nope"); g != -1 || r != -1 {
		t.Errorf("Find(missing) = (%d, %d)", g, r)
	}
}

func TestCompareShelfNames(t *testing.T) {
	tests := []struct {
		a, b string
		sign int
	}{
		{catalog.ShelfWantToRead, catalog.ShelfRead, -1},
		{catalog.ShelfRead, "Alpha", -1},
		{"alpha", "Beta", -1},
		{"Zeta", catalog.ShelfCurrentlyReading, 1},
		{"Same", "Same", 0},
	}
	for _, tt := range tests {
		got := projection.CompareShelfNames(tt.a, tt.b, "en")
		if sign(got) != tt.sign {
			t.Errorf("CompareShelfNames(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.sign)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func bookGen() *rapid.Generator[catalog.Book] {
	return rapid.Custom(func(t *rapid.T) catalog.Book {
		b := catalog.Book{
			ID:      catalog.ID(rapid.StringMatching(`[0-9]{1,4}`).Draw(t, "id")),
			Title:   rapid.StringMatching(`[A-Za-z ]{0,12}`).Draw(t, "title"),
			Author:  rapid.SampledFrom([]string{"", "Austen", "austen", "Herbert", "Le Guin"}).Draw(t, "author"),
			ShelfID: catalog.ID(rapid.SampledFrom([]string{"", "1", "2", "3", "9"}).Draw(t, "shelf")),
		}
		if rapid.Bool().Draw(t, "rated") {
			b.Rating = intp(rapid.IntRange(1, 10).Draw(t, "rating"))
		}
		return b
	})
}

func TestProject_Idempotent(t *testing.T) {
	shelves := []catalog.Shelf{
		{ID: "1", Name: catalog.ShelfRead},
		{ID: "2", Name: "Alpha"},
		{ID: "3", Name: catalog.ShelfWantToRead},
	}
	rapid.Check(t, func(t *rapid.T) {
		books := rapid.SliceOfN(bookGen(), 0, 20).Draw(t, "books")
		p := projection.Params{
			Search: rapid.SampledFrom([]string{"", "a", "au", "dune"}).Draw(t, "search"),
			Sort:   rapid.SampledFrom([]projection.SortField{projection.SortTitle, projection.SortAuthor, projection.SortRating, projection.SortCreated}).Draw(t, "sort"),
			Order:  rapid.SampledFrom([]projection.SortOrder{"", projection.Asc, projection.Desc}).Draw(t, "order"),
			Group:  rapid.SampledFrom([]projection.GroupMode{projection.GroupShelf, projection.GroupAuthor, projection.GroupNone}).Draw(t, "group"),
		}
		in := projection.Input{Books: books, Shelves: shelves}
		first := projection.Project(in, p)
		second := projection.Project(in, p)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("projection not idempotent:\n%+v\n%+v", first, second)
		}
	})
}

func TestProject_DoesNotReorderInput(t *testing.T) {
	books := []catalog.Book{{ID: "1", Title: "b"}, {ID: "2", Title: "a"}}
	projection.Project(projection.Input{Books: books}, projection.Params{Group: projection.GroupNone})
	if books[0].Title != "b" {
		t.Error("Project sorted the caller's slice")
	}
}
