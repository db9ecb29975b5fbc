package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
)

var sampleYAML = []byte(`
saved_at: 2026-01-01T00:00:00Z
shelves:
  - id: "1"
    name: Want to Read
  - id: "2"
    name: Read
books:
  - id: "10"
    title: Dune
    author: Frank Herbert
    open_library_id: OL893415M
    shelf_id: "1"
    type: book
  - id: "11"
    title: "Operating Systems: Three Easy Pieces"
    author: Arpaci-Dusseau
    rating: 9
    series: OSTEP
    series_index: 1
    shelf_id: "2"
`)

func intp(v int) *int { return &v }
func strp(v string) *string { return &v }

// --- Parse / Marshal round-trip ---

func TestParse_ValidYAML(t *testing.T) {
	snap, err := catalog.Parse(sampleYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(snap.Books) != 2 || len(snap.Shelves) != 2 {
		t.Fatalf("expected 2 books and 2 shelves, got %d/%d", len(snap.Books), len(snap.Shelves))
	}
	if snap.Books[0].ID != "10" {
		t.Errorf("Books[0].ID = %q, want %q", snap.Books[0].ID, "10")
	}
	if snap.Books[1].Rating == nil || *snap.Books[1].Rating != 9 {
		t.Errorf("Books[1].Rating = %v, want 9", snap.Books[1].Rating)
	}
}

func TestParse_Empty(t *testing.T) {
	snap, err := catalog.Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse empty: %v", err)
	}
	if len(snap.Books) != 0 || snap.Books == nil {
		t.Errorf("expected empty non-nil books, got %v", snap.Books)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := catalog.Parse([]byte(":: bad yaml [")); err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestParse_RejectsWrongShape(t *testing.T) {
	cases := map[string]string{
		"scalar root":  "just some text",
		"list root":    "- id: \"1\"\n",
		"unknown key":  "shelfs:\n  - id: \"1\"\n",
		"unknown book": "books:\n  - id: \"1\"\n    titel: Dune\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := catalog.Parse([]byte(in)); err == nil {
				t.Errorf("Parse(%q) accepted", in)
			}
		})
	}
}

func TestParse_BlankIsEmpty(t *testing.T) {
	for _, in := range []string{"\n  \n", "# nothing cached\n", "~\n"} {
		snap, err := catalog.Parse([]byte(in))
		if err != nil {
			t.Errorf("Parse(%q): %v", in, err)
			continue
		}
		if snap.Books == nil || snap.Shelves == nil || len(snap.Books) != 0 {
			t.Errorf("Parse(%q) = %+v, want empty snapshot", in, snap)
		}
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	snap, err := catalog.Parse(sampleYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	data, err := catalog.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	snap2, err := catalog.Parse(data)
	if err != nil {
		t.Fatalf("re-Parse: %v", err)
	}
	if len(snap2.Books) != len(snap.Books) {
		t.Fatalf("round-trip length: got %d, want %d", len(snap2.Books), len(snap.Books))
	}
	for i := range snap.Books {
		if snap.Books[i].ID != snap2.Books[i].ID || snap.Books[i].ShelfID != snap2.Books[i].ShelfID {
			t.Errorf("[%d] mismatch: %+v vs %+v", i, snap.Books[i], snap2.Books[i])
		}
	}
	if !snap.SavedAt.Equal(snap2.SavedAt) {
		t.Errorf("SavedAt = %v, want %v", snap2.SavedAt, snap.SavedAt)
	}
}

// --- ID ---

func TestID_UnmarshalNumberOrString(t *testing.T) {
	cases := []struct {
		in   string
		want catalog.ID
	}{
		{`42`, "42"},
		{`"42"`, "42"},
		{`"OL1M"`, "OL1M"},
		{`null`, ""},
	}
	for _, c := range cases {
		var id catalog.ID
		if err := json.Unmarshal([]byte(c.in), &id); err != nil {
			t.Errorf("Unmarshal(%s): %v", c.in, err)
			continue
		}
		if id != c.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", c.in, id, c.want)
		}
	}
}

func TestID_Marshal(t *testing.T) {
	cases := []struct {
		in   catalog.ID
		want string
	}{
		{"42", `42`},
		{"007", `"007"`},
		{"abc", `"abc"`},
		{"", `null`},
	}
	for _, c := range cases {
		got, err := json.Marshal(c.in)
		if err != nil {
			t.Fatalf("Marshal(%q): %v", c.in, err)
		}
		if string(got) != c.want {
			t.Errorf("Marshal(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

// --- Details validation ---

func TestDetailsValidate(t *testing.T) {
	cases := []struct {
		name  string
		in    catalog.Details
		field string // empty means valid
	}{
		{"empty", catalog.Details{}, ""},
		{"rating low bound", catalog.Details{Rating: intp(1)}, ""},
		{"rating high bound", catalog.Details{Rating: intp(10)}, ""},
		{"rating zero", catalog.Details{Rating: intp(0)}, "rating"},
		{"rating eleven", catalog.Details{Rating: intp(11)}, "rating"},
		{"rating negative", catalog.Details{Rating: intp(-3)}, "rating"},
		{"series with index", catalog.Details{Series: strp("Dune"), SeriesIndex: intp(2)}, ""},
		{"series alone", catalog.Details{Series: strp("Dune")}, ""},
		{"index without series", catalog.Details{SeriesIndex: intp(2)}, "series"},
		{"index with blank series", catalog.Details{Series: strp("   "), SeriesIndex: intp(2)}, "series"},
		{"index zero", catalog.Details{Series: strp("Dune"), SeriesIndex: intp(0)}, "series_index"},
	}
	for _, c := range cases {
		err := c.in.Validate()
		if c.field == "" {
			if err != nil {
				t.Errorf("%s: unexpected error %v", c.name, err)
			}
			continue
		}
		ve, ok := err.(*catalog.ValidationError)
		if !ok {
			t.Errorf("%s: expected *ValidationError, got %v", c.name, err)
			continue
		}
		if ve.Field != c.field {
			t.Errorf("%s: field = %q, want %q", c.name, ve.Field, c.field)
		}
	}
}

func TestDetailsNormalize(t *testing.T) {
	d := catalog.Details{Comments: strp("  "), Series: strp(" Foundation ")}.Normalize()
	if d.Comments != nil {
		t.Errorf("blank comments should normalize to nil, got %q", *d.Comments)
	}
	if d.Series == nil || *d.Series != "Foundation" {
		t.Errorf("series = %v, want Foundation", d.Series)
	}
}

func TestDraftValidate(t *testing.T) {
	if err := (catalog.Draft{Title: "Dune", CatalogRef: "OL1M"}).Validate(); err != nil {
		t.Errorf("valid draft: %v", err)
	}
	err := (catalog.Draft{Title: "  ", CatalogRef: "OL1M"}).Validate()
	if ve, ok := err.(*catalog.ValidationError); !ok || ve.Field != "title" {
		t.Errorf("blank title: got %v", err)
	}
}

// --- lookups ---

func TestByID(t *testing.T) {
	snap, _ := catalog.Parse(sampleYAML)
	if b := catalog.ByID(snap.Books, "11"); b == nil || b.Title != "Operating Systems: Three Easy Pieces" {
		t.Errorf("ByID(11) = %v", b)
	}
	if catalog.ByID(snap.Books, "missing") != nil {
		t.Error("ByID returned non-nil for missing book")
	}
}

func TestByCatalogRef(t *testing.T) {
	snap, _ := catalog.Parse(sampleYAML)
	if b := catalog.ByCatalogRef(snap.Books, "ol893415m"); b == nil || b.ID != "10" {
		t.Errorf("ByCatalogRef case-insensitive lookup failed: %v", b)
	}
	if catalog.ByCatalogRef(snap.Books, "") != nil {
		t.Error("empty ref should never match")
	}
}

func TestMatchesSearch(t *testing.T) {
	b := catalog.Book{Title: "Dune Messiah", Author: "Frank Herbert"}
	cases := []struct {
		q    string
		want bool
	}{
		{"", true},
		{"dune", true},
		{"MESS", true},
		{"herb", true},
		{"une mes", true},
		{"asimov", false},
	}
	for _, c := range cases {
		if got := catalog.MatchesSearch(b, c.q); got != c.want {
			t.Errorf("MatchesSearch(%q) = %v, want %v", c.q, got, c.want)
		}
	}
}

func TestMatchesSearch_DefaultAuthor(t *testing.T) {
	anon := catalog.Book{Title: "Beowulf"}
	if !catalog.MatchesSearch(anon, "unknown") {
		t.Errorf("book without author should match %q", "unknown")
	}
	if catalog.MatchesSearch(catalog.Book{Title: "Emma", Author: "Austen"}, "unknown") {
		t.Error("book with an author matched the default author")
	}
}

func TestWellKnownRank(t *testing.T) {
	for i, name := range catalog.WellKnownShelves() {
		rank, ok := catalog.WellKnownRank(name)
		if !ok || rank != i {
			t.Errorf("WellKnownRank(%q) = %d, %v", name, rank, ok)
		}
	}
	if catalog.IsWellKnown("read") {
		t.Error("well-known names are case-sensitive")
	}
}
