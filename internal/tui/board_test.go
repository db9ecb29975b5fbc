package tui_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/collection"
	"github.com/blackwell-systems/shelfboard/internal/coordinator"
	"github.com/blackwell-systems/shelfboard/internal/projection"
	"github.com/blackwell-systems/shelfboard/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

type okStore struct {
	mu    sync.Mutex
	calls []string
	fail  error
}

func (s *okStore) record(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
	return s.fail
}

func (s *okStore) CreateBook(context.Context, catalog.Draft) (catalog.Book, error) {
	return catalog.Book{}, s.record("create")
}

func (s *okStore) UpdateShelf(context.Context, catalog.ID, catalog.ID) (*catalog.Book, error) {
	return nil, s.record("shelf")
}

func (s *okStore) UpdateDetails(context.Context, catalog.ID, catalog.Details) (*catalog.Book, error) {
	return nil, s.record("details")
}

func (s *okStore) UpdateFormat(context.Context, catalog.ID, catalog.Format) (*catalog.Book, error) {
	return nil, s.record("format")
}

func (s *okStore) DeleteBook(context.Context, catalog.ID) error {
	return s.record("delete")
}

func (s *okStore) CreateShelf(context.Context, string) (catalog.Shelf, error) {
	return catalog.Shelf{}, s.record("create-shelf")
}

func intp(v int) *int { return &v }

func newBoard(t *testing.T, store *okStore) (tui.BoardModel, *collection.State, *coordinator.Coordinator) {
	t.Helper()
	state := collection.New()
	state.LoadShelves([]catalog.Shelf{
		{ID: "1", Name: catalog.ShelfWantToRead},
		{ID: "2", Name: catalog.ShelfCurrentlyReading},
		{ID: "3", Name: catalog.ShelfRead},
	})
	state.Load([]catalog.Book{
		{ID: "10", Title: "Dune", Author: "Herbert", ShelfID: "1", Format: catalog.FormatBook},
		{ID: "11", Title: "Emma", Author: "Austen", ShelfID: "1", Rating: intp(7)},
		{ID: "12", Title: "Beloved", Author: "Morrison", ShelfID: "3"},
	})
	c := coordinator.New(state, store)
	t.Cleanup(c.Wait)
	m := tui.NewBoard(context.Background(), projection.NewEngine(state), c, projection.Params{})
	return m, state, c
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m tui.BoardModel, msgs ...tea.Msg) tui.BoardModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(tui.BoardModel)
	}
	return m
}

func TestBoard_InitialColumns(t *testing.T) {
	m, _, _ := newBoard(t, &okStore{})
	v := m.Projection()
	if len(v.Groups) != 3 {
		t.Fatalf("columns = %d, want 3", len(v.Groups))
	}
	b, ok := m.Selected()
	if !ok || b.ID != "10" {
		t.Errorf("initial selection = %v, %v; want Dune", b.ID, ok)
	}
}

func TestBoard_CursorNavigation(t *testing.T) {
	m, _, _ := newBoard(t, &okStore{})

	m = send(m, tea.KeyMsg{Type: tea.KeyDown})
	if b, _ := m.Selected(); b.ID != "11" {
		t.Errorf("after down: %q, want 11", b.ID)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyRight})
	col, _ := m.Cursor()
	if col != 1 {
		t.Errorf("after right: column %d, want 1", col)
	}
	if _, ok := m.Selected(); ok {
		t.Error("Currently Reading is empty; nothing should be selected")
	}

	m = send(m, runes("l"))
	if b, _ := m.Selected(); b.ID != "12" {
		t.Errorf("after l: %q, want 12", b.ID)
	}

	m = send(m, runes("l"))
	if col, _ := m.Cursor(); col != 2 {
		t.Errorf("moving past the last column should stay put, got %d", col)
	}
}

func TestBoard_MoveCardDispatchesMove(t *testing.T) {
	store := &okStore{}
	m, state, c := newBoard(t, store)

	m = send(m, runes(">"))

	b, _ := state.Book("10")
	if b.ShelfID != "2" {
		t.Fatalf("shelf = %q, want 2", b.ShelfID)
	}
	if sel, _ := m.Selected(); sel.ID != "10" {
		t.Errorf("cursor should follow the moved card, got %q", sel.ID)
	}
	if col, _ := m.Cursor(); col != 1 {
		t.Errorf("column = %d, want 1", col)
	}

	c.Wait()
	if len(store.calls) != 1 || store.calls[0] != "shelf" {
		t.Errorf("store calls = %v", store.calls)
	}

	m = send(m, runes("<"), runes("<"))
	b, _ = state.Book("10")
	if b.ShelfID != "1" {
		t.Errorf("shelf = %q, want 1 after moving back", b.ShelfID)
	}
}

func TestBoard_MoveOutsideShelfGrouping(t *testing.T) {
	store := &okStore{}
	m, state, _ := newBoard(t, store)

	m = send(m, runes("g"))
	if m.Params().Group != projection.GroupAuthor {
		t.Fatalf("group = %q, want author", m.Params().Group)
	}
	m = send(m, runes(">"))

	if msg, isErr := m.Status(); !isErr || msg == "" {
		t.Errorf("status = %q, %v; want an error hint", msg, isErr)
	}
	for _, b := range state.Books() {
		if b.ID == "10" && b.ShelfID != "1" {
			t.Errorf("book moved while grouped by author")
		}
	}
}

func TestBoard_SearchFiltersLive(t *testing.T) {
	m, _, _ := newBoard(t, &okStore{})

	m = send(m, runes("/"), runes("e"), runes("m"))
	if m.Params().Search != "em" {
		t.Fatalf("search = %q, want em", m.Params().Search)
	}
	if got := m.Projection().Matched; got != 1 {
		t.Errorf("matched = %d, want 1", got)
	}
	if b, _ := m.Selected(); b.ID != "11" {
		t.Errorf("selection = %q, want Emma", b.ID)
	}

	// q types into the search box instead of quitting
	next, cmd := m.Update(runes("q"))
	m = next.(tui.BoardModel)
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Error("q quit while searching")
		}
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Params().Search != "" || m.Projection().Matched != 3 {
		t.Errorf("esc should clear the search, got %q with %d matches", m.Params().Search, m.Projection().Matched)
	}
}

func TestBoard_SortOrderCycle(t *testing.T) {
	m, _, _ := newBoard(t, &okStore{})

	m = send(m, runes("s"))
	p := m.Projection().Params
	if p.Sort != projection.SortAuthor || p.Order != projection.Asc {
		t.Errorf("after s: %s %s, want author asc", p.Sort, p.Order)
	}

	m = send(m, runes("s"))
	p = m.Projection().Params
	if p.Sort != projection.SortRating || p.Order != projection.Desc {
		t.Errorf("after s s: %s %s, want rating desc", p.Sort, p.Order)
	}

	m = send(m, runes("o"))
	if got := m.Projection().Params.Order; got != projection.Asc {
		t.Errorf("after o: %s, want asc", got)
	}
}

func TestBoard_RatingAndFormatKeys(t *testing.T) {
	m, state, c := newBoard(t, &okStore{})

	m = send(m, tea.KeyMsg{Type: tea.KeyDown}, runes("+"))
	b, _ := state.Book("11")
	if b.Rating == nil || *b.Rating != 8 {
		t.Errorf("rating = %v, want 8", b.Rating)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyUp}, runes("+"))
	b, _ = state.Book("10")
	if b.Rating == nil || *b.Rating != catalog.MinRating {
		t.Errorf("unrated book should start at %d, got %v", catalog.MinRating, b.Rating)
	}

	_ = send(m, runes("t"))
	b, _ = state.Book("10")
	if b.Format != catalog.FormatAudiobook {
		t.Errorf("format = %q, want audiobook", b.Format)
	}
	c.Wait()
}

func TestBoard_FailedMoveRollsBackOnChange(t *testing.T) {
	store := &okStore{fail: errors.New("boom")}
	m, state, c := newBoard(t, store)

	m = send(m, runes(">"))
	c.Wait()

	b, _ := state.Book("10")
	if b.ShelfID != "1" {
		t.Fatalf("shelf = %q, want rollback to 1", b.ShelfID)
	}
	m = send(m, tui.ChangedMsg{}, tui.StatusMsg(coordinator.Status{
		Area:    coordinator.AreaBookshelf,
		Message: "Failed to update book status. Please try again.",
		Err:     errors.New("boom"),
	}))
	if col, _ := m.Cursor(); col != 0 {
		t.Errorf("cursor column = %d, want 0 after rollback", col)
	}
	if msg, isErr := m.Status(); !isErr || !strings.Contains(msg, "Failed") {
		t.Errorf("status = %q, %v", msg, isErr)
	}
}

func TestBoard_QuitAndView(t *testing.T) {
	m, _, _ := newBoard(t, &okStore{})
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 30})

	out := m.View()
	for _, want := range []string{catalog.ShelfWantToRead, catalog.ShelfRead, "Dune", "★7"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
