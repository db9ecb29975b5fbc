package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/tui/picker"
	tea "github.com/charmbracelet/bubbletea"
)

func pickerOptions() []ShelfOption {
	return []ShelfOption{
		{Shelf: catalog.Shelf{ID: "1", Name: catalog.ShelfWantToRead}, Count: 2, Current: true},
		{Shelf: catalog.Shelf{ID: "2", Name: catalog.ShelfCurrentlyReading}},
		{Shelf: catalog.Shelf{ID: "3", Name: catalog.ShelfRead}, Count: 5},
	}
}

func choose(m picker.Model[ShelfOption], msgs ...tea.Msg) picker.Model[ShelfOption] {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(picker.Model[ShelfOption])
	}
	return m
}

func TestShelfPicker_StartsAfterCurrentShelf(t *testing.T) {
	m := choose(newShelfPicker("Move to", pickerOptions()), tea.KeyMsg{Type: tea.KeyEnter})

	opt, err := m.Chosen()
	if err != nil {
		t.Fatalf("enter did not select a shelf: %v", err)
	}
	if opt.Shelf.ID != "2" {
		t.Errorf("selected %q, want the shelf after the current one", opt.Shelf.ID)
	}
}

func TestShelfPicker_CurrentLastStartsAtTop(t *testing.T) {
	opts := pickerOptions()
	opts[0].Current, opts[2].Current = false, true
	m := choose(newShelfPicker("Move to", opts), tea.KeyMsg{Type: tea.KeyEnter})
	if opt, _ := m.Chosen(); opt.Shelf.ID != "1" {
		t.Errorf("selected %q, want 1", opt.Shelf.ID)
	}
}

func TestShelfPicker_Cancel(t *testing.T) {
	m := choose(newShelfPicker("Move to", pickerOptions()), tea.KeyMsg{Type: tea.KeyEsc})
	if _, err := m.Chosen(); !errors.Is(err, picker.ErrCanceled) {
		t.Errorf("error = %v, want ErrCanceled", err)
	}
}

func TestShelfPicker_View(t *testing.T) {
	m := choose(newShelfPicker("Move to", pickerOptions()), tea.WindowSizeMsg{Width: 60, Height: 20})
	out := m.View()
	for _, want := range []string{"Move to", catalog.ShelfRead, "(5)", "current", "move here"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRunShelfPicker_ShortCircuits(t *testing.T) {
	if _, err := RunShelfPicker("x", nil); !errors.Is(err, ErrNoShelves) {
		t.Errorf("empty options: %v", err)
	}
	only := []ShelfOption{{Shelf: catalog.Shelf{ID: "9", Name: "Solo"}}}
	sh, err := RunShelfPicker("x", only)
	if err != nil || sh.ID != "9" {
		t.Errorf("single option = %v, %v", sh, err)
	}
}
