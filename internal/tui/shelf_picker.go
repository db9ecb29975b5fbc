package tui

import (
	"errors"
	"fmt"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/tui/delegate"
	"github.com/blackwell-systems/shelfboard/internal/tui/picker"
	"github.com/charmbracelet/bubbles/list"
)

// ErrNoShelves is returned when there is nothing to pick from.
var ErrNoShelves = errors.New("no shelves available")

// ShelfOption is one row of the shelf picker.
type ShelfOption struct {
	Shelf catalog.Shelf
	Count int
	// Current marks the shelf the book already sits on.
	Current bool
}

func (s ShelfOption) FilterValue() string { return s.Shelf.Name }

func shelfLine(item list.Item) string {
	opt, ok := item.(ShelfOption)
	if !ok {
		return ""
	}
	line := opt.Shelf.Name + " " + StyleHelp.Render(fmt.Sprintf("(%d)", opt.Count))
	if opt.Current {
		line += StyleHelp.Render(" current")
	}
	return line
}

// newShelfPicker starts on the shelf after the current one, the usual next
// step for a book.
func newShelfPicker(title string, options []ShelfOption) picker.Model[ShelfOption] {
	items := make([]list.Item, len(options))
	start := 0
	for i, o := range options {
		items[i] = o
		if o.Current && i+1 < len(options) {
			start = i + 1
		}
	}

	l := list.New(items, delegate.New(shelfLine, StyleNormal, StyleHighlight), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = StyleHeader
	l.Select(start)

	keys := NewPickerKeys()
	footer := []Shortcut{
		{Key: "↑↓", Label: "choose"},
		{Key: "/", Label: "filter"},
		ShortcutFor("", keys.Select),
		ShortcutFor("", keys.Quit),
	}
	return picker.New[ShelfOption](l, keys, picker.Frame{
		Style:  StyleBorder,
		Footer: func() string { return RenderFooterBar(footer, "") },
	})
}

// RunShelfPicker lets the user choose a shelf. With a single option it is
// returned without asking; picker.ErrCanceled means the user backed out.
func RunShelfPicker(title string, options []ShelfOption) (catalog.Shelf, error) {
	switch len(options) {
	case 0:
		return catalog.Shelf{}, ErrNoShelves
	case 1:
		return options[0].Shelf, nil
	}

	opt, err := picker.Run(newShelfPicker(title, options))
	if err != nil {
		return catalog.Shelf{}, err
	}
	return opt.Shelf, nil
}
