package tui

import (
	"github.com/blackwell-systems/shelfboard/internal/tui/picker"
	"github.com/charmbracelet/bubbles/key"
)

// NewPickerKeys returns the bindings of the shelf picker.
func NewPickerKeys() picker.Keys {
	return picker.Keys{
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "move here")),
	}
}

// BoardKeys are the bindings of the shelf board.
type BoardKeys struct {
	Quit      key.Binding
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Search    key.Binding
	Sort      key.Binding
	Order     key.Binding
	Group     key.Binding
	Format    key.Binding
	RateUp    key.Binding
	RateDown  key.Binding
}

// NewBoardKeys creates the board key bindings.
func NewBoardKeys() BoardKeys {
	return BoardKeys{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveLeft:  key.NewBinding(key.WithKeys("<", "H", "shift+left"), key.WithHelp("<", "move left")),
		MoveRight: key.NewBinding(key.WithKeys(">", "L", "shift+right"), key.WithHelp(">", "move right")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Order:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "order")),
		Group:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group")),
		Format:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type")),
		RateUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "rate up")),
		RateDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "rate down")),
	}
}

// shortcuts lists the footer entries. Paired bindings share one entry.
func (k BoardKeys) shortcuts() []Shortcut {
	return []Shortcut{
		{Key: "←→", Label: "column"},
		{Cmd: cmdMove, Key: "<>", Label: "move"},
		ShortcutFor("", k.Search),
		ShortcutFor(cmdSort, k.Sort),
		ShortcutFor(cmdOrder, k.Order),
		ShortcutFor(cmdGroup, k.Group),
		ShortcutFor(cmdFormat, k.Format),
		{Cmd: cmdRate, Key: "+-", Label: "rating"},
		ShortcutFor("", k.Quit),
	}
}
