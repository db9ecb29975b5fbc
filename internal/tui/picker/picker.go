// Package picker is a single-choice list program over typed items.
package picker

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCanceled is returned when the user quits without choosing.
var ErrCanceled = errors.New("canceled by user")

// Keys are the bindings the picker acts on itself. Everything else goes to
// the list (navigation, filtering).
type Keys struct {
	Quit   key.Binding
	Select key.Binding
}

// Frame is drawn around the list. Footer, when set, renders a line under it.
type Frame struct {
	Style  lipgloss.Style
	Footer func() string
}

func (f Frame) render(body string) string {
	if f.Footer != nil {
		body += "\n" + f.Footer()
	}
	return f.Style.Render(body)
}

// Model wraps a list.Model whose items are all of type T.
type Model[T list.Item] struct {
	list  list.Model
	keys  Keys
	frame Frame

	chosen *T
	done   bool
}

// New returns a picker over l.
func New[T list.Item](l list.Model, keys Keys, frame Frame) Model[T] {
	return Model[T]{list: l, keys: keys, frame: frame}
}

func (m Model[T]) Init() tea.Cmd { return nil }

func (m Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(T)
			if !ok {
				return m, nil
			}
			m.chosen = &item
			m.done = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		w, h := m.frame.Style.GetFrameSize()
		if m.frame.Footer != nil {
			h += lipgloss.Height(m.frame.Footer())
		}
		m.list.SetSize(msg.Width-w, msg.Height-h)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model[T]) View() string {
	if m.done {
		return ""
	}
	return m.frame.render(m.list.View())
}

// Chosen returns the selected item, or ErrCanceled if the user quit. It
// is only meaningful once the program has exited.
func (m Model[T]) Chosen() (T, error) {
	if m.chosen == nil {
		var zero T
		return zero, ErrCanceled
	}
	return *m.chosen, nil
}

// Run shows the picker on the alternate screen and returns the choice.
func Run[T list.Item](m Model[T], opts ...tea.ProgramOption) (T, error) {
	var zero T
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return zero, fmt.Errorf("running picker: %w", err)
	}
	fm, ok := final.(Model[T])
	if !ok {
		return zero, fmt.Errorf("unexpected model type %T", final)
	}
	return fm.Chosen()
}
