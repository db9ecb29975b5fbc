package tui

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/collection"
	"github.com/blackwell-systems/shelfboard/internal/coordinator"
	"github.com/blackwell-systems/shelfboard/internal/projection"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ChangedMsg tells the board the collection moved on.
type ChangedMsg struct{}

// StatusMsg carries a coordinator status line to the board.
type StatusMsg coordinator.Status

// Dispatcher runs intents. *coordinator.Coordinator implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, in coordinator.Intent) *coordinator.Ticket
}

// BoardModel is a column-per-group view of the collection. Moving a card
// across columns in by-shelf mode dispatches a Move.
type BoardModel struct {
	ctx    context.Context
	engine *projection.Engine
	intent Dispatcher
	keys   BoardKeys

	params projection.Params
	view   projection.View

	col, row int
	selected catalog.ID

	search    textinput.Model
	searching bool

	status    string
	statusErr bool
	activeCmd string

	width, height int
}

// NewBoard builds a board over the collection engine projects.
func NewBoard(ctx context.Context, engine *projection.Engine, d Dispatcher, params projection.Params) BoardModel {
	ti := textinput.New()
	ti.Placeholder = "title or author"
	ti.Prompt = "/ "
	ti.CharLimit = 200
	ti.SetValue(params.Search)

	m := BoardModel{
		ctx:    ctx,
		engine: engine,
		intent: d,
		keys:   NewBoardKeys(),
		params: params,
		search: ti,
		width:  100,
		height: 30,
	}
	m.refresh()
	return m
}

// Params returns the current view settings.
func (m BoardModel) Params() projection.Params { return m.params }

// Projection returns the view currently on screen.
func (m BoardModel) Projection() projection.View { return m.view }

// Cursor returns the selected column and row.
func (m BoardModel) Cursor() (int, int) { return m.col, m.row }

// Selected returns the book under the cursor.
func (m BoardModel) Selected() (catalog.Book, bool) {
	if m.col < 0 || m.col >= len(m.view.Groups) {
		return catalog.Book{}, false
	}
	books := m.view.Groups[m.col].Books
	if m.row < 0 || m.row >= len(books) {
		return catalog.Book{}, false
	}
	return books[m.row], true
}

// Status returns the last status line and whether it reports a failure.
func (m BoardModel) Status() (string, bool) { return m.status, m.statusErr }

func (m BoardModel) Init() tea.Cmd {
	return nil
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case ChangedMsg:
		m.refresh()
		return m, nil

	case StatusMsg:
		m.status = msg.Message
		m.statusErr = msg.Err != nil
		return m, nil

	case ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m BoardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.params.Search = ""
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.params.Search {
		m.params.Search = m.search.Value()
		m.refresh()
	}
	return m, cmd
}

func (m BoardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.MoveLeft):
		return m.moveCard(-1)

	case key.Matches(msg, m.keys.MoveRight):
		return m.moveCard(1)

	case key.Matches(msg, m.keys.Left):
		m.focusColumn(m.col - 1)

	case key.Matches(msg, m.keys.Right):
		m.focusColumn(m.col + 1)

	case key.Matches(msg, m.keys.Up):
		m.focusRow(m.row - 1)

	case key.Matches(msg, m.keys.Down):
		m.focusRow(m.row + 1)

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Sort):
		m.params.Sort = m.params.Normalize().Sort.Next()
		m.params.Order = ""
		m.refresh()
		m.activeCmd = cmdSort
		return m, HighlightCmd()

	case key.Matches(msg, m.keys.Order):
		m.params.Order = m.params.Normalize().Order.Flip()
		m.refresh()
		m.activeCmd = cmdOrder
		return m, HighlightCmd()

	case key.Matches(msg, m.keys.Group):
		m.params.Group = m.params.Normalize().Group.Next()
		m.refresh()
		m.activeCmd = cmdGroup
		return m, HighlightCmd()

	case key.Matches(msg, m.keys.Format):
		return m.toggleFormat()

	case key.Matches(msg, m.keys.RateUp):
		return m.rate(1)

	case key.Matches(msg, m.keys.RateDown):
		return m.rate(-1)
	}
	return m, nil
}

// moveCard sends the selected book to the neighbouring shelf column.
func (m BoardModel) moveCard(dir int) (tea.Model, tea.Cmd) {
	if m.view.Params.Group != projection.GroupShelf {
		m.setStatus("Switch to shelf grouping to move books.", true)
		return m, nil
	}
	b, ok := m.Selected()
	if !ok {
		return m, nil
	}
	target := m.col + dir
	if target < 0 || target >= len(m.view.Groups) || m.view.Groups[target].Key == "" {
		return m, nil
	}

	shelfID := catalog.ID(m.view.Groups[target].Key)
	m.dispatch(coordinator.Move{BookID: b.ID, ShelfID: shelfID})
	m.activeCmd = cmdMove
	return m, HighlightCmd()
}

func (m BoardModel) toggleFormat() (tea.Model, tea.Cmd) {
	b, ok := m.Selected()
	if !ok {
		return m, nil
	}
	next := catalog.FormatAudiobook
	if b.Format == catalog.FormatAudiobook {
		next = catalog.FormatBook
	}
	m.dispatch(coordinator.ChangeFormat{BookID: b.ID, Format: next})
	m.activeCmd = cmdFormat
	return m, HighlightCmd()
}

// rate nudges the rating; an unrated book starts from the bound in the
// direction of travel.
func (m BoardModel) rate(delta int) (tea.Model, tea.Cmd) {
	b, ok := m.Selected()
	if !ok {
		return m, nil
	}
	var next int
	switch {
	case b.Rating == nil && delta > 0:
		next = catalog.MinRating
	case b.Rating == nil:
		next = catalog.MaxRating
	default:
		next = *b.Rating + delta
	}
	if next < catalog.MinRating || next > catalog.MaxRating {
		return m, nil
	}

	d := b.Details()
	d.Rating = &next
	m.dispatch(coordinator.Edit{BookID: b.ID, Details: d})
	m.activeCmd = cmdRate
	return m, HighlightCmd()
}

// dispatch runs an intent and refreshes immediately; the optimistic change
// is already applied when Dispatch returns.
func (m *BoardModel) dispatch(in coordinator.Intent) {
	t := m.intent.Dispatch(m.ctx, in)
	if t.Phase() == coordinator.PhaseRejected {
		o := t.Outcome()
		msg := o.Message
		if msg == "" && o.Err != nil {
			msg = o.Err.Error()
		}
		m.setStatus(msg, true)
	}
	m.refresh()
}

func (m *BoardModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// refresh reprojects and keeps the cursor on the same book when it is
// still visible.
func (m *BoardModel) refresh() {
	m.view = m.engine.View(m.params)
	if m.selected != "" {
		if gi, bi := m.view.Find(m.selected); gi >= 0 {
			m.col, m.row = gi, bi
			return
		}
	}
	m.clamp()
}

func (m *BoardModel) focusColumn(col int) {
	if col < 0 || col >= len(m.view.Groups) {
		return
	}
	m.col = col
	m.clamp()
}

func (m *BoardModel) focusRow(row int) {
	if m.col >= len(m.view.Groups) {
		return
	}
	n := len(m.view.Groups[m.col].Books)
	if row < 0 || row >= n {
		return
	}
	m.row = row
	m.remember()
}

func (m *BoardModel) clamp() {
	if len(m.view.Groups) == 0 {
		m.col, m.row = 0, 0
		m.selected = ""
		return
	}
	m.col = min(max(m.col, 0), len(m.view.Groups)-1)
	n := len(m.view.Groups[m.col].Books)
	if n == 0 {
		m.row = 0
	} else {
		m.row = min(max(m.row, 0), n-1)
	}
	m.remember()
}

func (m *BoardModel) remember() {
	if b, ok := m.Selected(); ok {
		m.selected = b.ID
		return
	}
	m.selected = ""
}

// RunBoard runs the board until the user quits. Collection changes and
// coordinator statuses reach the running program through Send.
func RunBoard(ctx context.Context, state *collection.State, engine *projection.Engine, d Dispatcher, params projection.Params, statuses <-chan coordinator.Status) error {
	p := tea.NewProgram(NewBoard(ctx, engine, d, params), tea.WithAltScreen(), tea.WithContext(ctx))

	cancel := state.Subscribe(func(collection.Change) { go p.Send(ChangedMsg{}) })
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case s, ok := <-statuses:
				if !ok {
					return
				}
				p.Send(StatusMsg(s))
			case <-done:
				return
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running board: %w", err)
	}
	return nil
}
