package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Footer highlight names. The board sets one when an action fires so its
// shortcut flashes.
const (
	cmdMove   = "move"
	cmdSort   = "sort"
	cmdOrder  = "order"
	cmdGroup  = "group"
	cmdFormat = "format"
	cmdRate   = "rate"
)

// ClearActiveCmdMsg clears the active command highlight in the footer.
type ClearActiveCmdMsg struct{}

// Shortcut is one footer entry. Cmd is the highlight name it lights up for;
// empty never highlights.
type Shortcut struct {
	Cmd   string
	Key   string
	Label string
}

// ShortcutFor builds a footer entry from a binding's help text.
func ShortcutFor(cmd string, b key.Binding) Shortcut {
	h := b.Help()
	return Shortcut{Cmd: cmd, Key: h.Key, Label: h.Desc}
}

// HighlightCmd returns a 500ms tick command to clear the active command highlight.
// Callers set activeCmd on the model before returning it.
func HighlightCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return ClearActiveCmdMsg{}
	})
}

var footerDim = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// RenderFooterBar renders the shortcuts on one line. The one whose Cmd
// matches active is bracketed and highlighted.
func RenderFooterBar(shortcuts []Shortcut, active string) string {
	parts := make([]string, len(shortcuts))
	for i, sc := range shortcuts {
		text := sc.Key + " " + sc.Label
		if active != "" && sc.Cmd == active {
			parts[i] = StyleHighlight.Render("[ " + text + " ]")
			continue
		}
		parts[i] = footerDim.Render(text)
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, footerDim.Render(" • ")))
}
