// Package delegate renders one-line list rows with a cursor marker.
package delegate

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LineFunc returns the text of one row, or "" to skip the item.
type LineFunc func(item list.Item) string

// Rows is a list.ItemDelegate for single-line items. The selected row is
// prefixed with Marker; other rows are indented to line up with it.
type Rows struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Marker   string

	line LineFunc
}

// New returns a row delegate with the "› " marker.
func New(line LineFunc, normal, selected lipgloss.Style) Rows {
	return Rows{Normal: normal, Selected: selected, Marker: "› ", line: line}
}

func (Rows) Height() int { return 1 }

func (Rows) Spacing() int { return 0 }

func (Rows) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d Rows) Render(w io.Writer, m list.Model, index int, item list.Item) {
	if d.line == nil {
		return
	}
	text := d.line(item)
	if text == "" {
		return
	}
	if index == m.Index() {
		_, _ = io.WriteString(w, d.Selected.Render(d.Marker+text))
		return
	}
	indent := strings.Repeat(" ", lipgloss.Width(d.Marker))
	_, _ = io.WriteString(w, indent+d.Normal.Render(text))
}
