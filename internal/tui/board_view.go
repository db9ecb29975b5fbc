package tui

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/projection"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	minColumnWidth = 22
	maxColumnWidth = 40
	// header, search, status and footer lines plus column borders
	chromeHeight = 8
)

func (m BoardModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.searching || m.params.Search != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	switch {
	case len(m.view.Groups) == 0:
		b.WriteString(StyleHelp.Render("  No books on your shelves yet."))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderColumns())
		b.WriteString("\n")
		if m.view.Matched == 0 && m.view.Params.Search != "" {
			b.WriteString(StyleHelp.Render(fmt.Sprintf("  No books match %q.", m.view.Params.Search)))
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		style := StyleSuccess
		if m.statusErr {
			style = StyleError
		}
		b.WriteString(style.Render(" " + m.status))
	}
	b.WriteString("\n")
	b.WriteString(RenderFooterBar(m.keys.shortcuts(), m.activeCmd))
	return b.String()
}

func (m BoardModel) renderHeader() string {
	p := m.view.Params
	summary := fmt.Sprintf("sort: %s %s · group: %s · %d book%s",
		p.Sort, p.Order, p.Group, m.view.Matched, plural(m.view.Matched))
	return StyleHeader.Render(" shelfboard ") + StyleHelp.Render(summary)
}

func (m BoardModel) columnWidth() int {
	n := max(len(m.view.Groups), 1)
	w := m.width/n - 4
	return min(max(w, minColumnWidth), maxColumnWidth)
}

func (m BoardModel) renderColumns() string {
	width := m.columnWidth()
	rows := max(m.height-chromeHeight, 3)

	cols := make([]string, 0, len(m.view.Groups))
	for gi, g := range m.view.Groups {
		cols = append(cols, m.renderColumn(gi, g, width, rows))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m BoardModel) renderColumn(gi int, g projection.Group, width, rows int) string {
	active := gi == m.col
	title := fmt.Sprintf("%s (%d)", g.Name, len(g.Books))
	if g.Name == "" {
		title = fmt.Sprintf("All books (%d)", len(g.Books))
	}

	lines := []string{StyleHeader.Render(xansi.Truncate(title, width, "…"))}

	start := 0
	if active && m.row >= rows {
		start = m.row - rows + 1
	}
	end := min(start+rows, len(g.Books))
	for bi := start; bi < end; bi++ {
		lines = append(lines, renderCard(g.Books[bi], width, active && bi == m.row))
	}
	if end < len(g.Books) {
		lines = append(lines, StyleHelp.Render(fmt.Sprintf("  +%d more", len(g.Books)-end)))
	}
	if len(g.Books) == 0 {
		lines = append(lines, StyleHelp.Render("  empty"))
	}

	style := StyleColumn
	if active {
		style = StyleColumnActive
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func renderCard(b catalog.Book, width int, selected bool) string {
	suffix := ""
	if b.Rating != nil {
		suffix += fmt.Sprintf(" ★%d", *b.Rating)
	}
	if b.Format == catalog.FormatAudiobook {
		suffix += " ♪"
	}

	room := width - 2 - xansi.StringWidth(suffix)
	title := xansi.Truncate(b.Title, max(room, 4), "…")

	if selected {
		return StyleHighlight.Render("› "+title) + StyleRating.Render(suffix)
	}
	return "  " + StyleNormal.Render(title) + StyleRating.Render(suffix)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
