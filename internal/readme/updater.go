// Package readme renders the collection as a Markdown reading list and
// refreshes the generated parts of a hand-edited one.
package readme

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/projection"
)

// RecentHeading starts the section Update rewrites.
const RecentHeading = "## Recently Added"

// DefaultRecent is how many books the Recently Added section keeps.
const DefaultRecent = 10

const dateLayout = "2006-01-02"

var (
	statsCount = regexp.MustCompile(`\*\*\d+ books?\*\*`)
	statsDate  = regexp.MustCompile(`Last updated: \d{4}-\d{2}-\d{2}`)
)

// Render returns a complete reading list: a stats line, the most recently
// added books, then one section per group of v.
func Render(v projection.View, recent []catalog.Book, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Reading List\n\n")
	fmt.Fprintf(&b, "%s | Last updated: %s\n\n", statsLine(v.Matched), now.Format(dateLayout))

	if len(recent) > 0 {
		b.WriteString(RecentHeading + "\n\n")
		for _, book := range recent {
			b.WriteString(entry(book))
		}
		b.WriteString("\n")
	}

	for _, g := range v.Groups {
		name := g.Name
		if name == "" {
			name = "All Books"
		}
		fmt.Fprintf(&b, "## %s (%d)\n\n", name, len(g.Books))
		if len(g.Books) == 0 {
			b.WriteString("_No books._\n\n")
			continue
		}
		for _, book := range g.Books {
			b.WriteString(entry(book))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Update rewrites the stats line and the Recently Added section of content.
// Everything else is left as written; missing parts are not added.
func Update(content string, total int, recent []catalog.Book, now time.Time) string {
	content = updateStats(content, total, now)
	return replaceRecent(content, recent)
}

// Recent returns up to n books with a creation time, newest first.
func Recent(books []catalog.Book, n int) []catalog.Book {
	out := make([]catalog.Book, 0, len(books))
	for _, b := range books {
		if b.CreatedAt != nil {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b catalog.Book) int {
		return b.CreatedAt.Compare(*a.CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func statsLine(count int) string {
	if count == 1 {
		return "**1 book**"
	}
	return fmt.Sprintf("**%d books**", count)
}

// updateStats updates the book count and date in the stats line.
func updateStats(content string, count int, now time.Time) string {
	content = statsCount.ReplaceAllLiteralString(content, statsLine(count))
	return statsDate.ReplaceAllLiteralString(content, "Last updated: "+now.Format(dateLayout))
}

// sectionBounds returns where the section under heading starts and where
// the next "##" section begins, or (-1, -1).
func sectionBounds(content, heading string) (int, int) {
	start := strings.Index(content, heading)
	if start == -1 {
		return -1, -1
	}
	bodyStart := start + len(heading)
	next := strings.Index(content[bodyStart:], "\n##")
	if next == -1 {
		return start, len(content)
	}
	return start, bodyStart + next + 1
}

// replaceRecent swaps the entries of the Recently Added section for recent.
func replaceRecent(content string, recent []catalog.Book) string {
	start, end := sectionBounds(content, RecentHeading)
	if start == -1 {
		return content
	}

	var b strings.Builder
	b.WriteString(RecentHeading + "\n\n")
	for _, book := range recent {
		b.WriteString(entry(book))
	}
	if end < len(content) {
		b.WriteString("\n")
	}
	return content[:start] + b.String() + content[end:]
}

// entry formats one list line.
func entry(b catalog.Book) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- **%s** by %s", escape(b.Title), escape(b.DisplayAuthor()))
	if b.Series != nil {
		if b.SeriesIndex != nil {
			fmt.Fprintf(&sb, " (%s #%d)", escape(*b.Series), *b.SeriesIndex)
		} else {
			fmt.Fprintf(&sb, " (%s)", escape(*b.Series))
		}
	}
	if b.Rating != nil {
		fmt.Fprintf(&sb, " ★%d", *b.Rating)
	}
	if b.Format == catalog.FormatAudiobook {
		sb.WriteString(" · audiobook")
	}
	sb.WriteString("\n")
	return sb.String()
}

var mdEscaper = strings.NewReplacer(`*`, `\*`, `_`, `\_`, "`", "\\`", `[`, `\[`, `]`, `\]`)

func escape(s string) string {
	return mdEscaper.Replace(strings.ReplaceAll(s, "\n", " "))
}
