package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/search"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog for books to add",
		Example: `  shelfboard search dune
  shelfboard search "the left hand of darkness"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			res, err := search.NewSession(client, s.state).Query(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return &outcomeError{msg: search.Message(err), err: err}
			}
			printHits(os.Stdout, res.Hits)
			return nil
		},
	}
	return cmd
}

func printHits(w io.Writer, hits []search.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	for i, h := range hits {
		author := h.Author
		if author == "" {
			author = catalog.DefaultAuthor
		}
		line := fmt.Sprintf("%2d. %s %s", i+1, h.Title, color.HiBlackString("by "+author))
		if h.CatalogRef != "" {
			line += color.HiBlackString("  " + h.CatalogRef)
		}
		if h.OnShelf {
			line += color.GreenString("  ✓ on shelf (%s)", h.BookID)
		}
		fmt.Fprintln(w, line)
	}
}
