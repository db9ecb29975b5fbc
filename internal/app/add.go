package app

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/coordinator"
	"github.com/blackwell-systems/shelfboard/internal/search"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var (
		draft     catalog.Draft
		coverURL  string
		query     string
		pick      int
		shelfName string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book from the catalog",
		Long: `Add a book to the collection. Either name the catalog entry directly
with --ref and --title, or search with --search and take result --pick.

New books land on the server's default shelf unless --shelf is given.`,
		Example: `  shelfboard add --search dune
  shelfboard add --search "earthsea" --pick 2 --shelf "Currently Reading"
  shelfboard add --ref OL26320A --title "A Wizard of Earthsea" --author "Ursula K. Le Guin"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}

			var target *catalog.Shelf
			if shelfName != "" {
				sh, err := findShelf(s.state, shelfName)
				if err != nil {
					return err
				}
				target = &sh
			}

			if query != "" {
				res, err := search.NewSession(client, s.state).Query(ctx, query)
				if err != nil {
					return &outcomeError{msg: search.Message(err), err: err}
				}
				if pick < 1 || pick > len(res.Hits) {
					printHits(os.Stdout, res.Hits)
					return fmt.Errorf("--pick %d is out of range (1-%d)", pick, len(res.Hits))
				}
				hit := res.Hits[pick-1]
				draft = hit.Draft()
			} else if coverURL != "" {
				draft.CoverURL = &coverURL
			}

			o, err := s.run(ctx, coordinator.Add{Draft: draft})
			if err != nil {
				return err
			}
			ok("%s", o.Message)

			if target != nil && o.Book != nil && o.Book.ShelfID != target.ID {
				if _, err := s.run(ctx, coordinator.Move{BookID: o.Book.ID, ShelfID: target.ID}); err != nil {
					return err
				}
				ok("Moved to %s", target.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "search", "", "Search the catalog and add a result")
	cmd.Flags().IntVar(&pick, "pick", 1, "Which search result to add (1-based)")
	cmd.Flags().StringVar(&draft.CatalogRef, "ref", "", "Catalog (Open Library) id")
	cmd.Flags().StringVar(&draft.Title, "title", "", "Book title")
	cmd.Flags().StringVar(&draft.Author, "author", "", "Book author")
	cmd.Flags().StringVar(&draft.ISBN, "isbn", "", "ISBN")
	cmd.Flags().StringVar(&coverURL, "cover", "", "Cover image URL")
	cmd.Flags().StringVar(&shelfName, "shelf", "", "Shelf to put the new book on")
	cmd.MarkFlagsMutuallyExclusive("search", "ref")
	return cmd
}
