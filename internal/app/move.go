package app

import (
	"fmt"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/coordinator"
	"github.com/blackwell-systems/shelfboard/internal/projection"
	"github.com/blackwell-systems/shelfboard/internal/tui"
	"github.com/spf13/cobra"
)

func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <book> [shelf]",
		Short: "Move a book to another shelf",
		Long: `Move a book (by id or title) to a shelf (by id or name).

Without a shelf argument on a terminal, a shelf picker opens.`,
		Example: `  shelfboard move 12 Read
  shelfboard move "Dune" "Currently Reading"
  shelfboard move dune`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			b, err := findBook(s.state, args[0])
			if err != nil {
				return err
			}

			var target catalog.Shelf
			if len(args) == 2 {
				target, err = findShelf(s.state, args[1])
			} else {
				target, err = pickShelf(cmd, s, b)
			}
			if err != nil {
				return err
			}

			if b.ShelfID == target.ID {
				ok("%q is already on %s", b.Title, target.Name)
				return nil
			}
			if _, err := s.run(ctx, coordinator.Move{BookID: b.ID, ShelfID: target.ID}); err != nil {
				return err
			}
			ok("Moved %q: %s → %s", b.Title, shelfName(s.state, b.ShelfID), target.Name)
			return nil
		},
	}
	return cmd
}

func pickShelf(cmd *cobra.Command, s *session, b catalog.Book) (catalog.Shelf, error) {
	if !tui.Interactive(cmd) {
		return catalog.Shelf{}, fmt.Errorf("shelf argument required in non-interactive mode")
	}

	counts := make(map[catalog.ID]int)
	for _, book := range s.state.Books() {
		counts[book.ShelfID]++
	}
	view := s.engine.View(projection.Params{Group: projection.GroupShelf, Locale: cfg.View.Locale})
	var options []tui.ShelfOption
	for _, g := range view.Groups {
		if g.Key == "" {
			continue
		}
		id := catalog.ID(g.Key)
		sh, _ := s.state.Shelf(id)
		options = append(options, tui.ShelfOption{Shelf: sh, Count: counts[id], Current: id == b.ShelfID})
	}
	return tui.RunShelfPicker(fmt.Sprintf("Move %q to", b.Title), options)
}
