package app

import (
	"errors"
	"fmt"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/coordinator"
	"github.com/blackwell-systems/shelfboard/internal/util"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var errAborted = errors.New("aborted")

func newDeleteCmd() *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:     "delete <book>",
		Aliases: []string{"rm"},
		Short:   "Remove a book from the collection",
		Example: `  shelfboard delete 12
  shelfboard delete "Dune" --yes`,
		Args: cobra.ExactArgs(1),
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

			if !skipConfirm {
				if flagNoInteractive || !util.IsStdinTTY() {
					return fmt.Errorf("refusing to delete without --yes in non-interactive mode")
				}
				if err := confirmDelete(b); err != nil {
					return err
				}
			}

			o, err := s.run(ctx, coordinator.Delete{BookID: b.ID})
			if err != nil {
				return err
			}
			ok("%s", o.Message)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipConfirm, "yes", false, "Skip confirmation prompt")
	return cmd
}

// confirmDelete asks on the terminal; anything but an explicit yes aborts.
func confirmDelete(b catalog.Book) error {
	var yes bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete %q by %s?", b.Title, b.DisplayAuthor())).
		Affirmative("Delete").
		Negative("Keep").
		Value(&yes).
		Run()
	if errors.Is(err, huh.ErrUserAborted) || (err == nil && !yes) {
		return errAborted
	}
	return err
}
