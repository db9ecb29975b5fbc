package app

import (
	"fmt"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/coordinator"
	"github.com/blackwell-systems/shelfboard/internal/projection"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newShelvesCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "shelves",
		Short: "List shelves and how many books each holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, _, err := loadSnapshot(cmd.Context(), offline, true)
			if err != nil {
				return err
			}
			counts := make(map[catalog.ID]int, len(snap.Shelves))
			for _, b := range snap.Books {
				counts[b.ShelfID]++
			}

			view := projection.Project(projection.Input{Shelves: snap.Shelves}, projection.Params{
				Group:  projection.GroupShelf,
				Locale: cfg.View.Locale,
			})
			header("Shelves")
			for _, g := range view.Groups {
				id := catalog.ID(g.Key)
				marker := " "
				if catalog.IsWellKnown(g.Name) {
					marker = color.HiBlackString("*")
				}
				fmt.Printf("  %s %-6s %-24s %s\n", marker, id, g.Name, color.CyanString("%d", counts[id]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Read the last saved snapshot instead of the server")
	cmd.AddCommand(newShelvesCreateCmd())
	return cmd
}

func newShelvesCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new shelf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			o, err := s.run(ctx, coordinator.CreateShelf{Name: args[0]})
			if err != nil {
				return err
			}
			ok("%s", o.Message)
			return nil
		},
	}
}
