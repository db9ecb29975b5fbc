package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blackwell-systems/shelfboard/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file pointing at your bookshelf server",
		Long: `Writes the config file with the current settings, so later commands
need no flags. Pass the server with the global --url flag.

The server is contacted once to check it answers; an unreachable server is
only a warning.`,
		Example: `  shelfboard init --url http://books.local:8080/api
  shelfboard init --config ./shelfboard.yml --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ResolvePath(flagConfig)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			ok("Wrote %s", path)

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			shelves, err := client.ListShelves(ctx)
			if err != nil {
				warn("Could not reach %s: %v", cfg.Remote.BaseURL, err)
				return nil
			}
			fmt.Printf("  %s answers with %d shelves\n", color.CyanString(cfg.Remote.BaseURL), len(shelves))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
