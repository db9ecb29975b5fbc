package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/blackwell-systems/shelfboard/internal/cache"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offline snapshot",
		Long: `Every successful load saves a snapshot of the collection, used by
--offline and when the server is unreachable. Snapshots are kept per server.`,
	}
	cmd.AddCommand(newCacheInfoCmd(), newCacheClearCmd())
	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the snapshot for the current server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cacheMgr.Path(cfg.Remote.BaseURL)
			header("Offline snapshot")
			fmt.Printf("  Server: %s\n", cfg.Remote.BaseURL)
			fmt.Printf("  Path:   %s\n", path)

			snap, err := cacheMgr.Load(cfg.Remote.BaseURL)
			if errors.Is(err, cache.ErrNoSnapshot) {
				fmt.Println("  " + color.HiBlackString("none saved yet"))
				return nil
			}
			if err != nil {
				return err
			}
			fi, err := os.Stat(path)
			if err != nil {
				return err
			}
			fmt.Printf("  Saved:  %s\n", snap.SavedAt.Local().Format("2006-01-02 15:04"))
			fmt.Printf("  Books:  %d on %d shelves\n", len(snap.Books), len(snap.Shelves))
			fmt.Printf("  Size:   %d bytes\n", fi.Size())
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the snapshot for the current server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cacheMgr.Exists(cfg.Remote.BaseURL) {
				ok("No snapshot to clear")
				return nil
			}
			if err := cacheMgr.Remove(cfg.Remote.BaseURL); err != nil {
				return fmt.Errorf("removing snapshot: %w", err)
			}
			ok("Cleared snapshot for %s", cfg.Remote.BaseURL)
			return nil
		},
	}
}
