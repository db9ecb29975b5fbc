package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/blackwell-systems/shelfboard/internal/cache"
	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/projection"
	"github.com/blackwell-systems/shelfboard/internal/readme"
	"github.com/blackwell-systems/shelfboard/internal/util"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		output  string
		offline bool
		format  string
		update  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection as YAML or a Markdown reading list",
		Long: `Writes the collection as a YAML snapshot that "serve --seed" can load, or
with --format markdown as a reading list grouped by shelf.

--update refreshes the stats line and the "Recently Added" section of an
existing Markdown file and leaves the rest of it alone.`,
		Example: `  shelfboard export > shelf.yml
  shelfboard export -o backup/shelf.yml
  shelfboard export --offline -o shelf.yml
  shelfboard export --format markdown -o READING.md
  shelfboard export --format markdown --update -o README.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "yaml":
			case "markdown", "md":
				return exportMarkdown(cmd.Context(), output, offline, update)
			default:
				return fmt.Errorf("unknown --format %q (want yaml or markdown)", format)
			}
			if update {
				return errors.New("--update only applies to --format markdown")
			}
			if offline {
				return exportCached(output)
			}

			snap, err := fetchCollection(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading collection: %w", err)
			}
			snap.SavedAt = time.Now().UTC()
			data, err := catalog.Marshal(snap)
			if err != nil {
				return fmt.Errorf("encoding collection: %w", err)
			}
			if output == "" || output == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := util.WriteFileAtomic(output, data); err != nil {
				return err
			}
			ok("Exported %d books on %d shelves to %s", len(snap.Books), len(snap.Shelves), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Export the last saved snapshot instead of the server")
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or markdown")
	cmd.Flags().BoolVar(&update, "update", false, "Refresh an existing Markdown file in place (needs -o)")
	return cmd
}

func exportMarkdown(ctx context.Context, output string, offline, update bool) error {
	snap, _, err := loadSnapshot(ctx, offline, false)
	if err != nil {
		return err
	}
	p, err := cfg.View.Params()
	if err != nil {
		return err
	}
	p.Group = projection.GroupShelf
	view := projection.Project(projection.Input{Books: snap.Books, Shelves: snap.Shelves}, p)
	recent := readme.Recent(snap.Books, readme.DefaultRecent)
	now := time.Now()

	var doc string
	if update {
		if output == "" || output == "-" {
			return errors.New("--update needs -o with the file to refresh")
		}
		existing, err := os.ReadFile(output)
		if err != nil {
			return fmt.Errorf("reading %s: %w", output, err)
		}
		doc = readme.Update(string(existing), view.Matched, recent, now)
	} else {
		doc = readme.Render(view, recent, now)
	}

	if output == "" || output == "-" {
		_, err = os.Stdout.WriteString(doc)
		return err
	}
	if err := util.WriteFileAtomic(output, []byte(doc)); err != nil {
		return err
	}
	ok("Wrote reading list of %d books to %s", view.Matched, output)
	return nil
}

// exportCached copies the verified snapshot file as is.
func exportCached(output string) error {
	path := cacheMgr.Path(cfg.Remote.BaseURL)
	snap, err := cacheMgr.Load(cfg.Remote.BaseURL)
	if err != nil {
		if errors.Is(err, cache.ErrNoSnapshot) {
			return fmt.Errorf("no offline snapshot for %s", cfg.Remote.BaseURL)
		}
		return err
	}
	if output == "" || output == "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := util.CopyFile(path, output); err != nil {
		return fmt.Errorf("copying snapshot: %w", err)
	}
	ok("Exported snapshot from %s (%d books) to %s", snap.SavedAt.Local().Format("2006-01-02 15:04"), len(snap.Books), output)
	return nil
}
