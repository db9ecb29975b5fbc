package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/collection"
	"github.com/blackwell-systems/shelfboard/internal/projection"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// viewFlags are the projection settings shared by list and board.
type viewFlags struct {
	sort, order, group, search, only string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort by title, author, rating or created (default from config)")
	cmd.Flags().StringVar(&f.order, "order", "", "asc or desc (default depends on --sort)")
	cmd.Flags().StringVar(&f.group, "group", "", "Group by shelf, author or none (default from config)")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Only books whose title or author contains this text")
	cmd.Flags().StringVar(&f.only, "shelf", "", "Only show this group (shelf name or author)")
}

// params overlays the flags on the configured view defaults.
func (f *viewFlags) params(cmd *cobra.Command) (projection.Params, error) {
	vc := cfg.View
	if cmd.Flags().Changed("sort") {
		vc.Sort = f.sort
		if !cmd.Flags().Changed("order") {
			vc.Order = ""
		}
	}
	if cmd.Flags().Changed("order") {
		vc.Order = f.order
	}
	if cmd.Flags().Changed("group") {
		vc.Group = f.group
	}
	p, err := vc.Params()
	if err != nil {
		return projection.Params{}, err
	}
	p.Search = f.search
	p.Only = f.only
	return p.Normalize(), nil
}

func newListCmd() *cobra.Command {
	var (
		vf      viewFlags
		offline bool
		format  string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List books grouped by shelf",
		Example: `  shelfboard list
  shelfboard list --sort rating
  shelfboard list --group author --search tolkien
  shelfboard list --shelf "Currently Reading" --format json
  shelfboard list --offline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := vf.params(cmd)
			if err != nil {
				return err
			}
			snap, _, err := loadSnapshot(cmd.Context(), offline, true)
			if err != nil {
				return err
			}
			state := collection.New()
			state.LoadShelves(snap.Shelves)
			state.Load(snap.Books)
			view := projection.NewEngine(state).View(p)

			switch format {
			case "":
				printView(os.Stdout, state, view)
				return nil
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(view.Groups)
			case "yaml":
				enc := yaml.NewEncoder(os.Stdout)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(view.Groups)
			}
			return fmt.Errorf("unknown --format %q (want json or yaml)", format)
		},
	}

	vf.register(cmd)
	cmd.Flags().BoolVar(&offline, "offline", false, "Read the last saved snapshot instead of the server")
	cmd.Flags().StringVar(&format, "format", "", "Output format: json or yaml (default: table)")
	return cmd
}

func printView(w io.Writer, state *collection.State, view projection.View) {
	p := view.Params
	if view.Matched == 0 {
		if p.Search != "" {
			fmt.Fprintf(w, "No books match %q.\n", p.Search)
		} else {
			fmt.Fprintln(w, "No books on your shelves yet. Add one with: shelfboard add --search <title>")
		}
		if p.Group != projection.GroupShelf {
			return
		}
	}

	for _, g := range view.Groups {
		name := g.Name
		if name == "" {
			name = "Books"
		}
		fmt.Fprintln(w, color.CyanString("%s (%d)", name, len(g.Books)))
		for _, b := range g.Books {
			fmt.Fprintln(w, "  "+formatBookLine(state, b, p.Group))
		}
		fmt.Fprintln(w)
	}
}

func formatBookLine(state *collection.State, b catalog.Book, group projection.GroupMode) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-6s %s", color.HiBlackString(string(b.ID)), b.Title)
	if group != projection.GroupAuthor {
		sb.WriteString(color.HiBlackString(" by " + b.DisplayAuthor()))
	}
	if group != projection.GroupShelf {
		sb.WriteString(color.HiBlackString(" [" + shelfName(state, b.ShelfID) + "]"))
	}
	if b.Series != nil {
		if b.SeriesIndex != nil {
			fmt.Fprintf(&sb, " (%s #%d)", *b.Series, *b.SeriesIndex)
		} else {
			fmt.Fprintf(&sb, " (%s)", *b.Series)
		}
	}
	if b.Rating != nil {
		sb.WriteString(color.CyanString(" ★%d", *b.Rating))
	}
	if b.Format == catalog.FormatAudiobook {
		sb.WriteString(color.YellowString(" audiobook"))
	}
	return sb.String()
}
