package app

import (
	"fmt"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/coordinator"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// detailFlags holds the edit flags. Only flags the user set are applied.
type detailFlags struct {
	rating      int
	comments    string
	series      string
	seriesIndex int
	clear       []string
}

func (f *detailFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.rating, "rating", 0, fmt.Sprintf("Rating from %d to %d", catalog.MinRating, catalog.MaxRating))
	fs.StringVar(&f.comments, "comments", "", "Personal notes")
	fs.StringVar(&f.series, "series", "", "Series name")
	fs.IntVar(&f.seriesIndex, "series-index", 0, "Position in the series (requires a series)")
	fs.StringSliceVar(&f.clear, "clear", nil, "Fields to clear: rating, comments, series, series-index")
}

// apply overlays the set flags on d.
func (f *detailFlags) apply(fs *pflag.FlagSet, d catalog.Details) (catalog.Details, error) {
	d = d.Clone()
	for _, field := range f.clear {
		switch field {
		case "rating":
			d.Rating = nil
		case "comments":
			d.Comments = nil
		case "series":
			d.Series = nil
			d.SeriesIndex = nil
		case "series-index", "series_index":
			d.SeriesIndex = nil
		default:
			return d, fmt.Errorf("--clear: unknown field %q", field)
		}
	}
	if fs.Changed("rating") {
		v := f.rating
		d.Rating = &v
	}
	if fs.Changed("comments") {
		v := f.comments
		d.Comments = &v
	}
	if fs.Changed("series") {
		v := f.series
		d.Series = &v
	}
	if fs.Changed("series-index") {
		v := f.seriesIndex
		d.SeriesIndex = &v
	}
	return d, nil
}

func newEditCmd() *cobra.Command {
	var df detailFlags

	cmd := &cobra.Command{
		Use:   "edit <book>",
		Short: "Edit a book's rating, notes or series",
		Example: `  shelfboard edit dune --rating 9
  shelfboard edit 12 --series "Earthsea" --series-index 1
  shelfboard edit 12 --clear comments,rating`,
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
			d, err := df.apply(cmd.Flags(), b.Details())
			if err != nil {
				return err
			}
			if d.Normalize().Equal(b.Details()) {
				warn("Nothing to change for %q", b.Title)
				return nil
			}

			o, err := s.run(ctx, coordinator.Edit{BookID: b.ID, Details: d})
			if err != nil {
				return err
			}
			ok("%s", o.Message)
			return nil
		},
	}

	df.register(cmd.Flags())
	return cmd
}

func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "format <book> <book|audiobook>",
		Aliases:   []string{"type"},
		Short:     "Set whether a book is a printed book or an audiobook",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(catalog.FormatBook), string(catalog.FormatAudiobook)},
		RunE: func(cmd *cobra.Command, args []string) error {
			f := catalog.Format(args[1])
			if !f.Valid() {
				return fmt.Errorf("unknown format %q (want book or audiobook)", args[1])
			}
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			b, err := findBook(s.state, args[0])
			if err != nil {
				return err
			}
			if _, err := s.run(ctx, coordinator.ChangeFormat{BookID: b.ID, Format: f}); err != nil {
				return err
			}
			ok("%q is now marked as %s", b.Title, f)
			return nil
		},
	}
	return cmd
}
