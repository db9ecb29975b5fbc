package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blackwell-systems/shelfboard/internal/coordinator"
	"github.com/blackwell-systems/shelfboard/internal/tui"
	"github.com/spf13/cobra"
)

func newBoardCmd() *cobra.Command {
	var vf viewFlags

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive shelf board",
		Long: `The board shows one column per shelf. Move between columns with ←/→,
move the selected book to the neighbouring shelf with < and >, rate it with
+ and -, and search with /.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tui.Interactive(cmd) {
				return fmt.Errorf("board requires an interactive terminal (try: shelfboard list)")
			}
			return runBoardWith(cmd.Context(), cmd, &vf)
		},
	}
	vf.register(cmd)
	return cmd
}

// runBoard opens the board with the configured view defaults.
func runBoard(ctx context.Context, cmd *cobra.Command) error {
	return runBoardWith(ctx, cmd, &viewFlags{})
}

func runBoardWith(ctx context.Context, cmd *cobra.Command, vf *viewFlags) error {
	p, err := vf.params(cmd)
	if err != nil {
		return err
	}

	statuses := make(chan coordinator.Status, 16)
	notify := coordinator.NotifierFunc(func(s coordinator.Status) {
		select {
		case statuses <- s:
		default:
			// dropped while the board is behind
		}
	})

	s, err := openSession(ctx,
		coordinator.WithNotifier(notify),
		// the alt screen owns the terminal; statuses reach the board instead
		coordinator.WithLogger(slog.New(slog.DiscardHandler)),
	)
	if err != nil {
		return err
	}
	defer s.coord.Wait()

	return tui.RunBoard(ctx, s.state, s.engine, s.coord, p, statuses)
}
