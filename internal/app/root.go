package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/blackwell-systems/shelfboard/internal/cache"
	"github.com/blackwell-systems/shelfboard/internal/config"
	"github.com/blackwell-systems/shelfboard/internal/remote"
	"github.com/blackwell-systems/shelfboard/internal/tui"
	"github.com/blackwell-systems/shelfboard/internal/util"
	"github.com/fatih/color"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	client   *remote.Client
	cacheMgr *cache.Manager

	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string
	flagLogLevel      string
	flagURL           string
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelfboard",
		Short: "Keep a reading list on a bookshelf server",
		Long: `shelfboard is a client for a bookshelf server. Books sit on shelves
("Want to Read", "Currently Reading", "Read" and any you create), can be
rated and annotated, and can be found through the catalog search.

Changes are shown immediately and rolled back if the server refuses them.

Run 'shelfboard' with no arguments on a terminal to open the board.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tui.Interactive(cmd) {
				return runBoard(cmd.Context(), cmd)
			}
			return cmd.Help()
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")
	pf.StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/shelfboard/config.yml)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	pf.StringVar(&flagURL, "url", "", "Bookshelf server API base URL (overrides remote.base_url)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagURL != "" {
			cfg.Remote.BaseURL = flagURL
		}

		level := cfg.Log.Level
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		lvl, err := config.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		initLogging(lvl)

		client = remote.New(cfg.Remote.BaseURL,
			remote.WithTimeout(cfg.Remote.Timeout),
			remote.WithSearchRate(cfg.Remote.SearchRPS),
			remote.WithUserAgent("shelfboard/"+appVersion),
		)
		cacheMgr = cache.New(cfg.Cache.Dir)
		return nil
	}

	cmd.AddCommand(
		newListCmd(),
		newSearchCmd(),
		newAddCmd(),
		newMoveCmd(),
		newEditCmd(),
		newFormatCmd(),
		newDeleteCmd(),
		newShelvesCmd(),
		newBoardCmd(),
		newExportCmd(),
		newServeCmd(),
		newInitCmd(),
		newCacheCmd(),
		newCompletionCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func initLogging(level slog.Level) {
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}
