package tui

import (
	"github.com/blackwell-systems/shelfboard/internal/util"
	"github.com/spf13/cobra"
)

// Interactive reports whether cmd may take over the terminal. It needs a
// terminal on both stdin and stdout, --no-interactive unset, and no
// --format output requested.
func Interactive(cmd *cobra.Command) bool {
	if !util.IsTTY() || !util.IsStdinTTY() {
		return false
	}
	if noInteractive, _ := cmd.Flags().GetBool("no-interactive"); noInteractive {
		return false
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		return false
	}
	return true
}
