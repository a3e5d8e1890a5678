package cli

import (
	"github.com/opencode-ai/tint/internal/tui"
	"github.com/spf13/cobra"
)

var uiTheme string

func init() {
	rootCmd.AddCommand(uiCmd)
	uiCmd.Flags().StringVar(&uiTheme, "theme", "", "theme for the browser (default: ui.theme)")
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Browse tokens interactively",
	Long:  "Launch a terminal browser listing every token with its resolved color.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if IsNonInteractive() {
			return &PreflightError{
				Message:  "the token browser requires an interactive terminal",
				Hint:     "Run without --non-interactive and with a TTY, or use `tint list`",
				NextStep: "tint list --help",
			}
		}

		theme := uiTheme
		if theme == "" {
			theme = appConfig.UI.Theme
		}
		return tui.Run(tui.Config{
			Service: tokenService(),
			Theme:   theme,
			Source:  sourceLabel(),
		})
	},
}
