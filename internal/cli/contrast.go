package cli

import (
	"fmt"
	"strconv"

	"github.com/opencode-ai/tint/internal/colors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(contrastCmd)
}

// contrastReport compares two resolved colors.
type contrastReport struct {
	Foreground    string  `json:"foreground" yaml:"foreground"`
	ForegroundHex string  `json:"foreground_hex" yaml:"foreground_hex"`
	Background    string  `json:"background" yaml:"background"`
	BackgroundHex string  `json:"background_hex" yaml:"background_hex"`
	Ratio         float64 `json:"ratio" yaml:"ratio"`
	Contrasts     bool    `json:"contrasts" yaml:"contrasts"`
	BetterText    string  `json:"better_text" yaml:"better_text"`
}

var contrastCmd = &cobra.Command{
	Use:   "contrast FG BG",
	Short: "Compare the contrast of two colors",
	Long: `Compute the WCAG contrast ratio between two tokens or hex literals and
report whether they contrast enough, plus whether black or white text reads
better on the background.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := tokenService()
		fg, err := svc.ResolveColor(args[0])
		if err != nil {
			return fmt.Errorf("foreground: %w", err)
		}
		bg, err := svc.ResolveColor(args[1])
		if err != nil {
			return fmt.Errorf("background: %w", err)
		}

		report := contrastReport{
			Foreground:    args[0],
			ForegroundHex: fg.Hex(),
			Background:    args[1],
			BackgroundHex: bg.Hex(),
			Ratio:         fg.ContrastRatio(bg),
			Contrasts:     fg.ContrastsWith(bg),
			BetterText:    bg.BetterContrast(colors.Black, colors.White).Hex(),
		}

		out := cmd.OutOrStdout()
		if IsStructuredOutput() {
			return WriteOutput(out, report)
		}
		return writeTable(out, nil, [][]string{
			{"Foreground:", report.ForegroundHex, report.Foreground, swatchCell(report.ForegroundHex)},
			{"Background:", report.BackgroundHex, report.Background, swatchCell(report.BackgroundHex)},
			{"Ratio:", strconv.FormatFloat(report.Ratio, 'f', 2, 64) + ":1"},
			{"Contrasts:", formatYesNo(report.Contrasts)},
			{"Better text:", report.BetterText},
		})
	},
}
