package cli

import (
	"fmt"
	"strconv"

	"github.com/opencode-ai/tint/internal/colors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(hexCmd)
}

// hexInfo is the structured form of a decoded literal.
type hexInfo struct {
	Input     string  `json:"input" yaml:"input"`
	Hex       string  `json:"hex" yaml:"hex"`
	R         uint8   `json:"r" yaml:"r"`
	G         uint8   `json:"g" yaml:"g"`
	B         uint8   `json:"b" yaml:"b"`
	A         uint8   `json:"a" yaml:"a"`
	Luminance float64 `json:"luminance" yaml:"luminance"`
}

var hexCmd = &cobra.Command{
	Use:   "hex HEX...",
	Short: "Decode hex color literals",
	Long:  "Decode #RRGGBB or #RRGGBBAA literals into RGBA channels and relative luminance.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := make([]hexInfo, 0, len(args))
		for _, arg := range args {
			c, err := colors.ParseHex(arg)
			if err != nil {
				return fmt.Errorf("decode %q: %w", arg, err)
			}
			infos = append(infos, hexInfo{
				Input:     arg,
				Hex:       c.Hex(),
				R:         c.R,
				G:         c.G,
				B:         c.B,
				A:         c.A,
				Luminance: c.RelativeLuminance(),
			})
		}

		out := cmd.OutOrStdout()
		if IsStructuredOutput() {
			return WriteOutput(out, infos)
		}

		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, []string{
				info.Hex,
				strconv.Itoa(int(info.R)),
				strconv.Itoa(int(info.G)),
				strconv.Itoa(int(info.B)),
				strconv.Itoa(int(info.A)),
				strconv.FormatFloat(info.Luminance, 'f', 4, 64),
				swatchCell(info.Hex),
			})
		}
		return writeTable(out, []string{"HEX", "R", "G", "B", "A", "LUMINANCE", ""}, rows)
	},
}
