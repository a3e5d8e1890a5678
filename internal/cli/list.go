package cli

import (
	"fmt"

	"github.com/opencode-ai/tint/internal/export"
	"github.com/opencode-ai/tint/internal/models"
	"github.com/opencode-ai/tint/internal/tokens"
	"github.com/spf13/cobra"
)

var (
	listLayer      string
	listUnresolved bool
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listLayer, "layer", "", "only list one layer (tokens or palette)")
	listCmd.Flags().BoolVar(&listUnresolved, "unresolved", false, "only list entries that fail to resolve")
}

var listCmd = &cobra.Command{
	Use:   "list [PREFIX]",
	Short: "List token and palette entries",
	Long:  "List every tokens and palette leaf under PREFIX with its resolved color.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch tokens.Layer(listLayer) {
		case "", tokens.LayerTokens, tokens.LayerPalette:
		default:
			return fmt.Errorf("--layer must be %q or %q, got %q", tokens.LayerTokens, tokens.LayerPalette, listLayer)
		}

		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}

		var snap *models.Snapshot
		err := track(cmd.ErrOrStderr(), "Loading tokens", func() error {
			var err error
			snap, err = export.Build(tokenService(), export.Options{Prefix: prefix})
			return err
		})
		if err != nil {
			return err
		}

		entries := filterEntries(snap.Entries, listLayer, listUnresolved)
		out := cmd.OutOrStdout()
		if IsStructuredOutput() {
			return WriteOutput(out, entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No entries found")
			return nil
		}

		rows := make([][]string, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, []string{
				entry.Layer,
				entry.Path,
				entry.Value,
				entry.Hex,
				formatResolution(entry.Resolved, ""),
				swatchCell(entry.Hex),
			})
		}
		return writeTable(out, []string{"LAYER", "PATH", "VALUE", "HEX", "STATUS", ""}, rows)
	},
}

func filterEntries(entries []models.SnapshotEntry, layer string, unresolvedOnly bool) []models.SnapshotEntry {
	out := make([]models.SnapshotEntry, 0, len(entries))
	for _, entry := range entries {
		if layer != "" && entry.Layer != layer {
			continue
		}
		if unresolvedOnly && entry.Resolved {
			continue
		}
		out = append(out, entry)
	}
	return out
}
