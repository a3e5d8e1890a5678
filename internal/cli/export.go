package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opencode-ai/tint/internal/db"
	"github.com/opencode-ai/tint/internal/export"
	"github.com/opencode-ai/tint/internal/models"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
	exportName   string
	exportPrefix string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", export.FormatJSON, "output format ("+strings.Join(export.Formats, ", ")+")")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (json/yaml) or database path (sqlite)")
	exportCmd.Flags().StringVar(&exportName, "name", "", "snapshot name (default: timestamp)")
	exportCmd.Flags().StringVar(&exportPrefix, "prefix", "", "only export paths under this prefix")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the resolved token table",
	Long: `Resolve every token and palette leaf and write the table as JSON or YAML,
or store it as a snapshot in the SQLite database (--format sqlite).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(exportFormat)
		switch format {
		case export.FormatJSON, export.FormatYAML, export.FormatSQLite:
		default:
			return fmt.Errorf("unsupported format %q (want %s)", exportFormat, strings.Join(export.Formats, ", "))
		}

		snap, err := export.Build(tokenService(), export.Options{
			Name:       exportName,
			Source:     sourceLabel(),
			Diagnostic: appConfig.DiagnosticMode,
			Prefix:     exportPrefix,
		})
		if err != nil {
			return err
		}

		if format == export.FormatSQLite {
			return saveSnapshot(cmd, snap)
		}
		return writeExport(cmd, format, snap)
	},
}

func writeExport(cmd *cobra.Command, format string, snap *models.Snapshot) error {
	var out io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		file, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer file.Close()
		out = file
	}

	if err := export.Write(out, format, snap); err != nil {
		return fmt.Errorf("write %s export: %w", format, err)
	}
	if exportOut != "" && !IsStructuredOutput() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", snap.EntryCount, exportOut)
	}
	return nil
}

func saveSnapshot(cmd *cobra.Command, snap *models.Snapshot) error {
	path := exportOut
	if path == "" {
		path = appConfig.Database.Path
	}

	err := track(cmd.ErrOrStderr(), "Saving snapshot", func() error {
		return withSnapshots(cmd.Context(), path, func(ctx context.Context, repo *db.SnapshotRepository) error {
			return repo.Create(ctx, snap)
		})
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if IsStructuredOutput() {
		return WriteOutput(out, snapshotSummary(snap))
	}
	fmt.Fprintf(out, "Saved snapshot %s (%s): %d entries, %d unresolved\n",
		snap.ID, snap.Name, snap.EntryCount, len(snap.Unresolved()))
	return nil
}

// withSnapshots opens the database at path for the duration of fn.
func withSnapshots(ctx context.Context, path string, fn func(context.Context, *db.SnapshotRepository) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := db.Open(ctx, path)
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(ctx, db.NewSnapshotRepository(database))
}

func snapshotSummary(snap *models.Snapshot) *models.Snapshot {
	summary := *snap
	summary.Entries = nil
	return &summary
}
