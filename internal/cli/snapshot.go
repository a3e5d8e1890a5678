package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/opencode-ai/tint/internal/db"
	"github.com/opencode-ai/tint/internal/models"
	"github.com/spf13/cobra"
)

var (
	snapshotDB    string
	snapshotLimit int
)

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.PersistentFlags().StringVar(&snapshotDB, "db", "", "snapshot database path (default: database.path)")
	snapshotCmd.AddCommand(snapshotListCmd, snapshotShowCmd, snapshotDeleteCmd)
	snapshotListCmd.Flags().IntVar(&snapshotLimit, "limit", 20, "maximum snapshots to list (0 for all)")
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage stored token snapshots",
	Long:  "Inspect snapshots saved with `tint export --format sqlite`.",
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var snapshots []*models.Snapshot
		err := withSnapshots(cmd.Context(), snapshotPath(), func(ctx context.Context, repo *db.SnapshotRepository) error {
			var err error
			snapshots, err = repo.List(ctx, snapshotLimit)
			return err
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if IsStructuredOutput() {
			if snapshots == nil {
				snapshots = []*models.Snapshot{}
			}
			return WriteOutput(out, snapshots)
		}
		if len(snapshots) == 0 {
			fmt.Fprintln(out, "No snapshots found")
			return nil
		}

		rows := make([][]string, 0, len(snapshots))
		for _, snap := range snapshots {
			rows = append(rows, []string{
				snap.ID,
				snap.Name,
				snap.CreatedAt.Local().Format(time.DateTime),
				strconv.Itoa(snap.EntryCount),
				formatYesNo(snap.Diagnostic),
			})
		}
		return writeTable(out, []string{"ID", "NAME", "CREATED", "ENTRIES", "DIAGNOSTIC"}, rows)
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a snapshot's entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var snap *models.Snapshot
		err := withSnapshots(cmd.Context(), snapshotPath(), func(ctx context.Context, repo *db.SnapshotRepository) error {
			var err error
			snap, err = repo.Get(ctx, args[0])
			return err
		})
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		if IsStructuredOutput() {
			return WriteOutput(out, snap)
		}

		fmt.Fprintf(out, "%s (%s) created %s from %s\n",
			snap.Name, snap.ID, snap.CreatedAt.Local().Format(time.DateTime), snap.Source)
		rows := make([][]string, 0, len(snap.Entries))
		for _, entry := range snap.Entries {
			rows = append(rows, []string{
				entry.Layer,
				entry.Path,
				entry.Hex,
				formatResolution(entry.Resolved, ""),
				swatchCell(entry.Hex),
			})
		}
		return writeTable(out, []string{"LAYER", "PATH", "HEX", "STATUS", ""}, rows)
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := withSnapshots(cmd.Context(), snapshotPath(), func(ctx context.Context, repo *db.SnapshotRepository) error {
			return repo.Delete(ctx, args[0])
		})
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", args[0], err)
		}
		if !IsStructuredOutput() {
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %s\n", args[0])
		}
		return nil
	},
}

func snapshotPath() string {
	if snapshotDB != "" {
		return snapshotDB
	}
	return appConfig.Database.Path
}
