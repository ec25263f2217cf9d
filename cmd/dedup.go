package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyu-x/file-organizer/app"
	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/tui"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup <directory>",
	Short: "Find and remove duplicate files",
	Long: `Scan a directory tree for files with identical content and remove the
redundant copies. Files are bucketed by size first, so only same-size files
are ever hashed. One copy per group is kept according to --keep; everything
is previewable with --dry-run.`,
	Args: cobra.ExactArgs(1),
	RunE: runDedup,
}

func runDedup(cmd *cobra.Command, args []string) error {
	minSize, _ := cmd.Flags().GetInt64("min-size")
	keep, _ := cmd.Flags().GetString("keep")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verify, _ := cmd.Flags().GetBool("verify")
	noStore, _ := cmd.Flags().GetBool("no-store")
	verbose, _ := cmd.Flags().GetBool("verbose")
	interactive, _ := cmd.Flags().GetBool("interactive")

	if interactive {
		return tui.Run(&tui.Config{
			Root:    args[0],
			MinSize: minSize,
		})
	}

	opts := &app.DedupOptions{
		Root:    args[0],
		MinSize: minSize,
		Keep:    keep,
		DryRun:  dryRun,
		Verify:  verify,
		NoStore: noStore,
		Verbose: verbose,
	}

	outcome, err := app.RunDedup(opts)
	if err != nil {
		return err
	}

	printDedupStats(outcome, args[0])
	return nil
}

func init() {
	dedupCmd.Flags().Int64("min-size", internal.DefaultMinFileSize, "ignore files smaller than this many bytes")
	dedupCmd.Flags().StringP("keep", "k", string(internal.KeepFirst), "which copy to keep: first, last, shortest_path or longest_path")
	dedupCmd.Flags().Bool("dry-run", false, "report what would be deleted without touching anything")
	dedupCmd.Flags().Bool("verify", false, "re-hash each file right before deleting it")
	dedupCmd.Flags().Bool("no-store", false, "skip recording the run in the history database")
	dedupCmd.Flags().BoolP("verbose", "v", false, "debug logging")
	dedupCmd.Flags().BoolP("interactive", "i", false, "review duplicate groups interactively before deleting")

	rootCmd.AddCommand(dedupCmd)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func printDedupStats(outcome *app.DedupOutcome, root string) {
	stats := outcome.Stats
	elapsed := stats.EndTime.Sub(stats.StartTime)

	logger.Get().Info().Msg("========== dedup complete ==========")
	logger.Get().Info().Msgf("scanned directory: %s", root)
	logger.Get().Info().Msgf("duplicate groups: %d", stats.Groups)
	if stats.WouldDelete > 0 {
		logger.Get().Info().Msgf("would delete: %d files (%s reclaimable)", stats.WouldDelete, formatBytes(stats.FreedSpace))
	} else {
		logger.Get().Info().Msgf("deleted: %d files", stats.Deleted)
		logger.Get().Info().Msgf("freed space: %s", formatBytes(stats.FreedSpace))
	}
	if stats.Failed > 0 {
		logger.Get().Info().Msgf("failed deletions: %d", stats.Failed)
	}
	if stats.Skipped > 0 {
		logger.Get().Info().Msgf("skipped unreadable entries: %d", stats.Skipped)
	}
	logger.Get().Info().Msgf("elapsed: %v", elapsed)
	logger.Get().Info().Msg("====================================")
}
