package cmd

import (
	"github.com/spf13/cobra"

	"github.com/moyu-x/file-organizer/app"
	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <directory>",
	Short: "Remove temp files, empty directories and stale files",
	Long: `Clean up a directory tree. By default removes temp files (editor swap
files, OS droppings like Thumbs.db and .DS_Store) and empty directories;
--old additionally removes files not modified within --max-age days.`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	tempFiles, _ := cmd.Flags().GetBool("temp")
	emptyDirs, _ := cmd.Flags().GetBool("empty-dirs")
	oldFiles, _ := cmd.Flags().GetBool("old")
	maxAge, _ := cmd.Flags().GetInt("max-age")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	opts := &app.CleanOptions{
		Root:       args[0],
		TempFiles:  tempFiles,
		EmptyDirs:  emptyDirs,
		OldFiles:   oldFiles,
		MaxAgeDays: maxAge,
		DryRun:     dryRun,
		Verbose:    verbose,
	}

	outcome, err := app.RunClean(opts)
	if err != nil {
		return err
	}

	printCleanStats(outcome, dryRun)
	return nil
}

func init() {
	cleanCmd.Flags().Bool("temp", true, "remove temp files")
	cleanCmd.Flags().Bool("empty-dirs", true, "remove empty directories")
	cleanCmd.Flags().Bool("old", false, "remove files older than --max-age days")
	cleanCmd.Flags().Int("max-age", internal.DefaultMaxAgeDays, "age threshold in days for --old")
	cleanCmd.Flags().Bool("dry-run", false, "report what would be removed without touching anything")
	cleanCmd.Flags().BoolP("verbose", "v", false, "debug logging")

	rootCmd.AddCommand(cleanCmd)
}

func printCleanStats(outcome *app.CleanOutcome, dryRun bool) {
	stats := outcome.Stats

	if dryRun {
		for _, rec := range outcome.TempRecords {
			logger.Get().Info().Msgf("would remove temp file: %s", rec.Path)
		}
		for _, rec := range outcome.OldRecords {
			logger.Get().Info().Msgf("would remove old file: %s", rec.Path)
		}
		for _, dir := range outcome.EmptyDirs {
			logger.Get().Info().Msgf("would remove empty directory: %s", dir)
		}
		logger.Get().Info().Msgf("%d temp files, %d old files, %d empty directories",
			stats.TempFiles, stats.OldFiles, stats.EmptyDirs)
		return
	}

	logger.Get().Info().Msgf("removed %d entries (%d failed), freed %s",
		stats.Removed, stats.Failed, formatBytes(stats.FreedSpace))
}
