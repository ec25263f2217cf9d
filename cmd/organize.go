package cmd

import (
	"github.com/spf13/cobra"

	"github.com/moyu-x/file-organizer/app"
	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

var organizeCmd = &cobra.Command{
	Use:   "organize <source> [destination]",
	Short: "Sort files into category or date folders",
	Long: `Move files from a source directory into category folders (documents,
images, videos, ...) based on their extension, with content sniffing as a
fallback. With --by-date, files are sorted into YYYY/MM folders by
modification time instead. Name collisions at the destination are resolved
with a short unique suffix.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runOrganize,
}

func runOrganize(cmd *cobra.Command, args []string) error {
	byDate, _ := cmd.Flags().GetBool("by-date")
	layout, _ := cmd.Flags().GetString("date-layout")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	resume, _ := cmd.Flags().GetBool("resume")
	verbose, _ := cmd.Flags().GetBool("verbose")

	destDir := ""
	if len(args) == 2 {
		destDir = args[1]
	}

	opts := &app.OrganizeOptions{
		SourceDir:  args[0],
		DestDir:    destDir,
		ByDate:     byDate,
		DateLayout: layout,
		DryRun:     dryRun,
		Resume:     resume,
		Verbose:    verbose,
	}

	records, err := app.RunOrganize(opts)
	if err != nil {
		return err
	}

	printMoveRecords(records, dryRun)
	return nil
}

func init() {
	organizeCmd.Flags().Bool("by-date", false, "sort into date folders instead of category folders")
	organizeCmd.Flags().String("date-layout", internal.DefaultDateLayout, "folder layout for --by-date (Go time layout)")
	organizeCmd.Flags().Bool("dry-run", false, "print the move plan without moving anything")
	organizeCmd.Flags().BoolP("resume", "r", false, "skip files already moved by an interrupted run")
	organizeCmd.Flags().BoolP("verbose", "v", false, "debug logging")

	rootCmd.AddCommand(organizeCmd)
}

func printMoveRecords(records []internal.MoveRecord, dryRun bool) {
	moved, failed := 0, 0
	for _, rec := range records {
		switch rec.Outcome {
		case internal.MovePlanned:
			logger.Get().Info().Msgf("would move: %s -> %s", rec.Source, rec.Dest)
		case internal.MoveDone:
			moved++
		case internal.MoveFailed:
			failed++
			logger.Get().Warn().Msgf("failed to move %s: %s", rec.Source, rec.Reason)
		}
	}

	if dryRun {
		logger.Get().Info().Msgf("%d files in move plan", len(records))
		return
	}
	logger.Get().Info().Msgf("moved %d files (%d failed)", moved, failed)
}
