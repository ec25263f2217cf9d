package cmd

import (
	"github.com/spf13/cobra"

	"github.com/moyu-x/file-organizer/app"
	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

var reportCmd = &cobra.Command{
	Use:   "report <directory>",
	Short: "Generate a housekeeping report",
	Long: `Analyze a directory tree and write a JSON report covering disk usage
by category, the largest files, duplicate groups, empty directories and
temp files.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	minSize, _ := cmd.Flags().GetInt64("min-size")
	topFiles, _ := cmd.Flags().GetInt("top")
	verbose, _ := cmd.Flags().GetBool("verbose")

	opts := &app.ReportOptions{
		Root:       args[0],
		OutputPath: output,
		MinSize:    minSize,
		TopFiles:   topFiles,
		Verbose:    verbose,
	}

	report, err := app.RunReport(opts)
	if err != nil {
		return err
	}

	logger.Get().Info().Msgf("total size: %s in %d files", formatBytes(report.Usage.TotalSize), report.Usage.FileCount)
	for i, cat := range report.Usage.Categories {
		if i >= 5 {
			break
		}
		logger.Get().Info().Msgf("  %s: %s", cat.Category, formatBytes(cat.Size))
	}
	logger.Get().Info().Msgf("duplicate groups: %d", len(report.Duplicates))
	logger.Get().Info().Msgf("empty directories: %d", len(report.EmptyDirs))
	logger.Get().Info().Msgf("temp files: %d", len(report.TempFiles))

	return nil
}

func init() {
	reportCmd.Flags().StringP("output", "o", "file_report.json", "report output path (empty to skip writing)")
	reportCmd.Flags().Int64("min-size", internal.DefaultMinFileSize, "minimum file size for the duplicate scan")
	reportCmd.Flags().Int("top", internal.DefaultTopFiles, "number of largest files to include")
	reportCmd.Flags().BoolP("verbose", "v", false, "debug logging")

	rootCmd.AddCommand(reportCmd)
}
