package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "file-organizer",
	Short: "Detect duplicate files and keep directories tidy",
	Long: `File Organizer finds duplicate files, sorts files into category or
date folders, cleans up temp files and empty directories, and reports on
disk usage.

Main features:
- two-phase duplicate detection (size buckets, then content hashing)
- policy-driven duplicate removal with dry-run preview
- organize files by type or by modification date
- remove temp files, empty directories and stale files
- JSON housekeeping reports and a run history store`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
