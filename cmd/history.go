package cmd

import (
	"github.com/spf13/cobra"

	"github.com/moyu-x/file-organizer/config"
	"github.com/moyu-x/file-organizer/pkg/database"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show past dedup runs",
	Long: `List recorded dedup sessions, or show the deletion records of one
session when a session id is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 1 {
		rows, err := db.SessionRecords(args[0])
		if err != nil {
			return err
		}
		for _, row := range rows {
			if row.Reason != "" {
				logger.Get().Info().Msgf("%s  %s (%s)", row.Outcome, row.Path, row.Reason)
			} else {
				logger.Get().Info().Msgf("%s  %s", row.Outcome, row.Path)
			}
		}
		logger.Get().Info().Msgf("%d records in session %s", len(rows), args[0])
		return nil
	}

	sessions, err := db.Sessions(limit)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		mode := "real"
		if s.DryRun {
			mode = "dry-run"
		}
		logger.Get().Info().Msgf("%s  %s  %s  policy=%s groups=%d deleted=%d failed=%d freed=%s",
			s.StartedAt.Format("2006-01-02 15:04:05"), s.ID, mode, s.Policy,
			s.Groups, s.Deleted, s.Failed, formatBytes(s.FreedSpace))
	}
	logger.Get().Info().Msgf("%d sessions", len(sessions))
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of sessions to list")

	rootCmd.AddCommand(historyCmd)
}
