package app

import (
	"time"

	"github.com/moyu-x/file-organizer/config"
	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/cleaner"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

type CleanOptions struct {
	Root       string
	TempFiles  bool
	EmptyDirs  bool
	OldFiles   bool
	MaxAgeDays int
	DryRun     bool
	Verbose    bool
}

type CleanOutcome struct {
	TempRecords []internal.DeletionRecord
	OldRecords  []internal.DeletionRecord
	EmptyDirs   []string
	Stats       internal.CleanStats
}

// RunClean removes temp files, empty directories and stale files as selected.
func RunClean(opts *CleanOptions) (*CleanOutcome, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logLevel := cfg.Logging.Level
	if opts.Verbose {
		logLevel = "debug"
	}
	if err := logger.Init(logLevel, cfg.Logging.File); err != nil {
		return nil, err
	}

	cln := cleaner.NewCleaner(cfg.Cleanup.TempPatterns)
	cln.Walker.Exclude = cfg.Scan.Exclude

	maxAgeDays := opts.MaxAgeDays
	if maxAgeDays <= 0 {
		maxAgeDays = cfg.Cleanup.MaxAgeDays
	}

	if opts.DryRun {
		logger.Get().Info().Msg("=== dry run: no files will be removed ===")
	}

	outcome := &CleanOutcome{}

	if opts.TempFiles {
		records, err := cln.RemoveTempFiles(opts.Root, opts.DryRun)
		if err != nil {
			return nil, err
		}
		outcome.TempRecords = records
		outcome.Stats.TempFiles = len(records)
		tally(records, &outcome.Stats)
	}

	if opts.OldFiles {
		maxAge := time.Duration(maxAgeDays) * 24 * time.Hour
		records, err := cln.RemoveOldFiles(opts.Root, maxAge, opts.DryRun)
		if err != nil {
			return nil, err
		}
		outcome.OldRecords = records
		outcome.Stats.OldFiles = len(records)
		tally(records, &outcome.Stats)
	}

	if opts.EmptyDirs {
		dirs, err := cln.RemoveEmptyDirs(opts.Root, opts.DryRun)
		if err != nil {
			return nil, err
		}
		outcome.EmptyDirs = dirs
		outcome.Stats.EmptyDirs = len(dirs)
		if !opts.DryRun {
			outcome.Stats.Removed += len(dirs)
		}
	}

	return outcome, nil
}

func tally(records []internal.DeletionRecord, stats *internal.CleanStats) {
	for _, rec := range records {
		switch rec.Outcome {
		case internal.OutcomeDeleted:
			stats.Removed++
			stats.FreedSpace += rec.Size
		case internal.OutcomeFailed:
			stats.Failed++
		}
	}
}
