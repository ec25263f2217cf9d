package app

import (
	"fmt"

	"github.com/moyu-x/file-organizer/config"
	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/organizer"
)

type OrganizeOptions struct {
	SourceDir  string
	DestDir    string
	ByDate     bool
	DateLayout string
	DryRun     bool
	Resume     bool
	Verbose    bool
}

// RunOrganize moves files into category folders, or into date folders when
// ByDate is set.
func RunOrganize(opts *OrganizeOptions) ([]internal.MoveRecord, error) {
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

	org := organizer.NewOrganizer()
	org.Walker.Exclude = cfg.Scan.Exclude
	org.Walker.IncludeHidden = cfg.Scan.IncludeHidden
	if opts.DateLayout != "" {
		org.DateLayout = opts.DateLayout
	}

	if opts.DryRun {
		logger.Get().Info().Msg("=== dry run: no files will be moved ===")
	}

	var records []internal.MoveRecord
	if opts.ByDate {
		logger.Get().Info().Msgf("organizing by date: %s -> %s", opts.SourceDir, opts.DestDir)
		records, err = org.ByDate(opts.SourceDir, opts.DestDir, opts.DryRun, opts.Resume)
	} else {
		logger.Get().Info().Msgf("organizing by type: %s -> %s", opts.SourceDir, opts.DestDir)
		records, err = org.ByType(opts.SourceDir, opts.DestDir, opts.DryRun)
	}
	if err != nil {
		return records, fmt.Errorf("organize failed: %w", err)
	}

	return records, nil
}
