package app

import (
	"fmt"
	"time"

	"github.com/moyu-x/file-organizer/config"
	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/database"
	"github.com/moyu-x/file-organizer/pkg/dedup"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

type DedupOptions struct {
	Root    string
	MinSize int64
	Keep    string
	DryRun  bool
	Verify  bool
	NoStore bool
	Verbose bool
}

type DedupOutcome struct {
	Result  *internal.ScanResult
	Records []internal.DeletionRecord
	Stats   internal.DedupStats
}

// RunDedup scans Root for duplicate groups, resolves them under the keep
// policy, and records the run in the history store unless disabled.
func RunDedup(opts *DedupOptions) (*DedupOutcome, error) {
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

	policy := internal.KeepPolicy(opts.Keep)
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	var db *database.Database
	if !opts.NoStore {
		db, err = database.NewDatabase(cfg.Database.Path)
		if err != nil {
			logger.Get().Warn().Err(err).Msg("history store unavailable, continuing without it")
		} else {
			defer db.Close()
		}
	}

	finder := dedup.NewFinder()
	finder.MinSize = opts.MinSize
	finder.Workers = cfg.Performance.Workers
	finder.Walker.Exclude = cfg.Scan.Exclude
	finder.Walker.IncludeHidden = cfg.Scan.IncludeHidden
	if db != nil {
		finder.Cache = db
	}

	start := time.Now()

	if opts.DryRun {
		logger.Get().Info().Msg("=== dry run: no files will be modified ===")
	}
	logger.Get().Info().Msgf("scanning for duplicates: %s (min size %d bytes)", opts.Root, opts.MinSize)

	result, err := finder.Find(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("duplicate scan failed: %w", err)
	}

	resolver := dedup.NewResolver()
	records, err := resolver.Resolve(result.Groups, dedup.ResolveOptions{
		Policy: policy,
		DryRun: opts.DryRun,
		Verify: opts.Verify,
	})
	if err != nil {
		return nil, err
	}

	stats := dedup.Summarize(result, records)
	stats.StartTime = start
	stats.EndTime = time.Now()

	if db != nil {
		if _, err := db.RecordSession(opts.Root, policy, opts.DryRun, stats, records); err != nil {
			logger.Get().Warn().Err(err).Msg("failed to record session in history store")
		}
	}

	return &DedupOutcome{Result: result, Records: records, Stats: stats}, nil
}
