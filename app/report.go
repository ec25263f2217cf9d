package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/moyu-x/file-organizer/config"
	"github.com/moyu-x/file-organizer/pkg/analyzer"
	"github.com/moyu-x/file-organizer/pkg/cleaner"
	"github.com/moyu-x/file-organizer/pkg/dedup"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

type ReportOptions struct {
	Root       string
	OutputPath string
	MinSize    int64
	TopFiles   int
	Verbose    bool
}

// RunReport assembles the housekeeping report: disk usage, duplicate groups,
// empty directories and temp files, written as JSON.
func RunReport(opts *ReportOptions) (*analyzer.Report, error) {
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

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve report root: %w", err)
	}

	anlz := analyzer.NewAnalyzer()
	if opts.TopFiles > 0 {
		anlz.TopN = opts.TopFiles
	} else {
		anlz.TopN = cfg.Report.TopFiles
	}
	anlz.Walker.Exclude = cfg.Scan.Exclude

	logger.Get().Info().Msgf("analyzing disk usage: %s", root)
	usage, err := anlz.Analyze(root)
	if err != nil {
		return nil, err
	}

	minSize := opts.MinSize
	if minSize <= 0 {
		minSize = cfg.Scan.MinSize
	}
	finder := dedup.NewFinder()
	finder.MinSize = minSize
	finder.Workers = cfg.Performance.Workers
	finder.Walker.Exclude = cfg.Scan.Exclude

	logger.Get().Info().Msg("scanning for duplicate groups")
	scan, err := finder.Find(root)
	if err != nil {
		return nil, err
	}

	cln := cleaner.NewCleaner(cfg.Cleanup.TempPatterns)
	cln.Walker.Exclude = cfg.Scan.Exclude

	emptyDirs, err := cln.FindEmptyDirs(root)
	if err != nil {
		return nil, err
	}
	tempFiles, err := cln.FindTempFiles(root)
	if err != nil {
		return nil, err
	}

	report := &analyzer.Report{
		GeneratedAt: time.Now(),
		BasePath:    root,
		Usage:       usage,
		Duplicates:  scan.Groups,
		EmptyDirs:   emptyDirs,
		TempFiles:   tempFiles,
	}

	if opts.OutputPath != "" {
		if err := anlz.WriteReport(report, opts.OutputPath); err != nil {
			return nil, err
		}
		logger.Get().Info().Msgf("report written: %s", opts.OutputPath)
	}

	return report, nil
}
