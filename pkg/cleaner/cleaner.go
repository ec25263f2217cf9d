package cleaner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/scanner"
)

// Cleaner finds and removes housekeeping targets: temp files, empty
// directories and stale files. Discovery and removal are separate so callers
// can always inspect before deleting.
type Cleaner struct {
	Fs           afero.Fs
	Walker       *scanner.FileWalker
	TempPatterns []string
}

func NewCleaner(tempPatterns []string) *Cleaner {
	return &Cleaner{
		Fs:           afero.NewOsFs(),
		Walker:       scanner.NewFileWalker(),
		TempPatterns: tempPatterns,
	}
}

// FindTempFiles returns files whose base name matches a temp pattern.
func (c *Cleaner) FindTempFiles(root string) ([]string, error) {
	var matches []string

	err := c.Walker.Walk(root, func(path string, info os.FileInfo) error {
		name := filepath.Base(path)
		for _, pattern := range c.TempPatterns {
			if ok, _ := doublestar.Match(pattern, name); ok {
				matches = append(matches, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return matches, nil
}

// RemoveTempFiles deletes matched temp files, or reports them under dry run.
func (c *Cleaner) RemoveTempFiles(root string, dryRun bool) ([]internal.DeletionRecord, error) {
	matches, err := c.FindTempFiles(root)
	if err != nil {
		return nil, err
	}
	return c.removeAll(matches, dryRun), nil
}

// FindEmptyDirs returns every directory under root with no entries at all.
func (c *Cleaner) FindEmptyDirs(root string) ([]string, error) {
	var empty []string

	err := afero.Walk(c.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !info.IsDir() || path == root {
			return nil
		}

		entries, err := afero.ReadDir(c.Fs, path)
		if err != nil {
			return nil
		}
		if len(entries) == 0 {
			empty = append(empty, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return empty, nil
}

// RemoveEmptyDirs removes empty directories deepest-first, then sweeps again
// for parents emptied by the first pass.
func (c *Cleaner) RemoveEmptyDirs(root string, dryRun bool) ([]string, error) {
	var removed []string

	for {
		empty, err := c.FindEmptyDirs(root)
		if err != nil {
			return removed, err
		}
		if len(empty) == 0 {
			return removed, nil
		}

		sort.Slice(empty, func(i, j int) bool {
			return strings.Count(empty[i], string(filepath.Separator)) > strings.Count(empty[j], string(filepath.Separator))
		})

		if dryRun {
			return empty, nil
		}

		progressed := false
		for _, dir := range empty {
			if err := c.Fs.Remove(dir); err != nil {
				logger.Get().Debug().Err(err).Msgf("failed to remove empty directory: %s", dir)
				continue
			}
			removed = append(removed, dir)
			progressed = true
		}
		if !progressed {
			return removed, nil
		}
	}
}

// FindOldFiles returns files not modified within maxAge.
func (c *Cleaner) FindOldFiles(root string, maxAge time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-maxAge)
	var old []string

	err := c.Walker.Walk(root, func(path string, info os.FileInfo) error {
		if info.ModTime().Before(cutoff) {
			old = append(old, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return old, nil
}

// RemoveOldFiles deletes files older than maxAge, or reports them under dry run.
func (c *Cleaner) RemoveOldFiles(root string, maxAge time.Duration, dryRun bool) ([]internal.DeletionRecord, error) {
	old, err := c.FindOldFiles(root, maxAge)
	if err != nil {
		return nil, err
	}
	return c.removeAll(old, dryRun), nil
}

func (c *Cleaner) removeAll(paths []string, dryRun bool) []internal.DeletionRecord {
	records := make([]internal.DeletionRecord, 0, len(paths))

	for _, path := range paths {
		var size int64
		if info, err := c.Fs.Stat(path); err == nil {
			size = info.Size()
		}

		if dryRun {
			records = append(records, internal.DeletionRecord{Path: path, Outcome: internal.OutcomeWouldDelete, Size: size})
			continue
		}

		if err := c.Fs.Remove(path); err != nil {
			logger.Get().Error().Err(err).Msgf("failed to remove file: %s", path)
			records = append(records, internal.DeletionRecord{Path: path, Outcome: internal.OutcomeFailed, Reason: err.Error(), Size: size})
			continue
		}

		logger.Get().Debug().Msgf("removed: %s", path)
		records = append(records, internal.DeletionRecord{Path: path, Outcome: internal.OutcomeDeleted, Size: size})
	}

	return records
}
