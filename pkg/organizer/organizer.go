package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/progress"
	"github.com/moyu-x/file-organizer/pkg/scanner"
)

// Organizer moves files into category or date folders. All moves are
// reported as records; with DryRun nothing on disk changes.
type Organizer struct {
	Fs         afero.Fs
	Walker     *scanner.FileWalker
	DateLayout string
}

func NewOrganizer() *Organizer {
	return &Organizer{
		Fs:         afero.NewOsFs(),
		Walker:     scanner.NewFileWalker(),
		DateLayout: internal.DefaultDateLayout,
	}
}

// ByType sorts the top-level files of sourceDir into <destDir>/<category>/
// folders. Categories come from the extension table with a content-sniffing
// fallback for unknown extensions.
func (o *Organizer) ByType(sourceDir, destDir string, dryRun bool) ([]internal.MoveRecord, error) {
	if destDir == "" {
		destDir = filepath.Join(sourceDir, "organized")
	}

	infos, err := afero.ReadDir(o.Fs, sourceDir)
	if err != nil {
		return nil, fmt.Errorf("read source directory %s: %w", sourceDir, err)
	}

	var records []internal.MoveRecord
	taken := make(map[string]bool)

	for _, info := range infos {
		if info.IsDir() || !info.Mode().IsRegular() {
			continue
		}

		srcPath := filepath.Join(sourceDir, info.Name())
		category := CategoryForExt(filepath.Ext(info.Name()))
		if category == "" {
			category = sniffCategory(o.Fs, srcPath)
		}

		destPath := filepath.Join(destDir, category, info.Name())
		records = append(records, o.move(srcPath, destPath, dryRun, taken))
	}

	return records, nil
}

// ByDate sorts every file under sourceDir into <destDir>/<YYYY/MM>/ folders
// keyed by modification time. A progress tracker in destDir makes interrupted
// runs resumable: already-moved sources are skipped on the next invocation.
func (o *Organizer) ByDate(sourceDir, destDir string, dryRun, resume bool) ([]internal.MoveRecord, error) {
	if destDir == "" {
		destDir = filepath.Join(sourceDir, "organized")
	}

	var tracker *progress.Tracker
	if resume && !dryRun {
		if err := o.Fs.MkdirAll(destDir, 0755); err != nil {
			return nil, fmt.Errorf("create destination %s: %w", destDir, err)
		}
		var err error
		tracker, err = progress.NewTracker(destDir)
		if err != nil {
			return nil, fmt.Errorf("open progress tracker: %w", err)
		}
		defer tracker.Close()
	}

	var records []internal.MoveRecord
	taken := make(map[string]bool)

	err := o.Walker.Walk(sourceDir, func(path string, info os.FileInfo) error {
		if strings.HasPrefix(path, destDir+string(filepath.Separator)) {
			return nil
		}
		if tracker != nil && tracker.IsProcessed(path) {
			logger.Get().Debug().Msgf("already organized, skipping: %s", path)
			return nil
		}

		dateFolder := info.ModTime().Format(o.DateLayout)
		destPath := filepath.Join(destDir, dateFolder, info.Name())

		rec := o.move(path, destPath, dryRun, taken)
		records = append(records, rec)

		if tracker != nil && rec.Outcome == internal.MoveDone {
			if err := tracker.MarkProcessed(path); err != nil {
				logger.Get().Warn().Err(err).Msgf("failed to record progress: %s", path)
			}
		}
		return nil
	})
	if err != nil {
		return records, fmt.Errorf("walk %s: %w", sourceDir, err)
	}

	return records, nil
}

// move relocates one file, creating parent directories as needed. An
// existing destination gets a short unique suffix rather than being
// overwritten. taken holds destinations already claimed in this run, so a
// dry-run plan suffixes intra-batch collisions exactly as a real run would.
// Per-file failures are reported in the record, never returned.
func (o *Organizer) move(srcPath, destPath string, dryRun bool, taken map[string]bool) internal.MoveRecord {
	destPath = o.dedupeDest(destPath, taken)
	taken[destPath] = true

	if dryRun {
		return internal.MoveRecord{Source: srcPath, Dest: destPath, Outcome: internal.MovePlanned}
	}

	if err := o.Fs.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return internal.MoveRecord{Source: srcPath, Dest: destPath, Outcome: internal.MoveFailed, Reason: err.Error()}
	}

	if err := o.Fs.Rename(srcPath, destPath); err != nil {
		logger.Get().Error().Err(err).Msgf("failed to move file: %s", srcPath)
		return internal.MoveRecord{Source: srcPath, Dest: destPath, Outcome: internal.MoveFailed, Reason: err.Error()}
	}

	logger.Get().Debug().Msgf("moved: %s -> %s", srcPath, destPath)
	return internal.MoveRecord{Source: srcPath, Dest: destPath, Outcome: internal.MoveDone}
}

// dedupeDest appends a short uuid fragment to the file name when the
// destination already exists on disk or was claimed earlier in this run.
func (o *Organizer) dedupeDest(destPath string, taken map[string]bool) string {
	if !taken[destPath] {
		if _, err := o.Fs.Stat(destPath); os.IsNotExist(err) {
			return destPath
		}
	}

	ext := filepath.Ext(destPath)
	base := strings.TrimSuffix(filepath.Base(destPath), ext)
	suffix := uuid.NewString()[:8]
	return filepath.Join(filepath.Dir(destPath), base+"_"+suffix+ext)
}
