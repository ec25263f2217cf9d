package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

// FileEntry is one regular file observed during a walk. Seq records the
// traversal position so group members can keep walk order even after the
// hashing phase fans out over workers.
type FileEntry struct {
	Path    string
	Size    int64
	ModTime time.Time
	Seq     int
}

type FileWalker struct {
	Fs            afero.Fs
	IncludeHidden bool
	Exclude       []string
}

func NewFileWalker() *FileWalker {
	return &FileWalker{
		Fs:            afero.NewOsFs(),
		IncludeHidden: true,
	}
}

// Walk visits every regular file under root. Per-entry errors are tolerated:
// the entry is skipped and the walk continues.
func (w *FileWalker) Walk(root string, callback func(path string, info os.FileInfo) error) error {
	return afero.Walk(w.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			if !w.IncludeHidden && isHidden(info.Name()) && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		if !w.IncludeHidden && isHidden(info.Name()) {
			return nil
		}

		if w.excluded(root, path) {
			return nil
		}

		return callback(path, info)
	})
}

// CountFiles counts regular files across the given directories.
func (w *FileWalker) CountFiles(dirs []string) (int, error) {
	logger.Get().Info().Msgf("counting files in %d directories", len(dirs))

	count := 0
	for _, dir := range dirs {
		logger.Get().Debug().Msgf("scanning directory: %s", dir)
		err := w.Walk(dir, func(path string, info os.FileInfo) error {
			count++
			return nil
		})
		if err != nil {
			logger.Get().Error().Err(err).Msgf("failed to scan directory: %s", dir)
			return 0, err
		}
	}

	logger.Get().Info().Msgf("found %d files", count)
	return count, nil
}

// CollectBySize walks root and buckets regular files of at least minSize
// bytes by their exact byte size. Unreadable entries land in the returned
// skip list; only an unusable root aborts the collection.
func (w *FileWalker) CollectBySize(root string, minSize int64) (map[int64][]FileEntry, []internal.SkippedFile, error) {
	rootInfo, err := w.Fs.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("stat scan root %s: %w", root, err)
	}
	if !rootInfo.IsDir() {
		return nil, nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	buckets := make(map[int64][]FileEntry)
	var skipped []internal.SkippedFile
	seq := 0

	walkErr := afero.Walk(w.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			skipped = append(skipped, internal.SkippedFile{Path: path, Reason: err.Error()})
			logger.Get().Debug().Err(err).Msgf("skipping unreadable entry: %s", path)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if !w.IncludeHidden && isHidden(info.Name()) && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		if !w.IncludeHidden && isHidden(info.Name()) {
			return nil
		}

		if w.excluded(root, path) {
			return nil
		}

		if info.Size() < minSize {
			return nil
		}

		buckets[info.Size()] = append(buckets[info.Size()], FileEntry{
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Seq:     seq,
		})
		seq++
		return nil
	})

	if walkErr != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	return buckets, skipped, nil
}

func (w *FileWalker) excluded(root, path string) bool {
	if len(w.Exclude) == 0 {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range w.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
