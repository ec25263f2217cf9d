package progress

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/moyu-x/file-organizer/pkg/logger"
)

const (
	ProgressFileName = ".file-organizer-progress.txt"

	// Flush to disk every N marks so an interrupt loses little work.
	flushInterval = 100
)

// Tracker persists the set of already-processed source paths as an
// append-only log, so an interrupted run can resume where it stopped.
type Tracker struct {
	rootDir   string
	filePath  string
	file      *os.File
	writer    *bufio.Writer
	seenFiles map[string]bool
	mu        sync.RWMutex
	pending   int
}

func NewTracker(rootDir string) (*Tracker, error) {
	filePath := filepath.Join(rootDir, ProgressFileName)

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	tracker := &Tracker{
		rootDir:   rootDir,
		filePath:  filePath,
		file:      file,
		writer:    bufio.NewWriter(file),
		seenFiles: make(map[string]bool),
	}

	if err := tracker.loadExistingFiles(); err != nil {
		logger.Get().Warn().Err(err).Msg("failed to load progress log, starting fresh")
		tracker.seenFiles = make(map[string]bool)
	} else if len(tracker.seenFiles) > 0 {
		logger.Get().Info().Msgf("loaded %d processed paths from progress log", len(tracker.seenFiles))
	}

	return tracker, nil
}

func (t *Tracker) loadExistingFiles() error {
	data, err := os.ReadFile(t.filePath)
	if err != nil {
		return err
	}

	if len(data) == 0 {
		return nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		path := scanner.Text()
		if path != "" {
			t.seenFiles[path] = true
		}
	}

	return scanner.Err()
}

// MarkProcessed records one path as done.
func (t *Tracker) MarkProcessed(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.seenFiles[path] {
		return nil
	}

	if _, err := t.writer.WriteString(path + "\n"); err != nil {
		return err
	}

	t.seenFiles[path] = true
	t.pending++

	if t.pending >= flushInterval {
		t.pending = 0
		return t.writer.Flush()
	}
	return nil
}

// IsProcessed reports whether a path was completed in this or a prior run.
func (t *Tracker) IsProcessed(path string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.seenFiles[path]
}

func (t *Tracker) GetProcessedCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.seenFiles)
}

// Flush forces buffered marks to disk.
func (t *Tracker) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writer.Flush()
}

func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.writer.Flush(); err != nil {
		t.file.Close()
		return err
	}
	return t.file.Close()
}

// Remove deletes the progress log once a run has fully completed.
func (t *Tracker) Remove() error {
	if err := os.Remove(t.filePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether rootDir holds a progress log from a prior run.
func Exists(rootDir string) bool {
	_, err := os.Stat(filepath.Join(rootDir, ProgressFileName))
	return err == nil
}
