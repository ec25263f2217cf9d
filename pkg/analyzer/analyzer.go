package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/organizer"
	"github.com/moyu-x/file-organizer/pkg/scanner"
)

// CategorySize is the disk footprint of one file category.
type CategorySize struct {
	Category string `json:"category"`
	Size     int64  `json:"size"`
}

// LargeFile is one entry of the largest-files ranking.
type LargeFile struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Usage is the disk-usage breakdown of one directory tree.
type Usage struct {
	TotalSize    int64          `json:"total_size"`
	FileCount    int            `json:"file_count"`
	Categories   []CategorySize `json:"categories"`
	LargestFiles []LargeFile    `json:"largest_files"`
}

// Report is the full housekeeping report written by the report command.
type Report struct {
	GeneratedAt time.Time           `json:"generated_at"`
	BasePath    string              `json:"base_path"`
	Usage       *Usage              `json:"disk_usage"`
	Duplicates  map[string][]string `json:"duplicates"`
	EmptyDirs   []string            `json:"empty_directories"`
	TempFiles   []string            `json:"temp_files"`
}

type Analyzer struct {
	Fs     afero.Fs
	Walker *scanner.FileWalker
	TopN   int
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		Fs:     afero.NewOsFs(),
		Walker: scanner.NewFileWalker(),
		TopN:   internal.DefaultTopFiles,
	}
}

// Analyze walks root and aggregates total size, per-category size and the
// top-N largest files. Categories sort by descending size, largest files by
// descending size with path as tie-break.
func (a *Analyzer) Analyze(root string) (*Usage, error) {
	if _, err := a.Fs.Stat(root); err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	bySize := make(map[string]int64)
	var files []LargeFile
	usage := &Usage{}

	err := a.Walker.Walk(root, func(path string, info os.FileInfo) error {
		usage.TotalSize += info.Size()
		usage.FileCount++

		category := organizer.CategoryForExt(filepath.Ext(path))
		if category == "" {
			category = organizer.CategoryOther
		}
		bySize[category] += info.Size()

		files = append(files, LargeFile{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	for category, size := range bySize {
		usage.Categories = append(usage.Categories, CategorySize{Category: category, Size: size})
	}
	sort.Slice(usage.Categories, func(i, j int) bool {
		if usage.Categories[i].Size != usage.Categories[j].Size {
			return usage.Categories[i].Size > usage.Categories[j].Size
		}
		return usage.Categories[i].Category < usage.Categories[j].Category
	})

	sort.Slice(files, func(i, j int) bool {
		if files[i].Size != files[j].Size {
			return files[i].Size > files[j].Size
		}
		return files[i].Path < files[j].Path
	})
	if len(files) > a.TopN {
		files = files[:a.TopN]
	}
	usage.LargestFiles = files

	return usage, nil
}

// WriteReport marshals the report as indented JSON to outputPath.
func (a *Analyzer) WriteReport(report *Report, outputPath string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := afero.WriteFile(a.Fs, outputPath, data, 0644); err != nil {
		return fmt.Errorf("write report %s: %w", outputPath, err)
	}

	return nil
}
