package analyzer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestAnalyzer_Analyze(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "report.pdf", bytes.Repeat([]byte("d"), 3000))
	writeFile(t, tempDir, "notes.txt", bytes.Repeat([]byte("d"), 1000))
	writeFile(t, tempDir, "photo.jpg", bytes.Repeat([]byte("i"), 2000))
	writeFile(t, tempDir, "sub/mystery.zzz", bytes.Repeat([]byte("o"), 500))

	analyzer := NewAnalyzer()
	usage, err := analyzer.Analyze(tempDir)
	require.NoError(t, err)

	assert.Equal(t, int64(6500), usage.TotalSize)
	assert.Equal(t, 4, usage.FileCount)

	// Categories sort by descending size.
	require.Len(t, usage.Categories, 3)
	assert.Equal(t, CategorySize{Category: "documents", Size: 4000}, usage.Categories[0])
	assert.Equal(t, CategorySize{Category: "images", Size: 2000}, usage.Categories[1])
	assert.Equal(t, CategorySize{Category: "other", Size: 500}, usage.Categories[2])

	// Largest files sort by descending size.
	require.Len(t, usage.LargestFiles, 4)
	assert.Equal(t, filepath.Join(tempDir, "report.pdf"), usage.LargestFiles[0].Path)
	assert.Equal(t, int64(3000), usage.LargestFiles[0].Size)
	assert.Equal(t, filepath.Join(tempDir, "photo.jpg"), usage.LargestFiles[1].Path)
}

func TestAnalyzer_Analyze_TopNTruncation(t *testing.T) {
	tempDir := t.TempDir()
	for i := 0; i < 5; i++ {
		size := 1000 * (i + 1)
		writeFile(t, tempDir, string(rune('a'+i))+".bin", bytes.Repeat([]byte("x"), size))
	}

	analyzer := NewAnalyzer()
	analyzer.TopN = 3

	usage, err := analyzer.Analyze(tempDir)
	require.NoError(t, err)

	assert.Equal(t, 5, usage.FileCount)
	require.Len(t, usage.LargestFiles, 3)
	assert.Equal(t, int64(5000), usage.LargestFiles[0].Size)
	assert.Equal(t, int64(4000), usage.LargestFiles[1].Size)
	assert.Equal(t, int64(3000), usage.LargestFiles[2].Size)
}

func TestAnalyzer_Analyze_MissingRoot(t *testing.T) {
	analyzer := NewAnalyzer()
	_, err := analyzer.Analyze("/does/not/exist")
	assert.Error(t, err)
}

func TestAnalyzer_Analyze_EmptyTree(t *testing.T) {
	tempDir := t.TempDir()

	analyzer := NewAnalyzer()
	usage, err := analyzer.Analyze(tempDir)
	require.NoError(t, err)

	assert.Equal(t, int64(0), usage.TotalSize)
	assert.Equal(t, 0, usage.FileCount)
	assert.Empty(t, usage.Categories)
	assert.Empty(t, usage.LargestFiles)
}

func TestAnalyzer_WriteReport(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "data.csv", bytes.Repeat([]byte("x"), 1500))

	analyzer := NewAnalyzer()
	usage, err := analyzer.Analyze(tempDir)
	require.NoError(t, err)

	report := &Report{
		GeneratedAt: time.Now().UTC(),
		BasePath:    tempDir,
		Usage:       usage,
		Duplicates:  map[string][]string{"abc123": {"/a", "/b"}},
		EmptyDirs:   []string{"/empty"},
		TempFiles:   []string{"/scratch.tmp"},
	}

	outputPath := filepath.Join(tempDir, "report.json")
	require.NoError(t, analyzer.WriteReport(report, outputPath))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, tempDir, decoded.BasePath)
	assert.Equal(t, int64(1500), decoded.Usage.TotalSize)
	assert.Equal(t, []string{"/a", "/b"}, decoded.Duplicates["abc123"])
	assert.Equal(t, []string{"/empty"}, decoded.EmptyDirs)
	assert.Equal(t, []string{"/scratch.tmp"}, decoded.TempFiles)
}
