package hasher

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestHashPool_Results(t *testing.T) {
	fs := afero.NewOsFs()
	pool := NewHashPool(fs, 2)
	if err := pool.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "test.txt")
	testContent := []byte("test content")
	if err := os.WriteFile(testFile, testContent, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	pool.AddTask(HashTask{Seq: 7, Path: testFile, Size: int64(len(testContent))})
	pool.Finish()

	resultReceived := false
	for result := range pool.Results() {
		if result.Error == nil && result.Path == testFile && result.Digest != "" && result.Seq == 7 {
			resultReceived = true
		}
	}

	if !resultReceived {
		t.Error("Expected to receive result from Results() channel")
	}
}

func TestHashPool_MultipleTasks(t *testing.T) {
	fs := afero.NewOsFs()
	pool := NewHashPool(fs, 4)
	if err := pool.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	tempDir := t.TempDir()
	const numFiles = 10

	for i := 0; i < numFiles; i++ {
		filePath := filepath.Join(tempDir, fmt.Sprintf("file%d.txt", i))
		content := []byte(fmt.Sprintf("content%d", i))
		if err := os.WriteFile(filePath, content, 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		pool.AddTask(HashTask{Seq: i, Path: filePath, Size: int64(len(content))})
	}
	pool.Finish()

	results := 0
	timeout := time.After(5 * time.Second)

resultLoop:
	for {
		select {
		case <-timeout:
			t.Fatalf("Timeout waiting for results, got %d/%d", results, numFiles)
		case result, ok := <-pool.Results():
			if !ok {
				break resultLoop
			}
			if result.Error == nil {
				results++
			}
		}
	}

	if results != numFiles {
		t.Errorf("Expected %d results, got %d", numFiles, results)
	}
}

func TestHashPool_ErrorHandling(t *testing.T) {
	fs := afero.NewOsFs()
	pool := NewHashPool(fs, 2)
	if err := pool.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	pool.AddTask(HashTask{Path: "/non/existent/file", Size: 0})
	pool.Finish()

	errorReceived := false
	for result := range pool.Results() {
		if result.Error != nil {
			errorReceived = true
		}
	}

	if !errorReceived {
		t.Error("Expected an error result for a non-existent file")
	}
}

func TestHashPool_Finish(t *testing.T) {
	fs := afero.NewOsFs()
	pool := NewHashPool(fs, 2)
	if err := pool.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	pool.Finish()

	select {
	case _, ok := <-pool.Results():
		if ok {
			t.Error("Results channel should be closed after Finish() with no tasks")
		}
	case <-time.After(time.Second):
		t.Error("Results channel should close after Finish()")
	}
}
