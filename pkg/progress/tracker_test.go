package progress

import (
	"testing"
)

func TestNewTracker(t *testing.T) {
	tempDir := t.TempDir()

	tracker, err := NewTracker(tempDir)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	if tracker == nil {
		t.Fatal("NewTracker() returned nil")
	}
	if tracker.GetProcessedCount() != 0 {
		t.Errorf("Expected 0 processed files, got %d", tracker.GetProcessedCount())
	}
	if err := tracker.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestMarkProcessed(t *testing.T) {
	tempDir := t.TempDir()

	tracker, err := NewTracker(tempDir)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	defer tracker.Close()

	filePath1 := "/path/to/file1.txt"
	filePath2 := "/path/to/file2.txt"

	if err := tracker.MarkProcessed(filePath1); err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}
	if !tracker.IsProcessed(filePath1) {
		t.Error("IsProcessed() should return true for marked file")
	}
	if tracker.IsProcessed(filePath2) {
		t.Error("IsProcessed() should return false for unmarked file")
	}
	if tracker.GetProcessedCount() != 1 {
		t.Errorf("Expected 1 processed file, got %d", tracker.GetProcessedCount())
	}

	// Marking twice is a no-op.
	if err := tracker.MarkProcessed(filePath1); err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}
	if tracker.GetProcessedCount() != 1 {
		t.Errorf("Expected 1 processed file after duplicate mark, got %d", tracker.GetProcessedCount())
	}
}

func TestTracker_Resume(t *testing.T) {
	tempDir := t.TempDir()

	tracker, err := NewTracker(tempDir)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}

	paths := []string{"/a.txt", "/b.txt", "/c.txt"}
	for _, path := range paths {
		if err := tracker.MarkProcessed(path); err != nil {
			t.Fatalf("MarkProcessed() error = %v", err)
		}
	}
	if err := tracker.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// A fresh tracker over the same directory should see the prior marks.
	resumed, err := NewTracker(tempDir)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	defer resumed.Close()

	if resumed.GetProcessedCount() != len(paths) {
		t.Errorf("Expected %d processed files after resume, got %d", len(paths), resumed.GetProcessedCount())
	}
	for _, path := range paths {
		if !resumed.IsProcessed(path) {
			t.Errorf("Expected %s to be marked after resume", path)
		}
	}
}

func TestTracker_Remove(t *testing.T) {
	tempDir := t.TempDir()

	tracker, err := NewTracker(tempDir)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	if err := tracker.MarkProcessed("/a.txt"); err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}
	if err := tracker.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !Exists(tempDir) {
		t.Fatal("Expected progress log to exist")
	}
	if err := tracker.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if Exists(tempDir) {
		t.Error("Expected progress log to be gone after Remove()")
	}
}
