package tui

import (
	"time"

	"github.com/moyu-x/file-organizer/internal"
)

type scanDoneMsg struct {
	result *internal.ScanResult
}

type groupResolvedMsg struct {
	index   int
	records []internal.DeletionRecord
}

type errMsg error

type spinnerTickMsg time.Time
