package internal

import (
	"fmt"
	"time"
)

// KeepPolicy selects which copy of a duplicate group survives a resolve.
type KeepPolicy string

const (
	KeepFirst        KeepPolicy = "first"
	KeepLast         KeepPolicy = "last"
	KeepShortestPath KeepPolicy = "shortest_path"
	KeepLongestPath  KeepPolicy = "longest_path"
)

// Validate rejects unknown policies before any destructive work starts.
func (p KeepPolicy) Validate() error {
	switch p {
	case KeepFirst, KeepLast, KeepShortestPath, KeepLongestPath:
		return nil
	}
	return fmt.Errorf("invalid keep policy: %q", string(p))
}

// Outcome of a single deletion attempt.
type Outcome string

const (
	OutcomeDeleted     Outcome = "deleted"
	OutcomeWouldDelete Outcome = "would_delete"
	OutcomeFailed      Outcome = "failed"
)

// DeletionRecord reports what happened (or would happen) to one redundant file.
type DeletionRecord struct {
	Path    string  `json:"path"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
	Size    int64   `json:"size,omitempty"`
}

// SkippedFile is an entry the scanner could not read. Skips never abort a scan.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// ScanResult holds duplicate groups keyed by content digest. Every group has
// at least two members and members appear in directory-traversal order.
type ScanResult struct {
	Groups  map[string][]string `json:"groups"`
	Skipped []SkippedFile       `json:"skipped,omitempty"`
}

// GroupCount returns the number of duplicate groups found.
func (r *ScanResult) GroupCount() int {
	return len(r.Groups)
}

// DedupStats summarizes one scan+resolve run.
type DedupStats struct {
	Groups      int
	Deleted     int
	WouldDelete int
	Failed      int
	Skipped     int
	FreedSpace  int64
	StartTime   time.Time
	EndTime     time.Time
}

// MoveOutcome of one organizer move.
type MoveOutcome string

const (
	MovePlanned MoveOutcome = "planned"
	MoveDone    MoveOutcome = "moved"
	MoveFailed  MoveOutcome = "failed"
)

// MoveRecord reports one file move performed (or planned) by the organizer.
type MoveRecord struct {
	Source  string      `json:"source"`
	Dest    string      `json:"dest"`
	Outcome MoveOutcome `json:"outcome"`
	Reason  string      `json:"reason,omitempty"`
}

// CleanStats summarizes a cleanup run.
type CleanStats struct {
	TempFiles  int
	EmptyDirs  int
	OldFiles   int
	Removed    int
	Failed     int
	FreedSpace int64
}
