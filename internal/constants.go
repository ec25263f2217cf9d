package internal

const (
	// Database default path
	DefaultDatabasePath = "~/.file-organizer/history.db"

	// Files below this size are never considered for duplicate detection
	DefaultMinFileSize = 1024

	// Chunk size for streamed hashing
	HashChunkSize = 8192

	// Worker count for the full-digest phase
	DefaultWorkers = 4

	// Channel buffer size for the hash pool
	DefaultBufferSize = 1000

	// Files older than this many days count as "old" during cleanup
	DefaultMaxAgeDays = 30

	// Number of largest files reported by the usage analyzer
	DefaultTopFiles = 10

	// Directory layout for date-based organization (Go time layout)
	DefaultDateLayout = "2006/01"
)
