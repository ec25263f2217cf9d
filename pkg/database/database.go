package database

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

// ScanSession is one recorded dedup run.
type ScanSession struct {
	ID         string    `gorm:"primaryKey"`
	Root       string    `gorm:"not null"`
	Policy     string    `gorm:"not null"`
	DryRun     bool      `gorm:"not null"`
	Groups     int       `gorm:"not null"`
	Deleted    int       `gorm:"not null"`
	Failed     int       `gorm:"not null"`
	FreedSpace int64     `gorm:"not null"`
	StartedAt  time.Time `gorm:"not null"`
	FinishedAt time.Time `gorm:"not null"`
}

func (ScanSession) TableName() string {
	return "scan_sessions"
}

// DeletionRow is one DeletionRecord persisted under its session.
type DeletionRow struct {
	ID        int64  `gorm:"primaryKey"`
	SessionID string `gorm:"index;not null"`
	Path      string `gorm:"not null"`
	Outcome   string `gorm:"not null"`
	Reason    string
	Size      int64
}

func (DeletionRow) TableName() string {
	return "deletion_records"
}

// DigestRow caches a file's content digest keyed by path, so unchanged files
// (same size and mtime) skip re-hashing on repeat scans.
type DigestRow struct {
	Path    string    `gorm:"primaryKey"`
	Size    int64     `gorm:"not null"`
	ModTime time.Time `gorm:"not null"`
	Digest  string    `gorm:"not null"`
}

func (DigestRow) TableName() string {
	return "file_digests"
}

type Database struct {
	db    *gorm.DB
	cache map[string]DigestRow
	mu    sync.RWMutex
}

func NewDatabase(dbPath string) (*Database, error) {
	expandedPath, err := expandPath(dbPath)
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to expand database path")
		return nil, err
	}

	logger.Get().Debug().Msgf("opening database: %s", expandedPath)

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0755); err != nil {
		logger.Get().Error().Err(err).Msgf("failed to create database directory: %s", filepath.Dir(expandedPath))
		return nil, err
	}

	dsn := expandedPath + "?_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to open database")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&ScanSession{}, &DeletionRow{}, &DigestRow{}); err != nil {
		logger.Get().Error().Err(err).Msg("failed to migrate schema")
		return nil, err
	}

	return &Database{
		db:    db,
		cache: make(map[string]DigestRow),
	}, nil
}

func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == '\\') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// RecordSession stores a finished dedup run and its deletion records.
// Returns the generated session id.
func (d *Database) RecordSession(root string, policy internal.KeepPolicy, dryRun bool, stats internal.DedupStats, records []internal.DeletionRecord) (string, error) {
	session := &ScanSession{
		ID:         uuid.NewString(),
		Root:       root,
		Policy:     string(policy),
		DryRun:     dryRun,
		Groups:     stats.Groups,
		Deleted:    stats.Deleted,
		Failed:     stats.Failed,
		FreedSpace: stats.FreedSpace,
		StartedAt:  stats.StartTime,
		FinishedAt: stats.EndTime,
	}

	return session.ID, d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		for _, rec := range records {
			row := &DeletionRow{
				SessionID: session.ID,
				Path:      rec.Path,
				Outcome:   string(rec.Outcome),
				Reason:    rec.Reason,
				Size:      rec.Size,
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Sessions returns the most recent sessions, newest first.
func (d *Database) Sessions(limit int) ([]ScanSession, error) {
	var sessions []ScanSession
	err := d.db.Order("started_at desc").Limit(limit).Find(&sessions).Error
	return sessions, err
}

// SessionRecords returns the deletion records of one session.
func (d *Database) SessionRecords(sessionID string) ([]DeletionRow, error) {
	var rows []DeletionRow
	err := d.db.Where("session_id = ?", sessionID).Order("id").Find(&rows).Error
	return rows, err
}

// Lookup implements dedup.DigestCache. A hit requires size and mtime to
// match what was recorded with the digest.
func (d *Database) Lookup(path string, size int64, modTime time.Time) (string, bool) {
	d.mu.RLock()
	row, ok := d.cache[path]
	d.mu.RUnlock()

	if !ok {
		if err := d.db.Where("path = ?", path).First(&row).Error; err != nil {
			return "", false
		}
		d.mu.Lock()
		d.cache[path] = row
		d.mu.Unlock()
	}

	if row.Size != size || !row.ModTime.Equal(modTime) {
		return "", false
	}
	return row.Digest, true
}

// Store implements dedup.DigestCache.
func (d *Database) Store(path string, size int64, modTime time.Time, digest string) error {
	row := DigestRow{Path: path, Size: size, ModTime: modTime, Digest: digest}

	if err := d.db.Save(&row).Error; err != nil {
		logger.Get().Error().Err(err).Msgf("failed to store digest: %s", path)
		return err
	}

	d.mu.Lock()
	d.cache[path] = row
	d.mu.Unlock()
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
