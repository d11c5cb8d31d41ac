// Package cache implements the durable local cache store: per-collection
// key/value storage backed by SQLite, holding the last known-good snapshot of
// trips, itinerary items, and suggestions, plus the active-trip pointer and
// the pending-action queue.
//
// The cache is advisory, never authoritative. Reads fall back to zero values
// on missing, corrupt, or inaccessible entries, and writes are best-effort:
// storage failures are swallowed (logged at debug level) so a disabled or
// full storage medium degrades the cache to a no-op instead of breaking the
// caller. Each call probes storage independently; nothing about availability
// is cached between calls.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Entry is one cached collection snapshot, JSON-encoded under a logical key.
type Entry struct {
	Key       string `gorm:"type:varchar(191);primaryKey"`
	Value     []byte `gorm:"type:blob;not null"`
	UpdatedAt time.Time
}

// TableName returns the database table name for Entry.
func (Entry) TableName() string { return "cache_entries" }

// Open opens (or creates) the cache database and applies PRAGMAs.
func Open(path string) (*gorm.DB, error) {
	// Fail early if the parent directory does not exist (instead of a
	// cryptic sqlite "out of memory (14)").
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Single logical flow at a time; a tiny pool is plenty.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(2)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return db, nil
}

// EnableTracing attaches the gorm OpenTelemetry plugin to the cache database.
func EnableTracing(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin(tracing.WithoutMetrics()))
}

// Store provides best-effort typed access to the cache database.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewStore wraps an open cache database.
func NewStore(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

// Get reads the entry under key into out and reports whether it succeeded.
// Missing keys, corrupt values, and storage errors all return false; callers
// use their own fallback value.
func (s *Store) Get(key string, out any) bool {
	if s == nil || s.db == nil {
		return false
	}
	var e Entry
	if err := s.db.Where("key = ?", key).First(&e).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Debug().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(e.Value, out); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache entry corrupt")
		return false
	}
	return true
}

// Put writes v under key. Failures are swallowed; the cache is advisory.
func (s *Store) Put(key string, v any) {
	if s == nil || s.db == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Entry{Key: key, Value: raw, UpdatedAt: time.Now().UTC()}).Error
	if err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Delete removes the entry under key, if present. Best-effort.
func (s *Store) Delete(key string) {
	if s == nil || s.db == nil {
		return
	}
	if err := s.db.Where("key = ?", key).Delete(&Entry{}).Error; err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache delete failed")
	}
}
