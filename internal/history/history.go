// Package history persists a record of every successful deletion.
package history

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fenilsonani/tidytree/internal/logging"
)

// DeletionType tells how an entry was removed
type DeletionType string

const (
	TypeTrash     DeletionType = "trash"
	TypePermanent DeletionType = "permanent"
)

// Entry is one deleted file or directory
type Entry struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id" yaml:"id"`
	Name        string       `gorm:"not null" json:"name" yaml:"name"`
	Path        string       `gorm:"not null;index" json:"path" yaml:"path"`
	Size        int64        `json:"size" yaml:"size"`
	DeletedAt   time.Time    `gorm:"index" json:"deleted_at" yaml:"deleted_at"`
	Type        DeletionType `gorm:"size:16" json:"type" yaml:"type"`
	IsDirectory bool         `json:"is_directory" yaml:"is_directory"`
	ParentPath  string       `json:"parent_path" yaml:"parent_path"`
}

// TableName keeps the table name stable across struct renames
func (Entry) TableName() string {
	return "deletion_history"
}

// NewEntry builds an entry for path with a fresh ID
func NewEntry(path string, size int64, isDir bool, typ DeletionType) *Entry {
	return &Entry{
		ID:          uuid.NewString(),
		Name:        filepath.Base(path),
		Path:        path,
		Size:        size,
		DeletedAt:   time.Now().UTC(),
		Type:        typ,
		IsDirectory: isDir,
		ParentPath:  filepath.Dir(path),
	}
}

// Store is the sqlite-backed history
type Store struct {
	db     *gorm.DB
	logger *logging.Logger
}

// Open opens or creates the history database at path
func Open(path string, logger *logging.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("empty history path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: newGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	logger.Debug("History database opened at %s", path)
	return &Store{db: db, logger: logger}, nil
}

// newGormLogger routes gorm's messages to the application log
func newGormLogger(logger *logging.Logger) gormlogger.Interface {
	if logger == nil {
		return gormlogger.Discard
	}

	level := gormlogger.Warn
	if logger.Enabled(logging.LevelDebug) {
		level = gormlogger.Info
	}

	return gormlogger.New(
		log.New(logger.Writer(), "", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// AddEntry appends e, assigning an ID and timestamp when missing
func (s *Store) AddEntry(ctx context.Context, e *Entry) error {
	if e == nil {
		return errors.New("nil history entry")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.DeletedAt.IsZero() {
		e.DeletedAt = time.Now().UTC()
	}

	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to record deletion of %s: %w", e.Path, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	var entries []Entry

	query := s.db.WithContext(ctx).Order("deleted_at DESC").Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// Stats summarizes the whole history
type Stats struct {
	Count      int64
	TotalBytes int64
}

// Stats returns the number of entries and the bytes they freed
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.db.WithContext(ctx).
		Model(&Entry{}).
		Select("COUNT(*) AS count, COALESCE(SUM(size), 0) AS total_bytes").
		Scan(&stats).Error
	if err != nil {
		return Stats{}, fmt.Errorf("failed to summarize history: %w", err)
	}
	return stats, nil
}

// Close releases the database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
