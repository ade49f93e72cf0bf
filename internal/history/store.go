package history

//go:generate $MOCKGEN -source=store.go -destination=mocks/store_mock.go

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oshokin/media-grabber/internal/constants"
	"github.com/oshokin/media-grabber/internal/media"
)

// DefaultLimit is the number of entries kept when no limit is configured.
const DefaultLimit = 100

// ErrEmptyPath indicates a store without a database path.
var ErrEmptyPath = errors.New("history path is empty")

// Entry is one completed download.
type Entry struct {
	// Seq orders entries; the newest has the highest value.
	Seq uint `gorm:"primaryKey"`
	// ID identifies the entry outside the database.
	ID        string    `gorm:"uniqueIndex;size:36"`
	CreatedAt time.Time `gorm:"index"`
	Platform  string
	Title     string
	URL       string
	FilePath  string
	Thumbnail string
	// Duration is in seconds; zero means unknown.
	Duration float64
	// ItemCount is above one for galleries and playlists.
	ItemCount int
	Quality   string
}

// TableName keeps the table name stable across struct renames.
func (Entry) TableName() string {
	return "history"
}

// NewEntry builds the entry of a successful download.
func NewEntry(platform media.Platform, ref media.Reference, result *media.DownloadResult, quality string) *Entry {
	title := result.Title
	if title == "" {
		title = ref.Title
	}

	thumbnail := result.Thumbnail
	if thumbnail == "" {
		thumbnail = ref.ThumbnailURL
	}

	url := result.URL
	if url == "" {
		url = ref.URL
	}

	return &Entry{
		Platform:  platform.String(),
		Title:     title,
		URL:       url,
		FilePath:  result.FilePath,
		Thumbnail: thumbnail,
		Duration:  ref.Duration,
		ItemCount: max(len(result.Files), 1),
		Quality:   quality,
	}
}

// Recorder is the part of the store the downloader writes to.
type Recorder interface {
	Add(ctx context.Context, entry *Entry) error
}

// Store keeps at most limit entries, newest first.
type Store struct {
	db    *gorm.DB
	limit int
}

// Open opens or creates the database at path.
func Open(path string, limit int) (*Store, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DefaultFolderPermissions); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err = db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return &Store{db: db, limit: limit}, nil
}

// Add stores entry and drops the oldest entries above the limit.
func (s *Store) Add(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to add history entry: %w", err)
		}

		newest := tx.Model(&Entry{}).Select("seq").Order("seq DESC").Limit(s.limit)
		if err := tx.Where("seq NOT IN (?)", newest).Delete(&Entry{}).Error; err != nil {
			return fmt.Errorf("failed to trim history: %w", err)
		}

		return nil
	})
}

// List returns up to limit entries, newest first. A non-positive limit returns all of them.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	var entries []Entry

	query := s.db.WithContext(ctx).Order("seq DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	return entries, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
