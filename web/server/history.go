package server

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RenderRecord is one completed render in the history store.
type RenderRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Scene     string    `gorm:"size:128" json:"scene"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Samples   int       `json:"samples"`
	Passes    int       `json:"passes"`
	Seed      int64     `json:"seed"`
	ElapsedMs int64     `json:"elapsedMs"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryStore persists completed renders in a SQLite database.
type HistoryStore struct {
	db *gorm.DB
}

// OpenHistory opens or creates the history database at the given path.
func OpenHistory(path string) (*HistoryStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&RenderRecord{}); err != nil {
		return nil, err
	}
	return &HistoryStore{db: db}, nil
}

// Record stores one completed render.
func (h *HistoryStore) Record(ctx context.Context, record RenderRecord) error {
	return h.db.WithContext(ctx).Create(&record).Error
}

// Recent returns the most recent renders, newest first.
func (h *HistoryStore) Recent(ctx context.Context, limit int) ([]RenderRecord, error) {
	var records []RenderRecord
	err := h.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// Close releases the underlying database connection.
func (h *HistoryStore) Close() error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
