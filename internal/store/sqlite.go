package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/i474232898/weather-report-backend/internal/weather"
)

// Open opens the sqlite database at path, creating the file if absent.
func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// SQLiteStore persists observations in a file-backed sqlite table and
// implements weather.Store. The store is the sole owner of persisted rows;
// everything else receives materialized, ordered copies.
type SQLiteStore struct {
	db *gorm.DB
}

// New ensures the observations table exists and returns the store.
// AutoMigrate is idempotent, so calling this on every process start is safe.
func New(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&weather.Observation{}); err != nil {
		return nil, fmt.Errorf("migrating observations table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Upsert inserts or replaces each observation by its (timestamp, latitude,
// longitude) natural key and stamps ReceivedAt. The batch runs in a single
// transaction: if any row is rejected, none are applied.
func (s *SQLiteStore) Upsert(ctx context.Context, obs []weather.Observation) error {
	if len(obs) == 0 {
		return nil
	}

	rows := make([]weather.Observation, len(obs))
	copy(rows, obs)
	now := time.Now().UTC()
	for i := range rows {
		rows[i].ReceivedAt = now
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "timestamp"},
				{Name: "latitude"},
				{Name: "longitude"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"temperature_2m", "relative_humidity_2m", "received_at"}),
		}).Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("upserting %d observations: %w", len(rows), err)
	}
	return nil
}

// QueryRange returns rows with from <= timestamp <= to, ascending by
// timestamp. Bounds are inclusive on both ends.
func (s *SQLiteStore) QueryRange(ctx context.Context, from, to time.Time) ([]weather.Observation, error) {
	var rows []weather.Observation
	err := s.db.WithContext(ctx).
		Clauses(clause.Where{Exprs: []clause.Expression{
			clause.Gte{Column: clause.Column{Name: "timestamp"}, Value: from},
			clause.Lte{Column: clause.Column{Name: "timestamp"}, Value: to},
		}}).
		Order("timestamp ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying observation range: %w", err)
	}
	return rows, nil
}

// QueryAll returns every stored observation, descending by timestamp.
func (s *SQLiteStore) QueryAll(ctx context.Context) ([]weather.Observation, error) {
	var rows []weather.Observation
	err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying all observations: %w", err)
	}
	return rows, nil
}

// Stats reports the row count and timestamp bounds of the dataset.
func (s *SQLiteStore) Stats(ctx context.Context) (weather.StoreStats, error) {
	var stats weather.StoreStats

	if err := s.db.WithContext(ctx).Model(&weather.Observation{}).Count(&stats.TotalRecords).Error; err != nil {
		return weather.StoreStats{}, fmt.Errorf("counting observations: %w", err)
	}
	if stats.TotalRecords == 0 {
		return stats, nil
	}

	var bounds struct {
		Oldest time.Time
		Newest time.Time
	}
	err := s.db.WithContext(ctx).Model(&weather.Observation{}).
		Select("MIN(timestamp) AS oldest, MAX(timestamp) AS newest").
		Scan(&bounds).Error
	if err != nil {
		return weather.StoreStats{}, fmt.Errorf("querying timestamp bounds: %w", err)
	}

	stats.Oldest = &bounds.Oldest
	stats.Newest = &bounds.Newest
	return stats, nil
}
