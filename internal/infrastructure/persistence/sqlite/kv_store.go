// Package sqlite provides the durable key-value store backend on SQLite
// via GORM, the default storage driver for local single-user installs.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pantrychef/v2/internal/ports/outbound"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// KVRecord is the storage row for one key-value entry
type KVRecord struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Value     []byte    `gorm:"type:blob"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName sets the table name for KVRecord
func (KVRecord) TableName() string {
	return "kv_records"
}

// SetupDatabase creates and migrates the SQLite database
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&KVRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// KeyValueStore implements the key-value store on GORM/SQLite
type KeyValueStore struct {
	db *gorm.DB
}

// NewKeyValueStore creates a SQLite-backed key-value store
func NewKeyValueStore(db *gorm.DB) *KeyValueStore {
	return &KeyValueStore{db: db}
}

var _ outbound.KeyValueStore = (*KeyValueStore)(nil)

// Get retrieves a value; absent keys yield (nil, nil)
func (s *KeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	var record KVRecord
	err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read key %q: %w", key, err)
	}
	return record.Value, nil
}

// Set upserts a value under key
func (s *KeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	record := KVRecord{Key: key, Value: value}
	err := s.db.WithContext(ctx).Save(&record).Error
	if err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	return nil
}

// Delete removes a key; deleting an absent key is not an error
func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&KVRecord{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	return nil
}
