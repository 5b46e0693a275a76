// Package cache memoizes results of external calls in the database, so
// every process sharing the database shares the cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/librarian/internal/entities"
)

// Key derives a deterministic cache key from a qualified function name
// and its arguments. The digest depends only on the serialized values,
// never on per-process state, so keys match across processes.
func Key(name string, args ...any) string {
	payload, err := json.Marshal(struct {
		Name string `json:"name"`
		Args []any  `json:"args"`
	}{Name: name, Args: args})
	if err != nil {
		payload = []byte(fmt.Sprint(name, args))
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Store is a key-value cache with per-entry expiry.
type Store struct {
	db *gorm.DB
}

// NewStore creates a cache store backed by the given database.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get loads the cached value for key into dest. Returns false on a miss
// or when the entry has expired.
func (s *Store) Get(key string, dest any) (bool, error) {
	var entry entities.CacheEntry
	err := s.db.Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !time.Now().Before(entry.ExpiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return false, fmt.Errorf("decode cached value: %w", err)
	}
	return true, nil
}

// Set stores value under key for ttl. An existing entry is overwritten
// and its expiry reset.
func (s *Store) Set(key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}

	entry := entities.CacheEntry{
		Key:       key,
		Value:     payload,
		ExpiresAt: time.Now().Add(ttl),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
}

// PurgeExpired deletes entries past their expiry and reports how many
// rows went away.
func (s *Store) PurgeExpired() (int64, error) {
	result := s.db.Where("expires_at <= ?", time.Now()).Delete(&entities.CacheEntry{})
	return result.RowsAffected, result.Error
}
