package entities

import (
	"time"
)

// CacheEntry is a memoized external lookup result. Keeping it in the
// database makes the cache shared across processes.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"` // sha256 hex digest
	Value     []byte    `gorm:"type:blob" json:"-"`            // JSON-encoded result
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CacheEntry) TableName() string {
	return "cache_entries"
}
