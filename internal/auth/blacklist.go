package auth

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/librarian/internal/entities"
)

// Blacklist tracks revoked refresh tokens by jti.
type Blacklist struct {
	db *gorm.DB
}

// NewBlacklist creates a blacklist backed by the given database.
func NewBlacklist(db *gorm.DB) *Blacklist {
	return &Blacklist{db: db}
}

// Revoke marks a refresh token as revoked. Revoking the same token
// twice is a no-op.
func (b *Blacklist) Revoke(jti string, expiresAt time.Time) error {
	entry := entities.RevokedToken{
		JTI:       jti,
		ExpiresAt: expiresAt,
		RevokedAt: time.Now(),
	}
	return b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "jti"}},
		DoNothing: true,
	}).Create(&entry).Error
}

// IsRevoked reports whether a refresh token has been blacklisted.
func (b *Blacklist) IsRevoked(jti string) (bool, error) {
	var entry entities.RevokedToken
	err := b.db.Where("jti = ?", jti).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PurgeExpired removes blacklist rows whose tokens have expired on
// their own.
func (b *Blacklist) PurgeExpired() (int64, error) {
	result := b.db.Where("expires_at <= ?", time.Now()).Delete(&entities.RevokedToken{})
	return result.RowsAffected, result.Error
}
