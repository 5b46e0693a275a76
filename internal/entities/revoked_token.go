package entities

import (
	"time"
)

// RevokedToken blacklists a refresh token by its jti claim. Rows past
// ExpiresAt are dead weight, the token could no longer be used anyway.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JTI       string    `gorm:"uniqueIndex;size:64" json:"jti"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	RevokedAt time.Time `json:"revoked_at"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
