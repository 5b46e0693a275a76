package entities

import (
	"time"
)

type UserRole string

const (
	UserRoleClient UserRole = "client" // may borrow and return
	UserRoleStaff  UserRole = "staff"  // may create and delete catalog entries
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	Role         UserRole  `gorm:"size:10;default:'client'" json:"user_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
