package entities

import (
	"time"
)

type BorrowStatus string

const (
	BorrowStatusBorrowed BorrowStatus = "borrowed"
	BorrowStatusReturned BorrowStatus = "returned"
)

// Borrow records one user holding one book. Status only ever moves
// borrowed -> returned; ReturnedAt stays nil until then.
type Borrow struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	UserID     uint         `gorm:"index" json:"user"`
	BookID     uint         `gorm:"index" json:"book"`
	Status     BorrowStatus `gorm:"size:8;default:'borrowed'" json:"status"`
	BorrowedAt time.Time    `json:"borrowed_at"`
	DueDate    time.Time    `json:"due_date"`
	ReturnedAt *time.Time   `json:"returned_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"-"`
}

func (Borrow) TableName() string {
	return "borrows"
}
