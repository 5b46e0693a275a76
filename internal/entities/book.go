package entities

import (
	"time"
)

type Book struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ISBN           string    `gorm:"uniqueIndex;size:20" json:"isbn"`
	Title          string    `gorm:"size:255" json:"title"`
	Author         string    `gorm:"size:255" json:"author"` // free text, possibly comma-joined
	Description    string    `gorm:"type:text" json:"description"`
	PublishedDate  string    `gorm:"size:20" json:"published_date"` // free text, not parsed
	CoverThumbnail string    `gorm:"size:2048" json:"cover_thumbnail,omitempty"`
	Publisher      string    `gorm:"size:255" json:"publisher,omitempty"`
	PageCount      *int      `json:"page_count,omitempty"`
	// No column default here: gorm omits zero-valued fields with a
	// default tag from the INSERT, and copies = 0 is a valid count.
	// The application default of 1 lives in catalog.Create.
	Copies         int       `json:"copies"`
	Borrows        []Borrow  `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}
