// Package catalog implements enrichment-aware creation of catalog
// entries: fields the caller leaves empty are filled from an external
// metadata lookup before validation.
package catalog

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/metadata"
)

var (
	ErrISBNRequired  = errors.New("isbn is required")
	ErrTitleMissing  = errors.New("title missing and not found via ISBN")
	ErrInvalidCopies = errors.New("copies must be >= 0")
)

// CreateInput is the caller-supplied portion of a new catalog entry.
// Only ISBN is mandatory; anything else missing is filled by enrichment.
type CreateInput struct {
	ISBN           string
	Title          string
	Author         string
	Description    string
	PublishedDate  string
	CoverThumbnail string
	Publisher      string
	PageCount      *int
	Copies         *int
}

// BookStore is the persistence surface the service needs.
type BookStore interface {
	Create(book *entities.Book) error
}

// Service creates catalog entries.
type Service struct {
	books    BookStore
	provider metadata.Provider
}

// NewService creates a catalog service using the given store and
// metadata provider.
func NewService(books BookStore, provider metadata.Provider) *Service {
	return &Service{
		books:    books,
		provider: provider,
	}
}

// NormalizeISBN strips separators from an ISBN-like identifier.
func NormalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	return strings.TrimSpace(isbn)
}

// Create builds a catalog entry from caller input plus enrichment data
// and persists it. Caller-supplied values always win; enrichment only
// fills gaps. A failed external lookup counts as "no enrichment data",
// so creation still proceeds and fails only if the title stays empty.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entities.Book, error) {
	isbn := NormalizeISBN(in.ISBN)
	if isbn == "" {
		return nil, ErrISBNRequired
	}
	if in.Copies != nil && *in.Copies < 0 {
		return nil, ErrInvalidCopies
	}

	info, err := s.provider.FetchByISBN(ctx, isbn)
	if err != nil {
		log.Printf("metadata lookup for %s failed: %v", isbn, err)
		info = metadata.BookInfo{}
	}

	book := &entities.Book{
		ISBN:           isbn,
		Title:          firstNonEmpty(in.Title, info.Title),
		Author:         firstNonEmpty(in.Author, info.Author),
		Description:    firstNonEmpty(in.Description, info.Description),
		PublishedDate:  firstNonEmpty(in.PublishedDate, info.PublishedDate),
		CoverThumbnail: firstNonEmpty(in.CoverThumbnail, info.CoverThumbnail),
		Publisher:      firstNonEmpty(in.Publisher, info.Publisher),
		Copies:         1,
	}

	if in.PageCount != nil {
		book.PageCount = in.PageCount
	} else if info.PageCount > 0 {
		pages := info.PageCount
		book.PageCount = &pages
	}

	if in.Copies != nil {
		book.Copies = *in.Copies
	}

	if book.Title == "" {
		return nil, ErrTitleMissing
	}

	if err := s.books.Create(book); err != nil {
		return nil, err
	}
	return book, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
