package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/auth"
	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/loans"
)

type BooksController struct {
	books   *books.Repository
	loans   *loans.Repository
	catalog *catalog.Service
}

func NewBooksController(booksRepo *books.Repository, loansRepo *loans.Repository, catalogService *catalog.Service) *BooksController {
	return &BooksController{
		books:   booksRepo,
		loans:   loansRepo,
		catalog: catalogService,
	}
}

// List returns a page of catalog entries in the standard envelope.
func (controller *BooksController) List(c *gin.Context) {
	page, err := parsePagination(c)
	if err != nil {
		respondNotFound(c, err.Error())
		return
	}

	results, total, err := controller.books.List(page.Limit, page.Offset)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(c, page, total, len(results), results))
}

// Get returns a single catalog entry.
func (controller *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.books.GetByID(id)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "Not found.")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, book)
}

type createBookRequest struct {
	ISBN           string `json:"isbn" binding:"required"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	Description    string `json:"description"`
	PublishedDate  string `json:"published_date"`
	CoverThumbnail string `json:"cover_thumbnail"`
	Publisher      string `json:"publisher"`
	PageCount      *int   `json:"page_count"`
	Copies         *int   `json:"copies"`
}

// Create adds a catalog entry, enriching missing fields from the
// external metadata source. Staff only (enforced in the router).
func (controller *BooksController) Create(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "isbn is required")
		return
	}

	book, err := controller.catalog.Create(c.Request.Context(), catalog.CreateInput{
		ISBN:           req.ISBN,
		Title:          req.Title,
		Author:         req.Author,
		Description:    req.Description,
		PublishedDate:  req.PublishedDate,
		CoverThumbnail: req.CoverThumbnail,
		Publisher:      req.Publisher,
		PageCount:      req.PageCount,
		Copies:         req.Copies,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrISBNRequired):
			respondBadRequest(c, "isbn is required")
		case errors.Is(err, catalog.ErrInvalidCopies):
			respondBadRequest(c, "copies must be >= 0.")
		case errors.Is(err, catalog.ErrTitleMissing):
			respondBadRequest(c, "Title missing and not found via ISBN.")
		case errors.Is(err, books.ErrDuplicateISBN):
			respondBadRequest(c, "book with this isbn already exists.")
		default:
			respondInternalError(c, err, "create book")
		}
		return
	}

	c.JSON(http.StatusOK, book)
}

// Delete removes a catalog entry and its borrow records. Staff only
// (enforced in the router).
func (controller *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.books.Delete(id); err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "Not found.")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	c.Status(http.StatusNoContent)
}

// Borrow takes one copy of a book for the calling client.
func (controller *BooksController) Borrow(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	borrow, err := controller.loans.Borrow(auth.GetUserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, loans.ErrBookNotFound):
			respondNotFound(c, "Not found.")
		case errors.Is(err, loans.ErrNoCopies):
			respondBadRequest(c, "No copies available.")
		case errors.Is(err, loans.ErrAlreadyBorrowed):
			respondBadRequest(c, "Already borrowed.")
		default:
			respondInternalError(c, err, "borrow book")
		}
		return
	}

	c.JSON(http.StatusOK, borrow)
}

// Return gives back the calling client's active borrow of a book.
func (controller *BooksController) Return(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	borrow, err := controller.loans.Return(auth.GetUserID(c), id)
	if err != nil {
		if errors.Is(err, loans.ErrNoActiveBorrow) {
			respondBadRequest(c, "No active borrow for this book.")
			return
		}
		respondInternalError(c, err, "return book")
		return
	}

	c.JSON(http.StatusOK, borrow)
}
