package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/metadata"
)

func TestListBooks(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	env.addBook(t, "First", 1)
	env.addBook(t, "Second", 2)

	recorder := env.request(t, http.MethodGet, "/books/", "", nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Total    int64           `json:"total"`
		Count    int             `json:"count"`
		Next     *string         `json:"next"`
		Previous *string         `json:"previous"`
		Results  []entities.Book `json:"results"`
	}
	decodeJSON(t, recorder, &resp)

	assert.EqualValues(t, 2, resp.Total)
	assert.Equal(t, 2, resp.Count)
	assert.Nil(t, resp.Next)
	assert.Nil(t, resp.Previous)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "First", resp.Results[0].Title)
}

func TestListBooks_Pagination(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		env.addBook(t, fmt.Sprintf("Book %d", i), 1)
	}

	recorder := env.request(t, http.MethodGet, "/books/?limit=2&offset=2", "", nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Total    int64           `json:"total"`
		Count    int             `json:"count"`
		Next     *string         `json:"next"`
		Previous *string         `json:"previous"`
		Results  []entities.Book `json:"results"`
	}
	decodeJSON(t, recorder, &resp)

	assert.EqualValues(t, 5, resp.Total)
	assert.Equal(t, 2, resp.Count)
	require.NotNil(t, resp.Next)
	assert.True(t, strings.HasPrefix(*resp.Next, "http://example.com/books/"),
		"next must be an absolute URI, got %s", *resp.Next)
	assert.Contains(t, *resp.Next, "offset=4")
	require.NotNil(t, resp.Previous)
	assert.True(t, strings.HasPrefix(*resp.Previous, "http://example.com/books/"),
		"previous must be an absolute URI, got %s", *resp.Previous)
	assert.Contains(t, *resp.Previous, "offset=0")
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Book 2", resp.Results[0].Title)
}

func TestListBooks_InvalidLimit(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	recorder := env.request(t, http.MethodGet, "/books/?limit=abc", "", nil)

	require.Equal(t, http.StatusNotFound, recorder.Code)

	var resp ErrorResponse
	decodeJSON(t, recorder, &resp)
	assert.Equal(t, "Invalid limit value: 'abc'", resp.Detail)
}

func TestListBooks_NullLimitUsesDefault(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	env.addBook(t, "Only", 1)

	recorder := env.request(t, http.MethodGet, "/books/?limit=null", "", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestGetBook(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book := env.addBook(t, "The Trial", 1)

	recorder := env.request(t, http.MethodGet, fmt.Sprintf("/books/%d/", book.ID), "", nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var got entities.Book
	decodeJSON(t, recorder, &got)
	assert.Equal(t, "The Trial", got.Title)
}

func TestGetBook_NotFound(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	recorder := env.request(t, http.MethodGet, "/books/999/", "", nil)

	require.Equal(t, http.StatusNotFound, recorder.Code)

	var resp ErrorResponse
	decodeJSON(t, recorder, &resp)
	assert.Equal(t, "Not found.", resp.Detail)
}

func TestGetBook_MalformedID(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	recorder := env.request(t, http.MethodGet, "/books/abc/", "", nil)

	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCreateBook_RequiresAuth(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	recorder := env.request(t, http.MethodPost, "/books/", "", gin.H{"isbn": "9780134190440"})

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCreateBook_ClientForbidden(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	token := env.newUserToken(t, "client", entities.UserRoleClient)

	recorder := env.request(t, http.MethodPost, "/books/", token, gin.H{"isbn": "9780134190440"})

	require.Equal(t, http.StatusForbidden, recorder.Code)

	var resp ErrorResponse
	decodeJSON(t, recorder, &resp)
	assert.Equal(t, "You do not have permission to perform this action.", resp.Detail)
}

func TestCreateBook_StaffWithEnrichment(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	env.provider.info = metadata.BookInfo{
		Title:     "The Go Programming Language",
		Author:    "Donovan, Kernighan",
		PageCount: 380,
	}
	token := env.newUserToken(t, "staff", entities.UserRoleStaff)

	recorder := env.request(t, http.MethodPost, "/books/", token,
		gin.H{"isbn": "978-0-13-419044-0", "copies": 3})

	require.Equal(t, http.StatusOK, recorder.Code)

	var got entities.Book
	decodeJSON(t, recorder, &got)
	assert.Equal(t, "9780134190440", got.ISBN)
	assert.Equal(t, "The Go Programming Language", got.Title)
	assert.Equal(t, 3, got.Copies)
	require.NotNil(t, got.PageCount)
	assert.Equal(t, 380, *got.PageCount)
}

func TestCreateBook_TitleMissing(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	env.provider.err = errors.New("connection refused")
	token := env.newUserToken(t, "staff", entities.UserRoleStaff)

	recorder := env.request(t, http.MethodPost, "/books/", token, gin.H{"isbn": "9780134190440"})

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp ErrorResponse
	decodeJSON(t, recorder, &resp)
	assert.Equal(t, "Title missing and not found via ISBN.", resp.Detail)
}

func TestCreateBook_DuplicateISBN(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	token := env.newUserToken(t, "staff", entities.UserRoleStaff)

	first := env.request(t, http.MethodPost, "/books/", token,
		gin.H{"isbn": "9780134190440", "title": "Original"})
	require.Equal(t, http.StatusOK, first.Code)

	second := env.request(t, http.MethodPost, "/books/", token,
		gin.H{"isbn": "9780134190440", "title": "Copycat"})

	require.Equal(t, http.StatusBadRequest, second.Code)

	var resp ErrorResponse
	decodeJSON(t, second, &resp)
	assert.Equal(t, "book with this isbn already exists.", resp.Detail)
}

func TestCreateBook_NegativeCopies(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	token := env.newUserToken(t, "staff", entities.UserRoleStaff)

	recorder := env.request(t, http.MethodPost, "/books/", token,
		gin.H{"isbn": "9780134190440", "title": "Any", "copies": -1})

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp ErrorResponse
	decodeJSON(t, recorder, &resp)
	assert.Equal(t, "copies must be >= 0.", resp.Detail)
}

func TestCreateBook_MissingISBN(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	token := env.newUserToken(t, "staff", entities.UserRoleStaff)

	recorder := env.request(t, http.MethodPost, "/books/", token, gin.H{"title": "No ISBN"})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDeleteBook(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book := env.addBook(t, "Doomed", 1)
	token := env.newUserToken(t, "staff", entities.UserRoleStaff)

	recorder := env.request(t, http.MethodDelete, fmt.Sprintf("/books/%d/", book.ID), token, nil)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = env.request(t, http.MethodGet, fmt.Sprintf("/books/%d/", book.ID), "", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDeleteBook_ClientForbidden(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book := env.addBook(t, "Protected", 1)
	token := env.newUserToken(t, "client", entities.UserRoleClient)

	recorder := env.request(t, http.MethodDelete, fmt.Sprintf("/books/%d/", book.ID), token, nil)

	require.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestBorrowBook(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book := env.addBook(t, "Popular", 2)
	token := env.newUserToken(t, "client", entities.UserRoleClient)

	recorder := env.request(t, http.MethodPost, fmt.Sprintf("/books/%d/borrow/", book.ID), token, nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var borrow entities.Borrow
	decodeJSON(t, recorder, &borrow)
	assert.Equal(t, book.ID, borrow.BookID)
	assert.Equal(t, entities.BorrowStatusBorrowed, borrow.Status)

	var stored entities.Book
	require.NoError(t, env.db.DB.First(&stored, book.ID).Error)
	assert.Equal(t, 1, stored.Copies)
}

func TestBorrowBook_StaffForbidden(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book := env.addBook(t, "Popular", 1)
	token := env.newUserToken(t, "staff", entities.UserRoleStaff)

	recorder := env.request(t, http.MethodPost, fmt.Sprintf("/books/%d/borrow/", book.ID), token, nil)

	require.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestBorrowBook_NoCopies(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book := env.addBook(t, "Sold out", 0)
	token := env.newUserToken(t, "client", entities.UserRoleClient)

	recorder := env.request(t, http.MethodPost, fmt.Sprintf("/books/%d/borrow/", book.ID), token, nil)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp ErrorResponse
	decodeJSON(t, recorder, &resp)
	assert.Equal(t, "No copies available.", resp.Detail)
}

func TestBorrowBook_Twice(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book := env.addBook(t, "Popular", 5)
	token := env.newUserToken(t, "client", entities.UserRoleClient)

	first := env.request(t, http.MethodPost, fmt.Sprintf("/books/%d/borrow/", book.ID), token, nil)
	require.Equal(t, http.StatusOK, first.Code)

	second := env.request(t, http.MethodPost, fmt.Sprintf("/books/%d/borrow/", book.ID), token, nil)

	require.Equal(t, http.StatusBadRequest, second.Code)

	var resp ErrorResponse
	decodeJSON(t, second, &resp)
	assert.Equal(t, "Already borrowed.", resp.Detail)
}

func TestBorrowBook_NotFound(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	token := env.newUserToken(t, "client", entities.UserRoleClient)

	recorder := env.request(t, http.MethodPost, "/books/999/borrow/", token, nil)

	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestReturnBook(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book := env.addBook(t, "Popular", 1)
	token := env.newUserToken(t, "client", entities.UserRoleClient)

	recorder := env.request(t, http.MethodPost, fmt.Sprintf("/books/%d/borrow/", book.ID), token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.request(t, http.MethodPost, fmt.Sprintf("/books/%d/return_it/", book.ID), token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var borrow entities.Borrow
	decodeJSON(t, recorder, &borrow)
	assert.Equal(t, entities.BorrowStatusReturned, borrow.Status)
	assert.NotNil(t, borrow.ReturnedAt)

	var stored entities.Book
	require.NoError(t, env.db.DB.First(&stored, book.ID).Error)
	assert.Equal(t, 1, stored.Copies)
}

func TestReturnBook_NoActiveBorrow(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book := env.addBook(t, "Untouched", 1)
	token := env.newUserToken(t, "client", entities.UserRoleClient)

	recorder := env.request(t, http.MethodPost, fmt.Sprintf("/books/%d/return_it/", book.ID), token, nil)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp ErrorResponse
	decodeJSON(t, recorder, &resp)
	assert.Equal(t, "No active borrow for this book.", resp.Detail)
}

func TestBorrowReturnCycleOverHTTP(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book := env.addBook(t, "Single copy", 1)
	tokenA := env.newUserToken(t, "client_a", entities.UserRoleClient)
	tokenB := env.newUserToken(t, "client_b", entities.UserRoleClient)

	borrowPath := fmt.Sprintf("/books/%d/borrow/", book.ID)
	returnPath := fmt.Sprintf("/books/%d/return_it/", book.ID)

	require.Equal(t, http.StatusOK, env.request(t, http.MethodPost, borrowPath, tokenA, nil).Code)
	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodPost, borrowPath, tokenB, nil).Code)
	require.Equal(t, http.StatusOK, env.request(t, http.MethodPost, returnPath, tokenA, nil).Code)
	require.Equal(t, http.StatusOK, env.request(t, http.MethodPost, borrowPath, tokenB, nil).Code)
}
