// Package loans implements the borrow/return workflow.
//
// Both operations are single transactions built on atomic relative
// updates, so concurrent requests can never drive a book's copy count
// negative or lose an increment:
//
//   - Borrow issues a conditional decrement guarded by "copies > 0" and
//     creates the borrow record only when a row was actually updated.
//   - Return flips the record's status with a "status = 'borrowed'"
//     guard and increments the copy count only when the flip happened,
//     which also makes returning the same record twice a no-op.
package loans

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrNoCopies        = errors.New("no copies available")
	ErrAlreadyBorrowed = errors.New("user already holds an active borrow for this book")
	ErrNoActiveBorrow  = errors.New("no active borrow for this book")
)

// Repository handles borrow/return database operations.
type Repository struct {
	db     *gorm.DB
	period time.Duration
}

// NewRepository creates a loans repository. period determines the due
// date of new borrows (borrowed date + period).
func NewRepository(db *gorm.DB, period time.Duration) *Repository {
	return &Repository{db: db, period: period}
}

// Borrow atomically takes one copy of a book for a user and records the
// loan. Fails with ErrNoCopies when the compare-and-decrement finds no
// copy left, and with ErrAlreadyBorrowed when the user still holds an
// unreturned borrow of the same book.
func (r *Repository) Borrow(userID, bookID uint) (*entities.Borrow, error) {
	var borrow *entities.Borrow

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		var active int64
		err := tx.Model(&entities.Borrow{}).
			Where("user_id = ? AND book_id = ? AND status = ?",
				userID, bookID, entities.BorrowStatusBorrowed).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrAlreadyBorrowed
		}

		// Compare-and-decrement: succeeds only while a copy remains.
		result := tx.Model(&entities.Book{}).
			Where("id = ? AND copies > 0", bookID).
			UpdateColumn("copies", gorm.Expr("copies - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNoCopies
		}

		now := time.Now()
		borrow = &entities.Borrow{
			UserID:     userID,
			BookID:     bookID,
			Status:     entities.BorrowStatusBorrowed,
			BorrowedAt: now,
			DueDate:    now.Add(r.period),
		}
		return tx.Create(borrow).Error
	})
	if err != nil {
		return nil, err
	}
	return borrow, nil
}

// Return finds the user's active borrow of a book and marks it
// returned. Fails with ErrNoActiveBorrow when no unreturned borrow
// exists for (user, book).
func (r *Repository) Return(userID, bookID uint) (*entities.Borrow, error) {
	var borrow entities.Borrow
	err := r.db.Where("user_id = ? AND book_id = ? AND status = ?",
		userID, bookID, entities.BorrowStatusBorrowed).
		First(&borrow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveBorrow
		}
		return nil, err
	}

	return r.MarkReturned(borrow.ID)
}

// MarkReturned transitions a borrow record to returned and gives the
// copy back. Calling it on an already returned record is a no-op: the
// copy count is incremented exactly once per record.
func (r *Repository) MarkReturned(borrowID uint) (*entities.Borrow, error) {
	var borrow entities.Borrow

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&borrow, borrowID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveBorrow
			}
			return err
		}

		now := time.Now()
		result := tx.Model(&entities.Borrow{}).
			Where("id = ? AND status = ?", borrowID, entities.BorrowStatusBorrowed).
			Updates(map[string]any{
				"status":      entities.BorrowStatusReturned,
				"returned_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Already returned; leave the record and the count alone.
			return nil
		}

		borrow.Status = entities.BorrowStatusReturned
		borrow.ReturnedAt = &now

		// Relative increment so concurrent returns of different records
		// for the same book both land.
		return tx.Model(&entities.Book{}).
			Where("id = ?", borrow.BookID).
			UpdateColumn("copies", gorm.Expr("copies + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &borrow, nil
}

// GetByID retrieves a borrow record.
func (r *Repository) GetByID(id uint) (*entities.Borrow, error) {
	var borrow entities.Borrow
	err := r.db.First(&borrow, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveBorrow
		}
		return nil, err
	}
	return &borrow, nil
}

// ListByUser returns all borrow records of a user, newest first.
func (r *Repository) ListByUser(userID uint) ([]entities.Borrow, error) {
	var borrows []entities.Borrow
	err := r.db.Where("user_id = ?", userID).Order("id DESC").Find(&borrows).Error
	return borrows, err
}
