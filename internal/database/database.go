package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	// busy_timeout makes concurrent writers wait for the sqlite lock
	// instead of failing with SQLITE_BUSY.
	dsn := fmt.Sprintf("%s?_busy_timeout=10000", dbPath)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// sqlite allows a single writer at a time; a single connection keeps
	// transactions from stepping on each other under concurrent requests.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Borrow{},
		&entities.CacheEntry{},
		&entities.RevokedToken{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// A user holds at most one active borrow per book. The borrow
	// transaction checks this too; the index is the backstop.
	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_borrows_one_active
		 ON borrows(user_id, book_id) WHERE status = 'borrowed'`,
	).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create active borrow index: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
