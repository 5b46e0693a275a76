// Command generate_demo creates a demo database with sample accounts and
// a catalog of public domain books.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/librarian/internal/auth"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/users"
	"github.com/mrlokans/librarian/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	createAccounts(db)

	for _, book := range getPublicDomainBooks() {
		if err := db.DB.Create(&book).Error; err != nil {
			log.Printf("Failed to save book %s: %v", book.Title, err)
			continue
		}
		log.Printf("Saved: %s by %s (%d copies)", book.Title, book.Author, book.Copies)
	}

	log.Println("Demo database generated successfully!")
}

func createAccounts(db *database.Database) {
	service := auth.NewService(users.NewRepository(db.DB), bcrypt.DefaultCost)

	accounts := []struct {
		username string
		password string
		role     entities.UserRole
	}{
		{"librarian", "librarian", entities.UserRoleStaff},
		{"alice", "alice", entities.UserRoleClient},
		{"bob", "bob", entities.UserRoleClient},
	}

	for _, a := range accounts {
		user, created, err := service.CreateUser(a.username, a.password, a.role)
		if err != nil {
			log.Printf("Failed to create user %s: %v", a.username, err)
			continue
		}
		if created {
			log.Printf("Created %s account: %s (id=%d)", a.role, user.Username, user.ID)
		}
	}
}

func intPtr(v int) *int { return &v }

func getPublicDomainBooks() []entities.Book {
	return []entities.Book{
		{
			ISBN:          "9780140449334",
			Title:         "Meditations",
			Author:        "Marcus Aurelius",
			Publisher:     "Penguin Classics",
			PublishedDate: "2006-04-25",
			Description:   "Personal writings of the Roman emperor on Stoic philosophy.",
			PageCount:     intPtr(304),
			Copies:        3,
		},
		{
			ISBN:          "9780140442106",
			Title:         "Letters from a Stoic",
			Author:        "Seneca",
			Publisher:     "Penguin Classics",
			PublishedDate: "1969-07-30",
			Description:   "Selected letters on ethics and the good life.",
			PageCount:     intPtr(254),
			Copies:        2,
		},
		{
			ISBN:          "9780451530578",
			Title:         "On the Origin of Species",
			Author:        "Charles Darwin",
			Publisher:     "Signet Classics",
			PublishedDate: "2003-09-02",
			PageCount:     intPtr(576),
			Copies:        1,
		},
		{
			ISBN:          "9780141439518",
			Title:         "Pride and Prejudice",
			Author:        "Jane Austen",
			Publisher:     "Penguin Classics",
			PublishedDate: "2002-12-31",
			PageCount:     intPtr(480),
			Copies:        4,
		},
		{
			ISBN:          "9781400079988",
			Title:         "War and Peace",
			Author:        "Leo Tolstoy",
			Publisher:     "Vintage Classics",
			PublishedDate: "2008-12-02",
			PageCount:     intPtr(1296),
			Copies:        2,
		},
		{
			ISBN:          "9780143058144",
			Title:         "Crime and Punishment",
			Author:        "Fyodor Dostoevsky",
			Publisher:     "Penguin Classics",
			PublishedDate: "2002-12-31",
			PageCount:     intPtr(718),
			Copies:        2,
		},
		{
			ISBN:          "9780141442464",
			Title:         "Frankenstein",
			Author:        "Mary Shelley",
			Publisher:     "Penguin Classics",
			PublishedDate: "2007-10-30",
			PageCount:     intPtr(352),
			Copies:        1,
		},
		{
			ISBN:          "9780141439570",
			Title:         "The Picture of Dorian Gray",
			Author:        "Oscar Wilde",
			Publisher:     "Penguin Classics",
			PublishedDate: "2003-02-04",
			PageCount:     intPtr(304),
			Copies:        2,
		},
	}
}
