package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/auth"
	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/loans"
	"github.com/mrlokans/librarian/internal/entities"
)

// RouterConfig carries all dependencies the router wires into
// controllers.
type RouterConfig struct {
	Database    *database.Database
	Books       *books.Repository
	Loans       *loans.Repository
	Catalog     *catalog.Service
	AuthService *auth.Service
	Issuer      *auth.Issuer
	Blacklist   *auth.Blacklist
	Version     string
}

// NewRouter creates and configures the HTTP router with all endpoints.
//
// Listing and reading the catalog are open; everything else requires a
// Bearer access token. Catalog writes are staff-only, borrow/return are
// client-only.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	middleware := auth.NewMiddleware(cfg.Issuer)
	authenticated := middleware.RequireAuth()
	staffOnly := auth.RequireRole(entities.UserRoleStaff)
	clientOnly := auth.RequireRole(entities.UserRoleClient)

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Books, cfg.Loans, cfg.Catalog)
	authController := NewAuthController(cfg.AuthService, cfg.Issuer, cfg.Blacklist)

	router.GET("/health", health.Status)

	// Catalog endpoints
	router.GET("/books/", booksController.List)
	router.GET("/books/:id/", booksController.Get)
	router.POST("/books/", authenticated, staffOnly, booksController.Create)
	router.DELETE("/books/:id/", authenticated, staffOnly, booksController.Delete)

	// Borrow/return endpoints
	router.POST("/books/:id/borrow/", authenticated, clientOnly, booksController.Borrow)
	router.POST("/books/:id/return_it/", authenticated, clientOnly, booksController.Return)

	// Auth endpoints
	router.POST("/auth/login/", authController.Login)
	router.POST("/auth/refresh/", authController.Refresh)
	router.POST("/auth/blacklist/", authController.Blacklist)
	router.POST("/auth/create/", authController.CreateUser)

	return router
}
