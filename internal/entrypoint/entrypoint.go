package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/auth"
	"github.com/mrlokans/librarian/internal/cache"
	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/loans"
	"github.com/mrlokans/librarian/internal/database/users"
	http_controllers "github.com/mrlokans/librarian/internal/http"
	"github.com/mrlokans/librarian/internal/maintenance"
	"github.com/mrlokans/librarian/internal/metadata"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Librarian v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// The signing secret must survive restarts for issued tokens to
	// stay valid; a generated one is for development convenience only.
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret, err = auth.GenerateSecret()
		if err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		log.Printf("Generated JWT secret (set AUTH_JWT_SECRET to persist)")
	}

	booksRepo := books.NewRepository(db.DB)
	loansRepo := loans.NewRepository(db.DB, cfg.Loans.Period)
	usersRepo := users.NewRepository(db.DB)

	if count, err := usersRepo.Count(); err != nil {
		log.Printf("Failed to count users: %v", err)
	} else if count == 0 {
		log.Printf("No accounts yet; bootstrap one with '%s create-user'", os.Args[0])
	}

	// External metadata lookups go through the shared database cache.
	cacheStore := cache.NewStore(db.DB)
	googleBooks := metadata.NewGoogleBooksClient(cfg.GoogleBooks.BaseURL, cfg.GoogleBooks.Timeout)
	provider := metadata.NewCachedProvider(googleBooks, cacheStore, cfg.Cache.TTL)

	catalogService := catalog.NewService(booksRepo, provider)

	authService := auth.NewService(usersRepo, cfg.Auth.BcryptCost)
	issuer := auth.NewIssuer(jwtSecret, cfg.Auth.AccessLifetime, cfg.Auth.RefreshLifetime)
	blacklist := auth.NewBlacklist(db.DB)

	var purger *maintenance.Purger
	if cfg.Maintenance.Enabled {
		purger, err = maintenance.NewPurger(cacheStore, blacklist, cfg.Maintenance.Schedule)
		if err != nil {
			log.Fatalf("Failed to schedule maintenance: %v", err)
		}
		purger.Start()
		log.Printf("Maintenance scheduled: %s", cfg.Maintenance.Schedule)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:    db,
		Books:       booksRepo,
		Loans:       loansRepo,
		Catalog:     catalogService,
		AuthService: authService,
		Issuer:      issuer,
		Blacklist:   blacklist,
		Version:     version,
	})

	onShutdown := func(ctx context.Context) {
		if purger != nil {
			purger.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}
