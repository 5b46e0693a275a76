package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		GoogleBooks
		Cache
		Loans
		Maintenance
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret       string
		AccessLifetime  time.Duration
		RefreshLifetime time.Duration
		BcryptCost      int
	}
	GoogleBooks struct {
		BaseURL string
		Timeout time.Duration
	}
	Cache struct {
		TTL time.Duration // how long enrichment lookups stay memoized
	}
	Loans struct {
		Period time.Duration // due date = borrowed date + period
	}
	Maintenance struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_jwt_secret", "") // Auto-generated if empty
	v.SetDefault("auth_access_lifetime", "5m")
	v.SetDefault("auth_refresh_lifetime", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)

	// Google Books defaults
	v.SetDefault("google_books_base_url", "https://www.googleapis.com")
	v.SetDefault("google_books_timeout", "10s")

	// Enrichment lookups are memoized for seven days
	v.SetDefault("cache_ttl", "168h")

	// Loans are due fourteen days after borrowing
	v.SetDefault("loan_period", "336h")

	// Maintenance defaults
	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "0 * * * *") // Hourly at :00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			JWTSecret:       v.GetString("AUTH_JWT_SECRET"),
			AccessLifetime:  v.GetDuration("AUTH_ACCESS_LIFETIME"),
			RefreshLifetime: v.GetDuration("AUTH_REFRESH_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
		},
		GoogleBooks: GoogleBooks{
			BaseURL: v.GetString("GOOGLE_BOOKS_BASE_URL"),
			Timeout: v.GetDuration("GOOGLE_BOOKS_TIMEOUT"),
		},
		Cache: Cache{
			TTL: v.GetDuration("CACHE_TTL"),
		},
		Loans: Loans{
			Period: v.GetDuration("LOAN_PERIOD"),
		},
		Maintenance: Maintenance{
			Enabled:  v.GetBool("MAINTENANCE_ENABLED"),
			Schedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
	}
}
