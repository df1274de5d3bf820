package db

import (
	"fmt"
	"log"

	"attendance_tracker_go/config"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize sets up the database connection. A Turso URL takes precedence over the
// local SQLite file, which is opened with WAL mode for concurrency.
func Initialize(cfg *config.Config) error {
	var err error

	// Determine log level based on environment
	logLevel := logger.Info
	if cfg.Environment == "production" {
		logLevel = logger.Warn
	}

	DB, err = gorm.Open(dialectorFor(cfg), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.TursoDatabaseURL != "" {
		log.Println("Database connection established (Turso)")
	} else {
		log.Println("Database connection established (WAL mode enabled)")
	}
	return nil
}

// dialectorFor picks the libsql driver for Turso URLs and the cgo SQLite driver otherwise
func dialectorFor(cfg *config.Config) gorm.Dialector {
	if cfg.TursoDatabaseURL != "" {
		dsn := cfg.TursoDatabaseURL
		if cfg.TursoAuthToken != "" {
			dsn += "?authToken=" + cfg.TursoAuthToken
		}
		return sqlite.New(sqlite.Config{
			DriverName: "libsql",
			DSN:        dsn,
		})
	}

	return sqlite.Open(cfg.DBPath + "?_journal_mode=WAL")
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	err := DB.AutoMigrate(models...)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
