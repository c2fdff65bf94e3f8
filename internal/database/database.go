package database

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"playnote/backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options describes how to reach the database.
type Options struct {
	Driver string // postgres|sqlite
	DSN    string
	// LogWriter receives GORM's slow query and error log. Defaults to stdout.
	LogWriter io.Writer
	LogLevel  logger.LogLevel
}

// Open initializes the database connection.
func Open(opts Options) (*gorm.DB, error) {
	w := opts.LogWriter
	if w == nil {
		w = os.Stdout
	}
	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}

	// Configure GORM logger
	customLogger := logger.New(
		log.New(w, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch opts.Driver {
	case "postgres":
		dialector = postgres.Open(opts.DSN)
	case "sqlite":
		dialector = sqlite.Open(withForeignKeys(opts.DSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: customLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if opts.Driver == "sqlite" {
		if err := configureSQLite(db, opts.DSN); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// SQLite leaves foreign keys off per connection, and every new connection
// to ":memory:" is a fresh empty database, so memory databases get one connection.
func configureSQLite(db *gorm.DB, dsn string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	return nil
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Migrate creates or updates the games and ratings tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Game{}, &models.Rating{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
