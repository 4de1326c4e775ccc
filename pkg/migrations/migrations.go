// Package migrations applies the versioned SQL files under migrations/.
package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type migrator interface {
	Up() error
	Close() (sourceErr error, databaseErr error)
}

var driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return sqlite3.WithInstance(db, &sqlite3.Config{MigrationsTable: cfg.MigrationsTable})
	default:
		return postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.MigrationsTable})
	}
}

var migratorFactory = func(sourceURL, databaseName string, driver database.Driver) (migrator, error) {
	return migrate.NewWithDatabaseInstance(sourceURL, databaseName, driver)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Config struct {
	Dir             string // defaults to migrations/<driver>
	Driver          string // DriverPostgres or DriverSQLite, postgres when empty
	MigrationsTable string // defaults to "schema_migrations"
	Logger          Logger
}

func (cfg *Config) applyDefaults() {
	if cfg.Driver == "" {
		cfg.Driver = DriverPostgres
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = filepath.Join("migrations", cfg.Driver)
	}
	if strings.TrimSpace(cfg.MigrationsTable) == "" {
		cfg.MigrationsTable = "schema_migrations"
	}
}

func (cfg Config) info(msg string, args ...any) {
	if cfg.Logger != nil {
		cfg.Logger.Info(msg, args...)
	}
}

func (cfg Config) warn(msg string, args ...any) {
	if cfg.Logger != nil {
		cfg.Logger.Warn(msg, args...)
	}
}

// fileSourceURL escapes the directory so paths with spaces survive.
func fileSourceURL(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// Up applies every pending migration. Cancelling ctx closes the migrator,
// which is the only interruption golang-migrate offers.
func Up(ctx context.Context, db *sql.DB, cfg Config) error {
	if db == nil {
		return fmt.Errorf("migrations: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg.applyDefaults()

	sourceURL, err := fileSourceURL(cfg.Dir)
	if err != nil {
		return fmt.Errorf("migrations: resolve dir: %w", err)
	}

	driver, err := driverFactory(db, cfg)
	if err != nil {
		return fmt.Errorf("migrations: %s driver: %w", cfg.Driver, err)
	}

	m, err := migratorFactory(sourceURL, cfg.Driver, driver)
	if err != nil {
		return fmt.Errorf("migrations: init: %w", err)
	}

	var closeOnce sync.Once
	closeMigrator := func() {
		closeOnce.Do(func() {
			srcErr, dbErr := m.Close()
			if srcErr != nil {
				cfg.warn("Migrations source close error", "error", srcErr)
			}
			if dbErr != nil {
				cfg.warn("Migrations db close error", "error", dbErr)
			}
		})
	}
	defer closeMigrator()

	cfg.info("Running SQL migrations", "source", sourceURL, "driver", cfg.Driver, "table", cfg.MigrationsTable)

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Up()
	}()

	select {
	case <-ctx.Done():
		closeMigrator()
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, migrate.ErrNoChange) {
			cfg.info("No migrations to apply")
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrations: up: %w", err)
		}
	}

	cfg.info("Migrations applied successfully")
	return nil
}
