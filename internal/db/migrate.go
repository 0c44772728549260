package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// defaultMigrationsDir is resolved relative to the working directory when no
// explicit directory is given.
const defaultMigrationsDir = "internal/db/migrations"

func newMigrator(db *sql.DB, migrationsDir string) (*migrate.Migrate, error) {
	if migrationsDir == "" {
		workDir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		migrationsDir = filepath.Join(workDir, defaultMigrationsDir)
	}

	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("migrations directory not found: %s", absPath)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+absPath, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies all pending migrations from migrationsDir against
// the given SQLite connection. A database already at the latest version is
// not an error.
func RunMigrations(ctx context.Context, db *sql.DB, migrationsDir string) error {
	m, err := newMigrator(db, migrationsDir)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrationVersion reports the currently applied migration version and
// whether the last migration left the database dirty. A database with no
// applied migrations returns (0, false, nil).
func MigrationVersion(ctx context.Context, db *sql.DB, migrationsDir string) (uint, bool, error) {
	m, err := newMigrator(db, migrationsDir)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, dirty, nil
}
