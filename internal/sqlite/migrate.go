package sqlite

import (
	"context"
	"embed"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/myrjola/homegym/internal/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrate applies all pending up migrations from the embedded migrations directory.
func (db *Database) migrate(ctx context.Context) error {
	start := time.Now()

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "open migration source")
	}
	// The migrator is never closed because closing its database driver would close db.ReadWrite.
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelWarn, "close migration source", errors.SlogError(closeErr))
		}
	}()

	driver, err := migratesqlite.WithInstance(db.ReadWrite, &migratesqlite.Config{}) //nolint:exhaustruct // defaults.
	if err != nil {
		return errors.Wrap(err, "create migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return errors.Wrap(err, "create migrator")
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "run migrations")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return errors.Wrap(err, "read schema version")
	}
	if dirty {
		return errors.New("schema is dirty", slog.Uint64("version", uint64(version)))
	}
	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrated database",
		slog.Uint64("version", uint64(version)), slog.Duration("duration", time.Since(start)))
	return nil
}
