package health

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/sqlite"
)

// ErrNotFound is returned when a record does not exist or belongs to another user.
var ErrNotFound = errors.NewSentinel("not found")

type sunLogRepository interface {
	// List returns all sun logs ordered newest first.
	List(ctx context.Context) ([]SunLog, error)
	Create(ctx context.Context, log SunLog) error
	Delete(ctx context.Context, id string) error
}

type nutritionRepository interface {
	// List returns all entries ordered by date and creation time, newest first.
	List(ctx context.Context) ([]NutritionEntry, error)
	Create(ctx context.Context, entry NutritionEntry) error
	Delete(ctx context.Context, id string) error
}

type profileRepository interface {
	// Get returns ErrNotFound if the user has not saved a profile.
	Get(ctx context.Context) (Profile, error)
	Put(ctx context.Context, profile Profile) error
}

type repository struct {
	sun       sunLogRepository
	nutrition nutritionRepository
	profile   profileRepository
}

type repositoryFactory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepositoryFactory(db *sqlite.Database, logger *slog.Logger) *repositoryFactory {
	return &repositoryFactory{db: db, logger: logger}
}

func (f *repositoryFactory) newRepository() *repository {
	base := baseRepository{db: f.db, logger: f.logger}
	return &repository{
		sun:       &sqliteSunLogRepository{baseRepository: base},
		nutrition: &sqliteNutritionRepository{baseRepository: base},
		profile:   &sqliteProfileRepository{baseRepository: base},
	}
}

type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// deleteOwned deletes the row with id from table if it belongs to userID.
func (r baseRepository) deleteOwned(ctx context.Context, userID int, table string, id string) error {
	result, err := r.db.ReadWrite.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE id = ? AND user_id = ?", id, userID) //nolint:gosec // table is a constant.
	if err != nil {
		return fmt.Errorf("%w: delete from %s: %w", sqlite.ErrPersistenceFailure, table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected in %s: %w", sqlite.ErrPersistenceFailure, table, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r baseRepository) closeRows(ctx context.Context, close func() error) {
	if err := close(); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "close rows", errors.SlogError(err))
	}
}
