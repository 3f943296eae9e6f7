package workout

import (
	"context"
	"log/slog"

	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/sqlite"
)

// ErrNotFound is returned when a log or pending plan does not exist or belongs to another user.
var ErrNotFound = errors.NewSentinel("not found")

// logRepository persists committed workouts of the user bound to the context.
type logRepository interface {
	// List returns all logs ordered newest first.
	List(ctx context.Context) ([]Log, error)
	Get(ctx context.Context, id string) (Log, error)
	Create(ctx context.Context, log Log) error
	Delete(ctx context.Context, id string) error
}

// draftRepository persists the seven drafts of the user bound to the context.
type draftRepository interface {
	// Get returns the stored drafts. Weekdays never saved come back seeded.
	Get(ctx context.Context) (DraftStore, error)
	// Update runs updateFn on the current drafts inside a transaction and saves them when updateFn reports a
	// change. It returns the resulting store.
	Update(ctx context.Context, updateFn func(store *DraftStore) (bool, error)) (DraftStore, error)
}

// pendingPlanRepository holds at most one generated plan per user awaiting review.
type pendingPlanRepository interface {
	Get(ctx context.Context) (PendingPlan, error)
	Put(ctx context.Context, p PendingPlan) error
	Delete(ctx context.Context) error
}

type repository struct {
	logs   logRepository
	drafts draftRepository
	plans  pendingPlanRepository
}

type repositoryFactory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepositoryFactory(db *sqlite.Database, logger *slog.Logger) *repositoryFactory {
	return &repositoryFactory{db: db, logger: logger}
}

func (f *repositoryFactory) newRepository() *repository {
	return &repository{
		logs:   newSQLiteLogRepository(f.db, f.logger),
		drafts: newSQLiteDraftRepository(f.db, f.logger),
		plans:  newSQLitePendingPlanRepository(f.db, f.logger),
	}
}

type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{db: db, logger: logger}
}
