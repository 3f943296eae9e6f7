package workout

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/sqlite"
)

// sqliteDraftRepository implements draftRepository with one row per user and weekday.
type sqliteDraftRepository struct {
	baseRepository
	now func() time.Time
}

func newSQLiteDraftRepository(db *sqlite.Database, logger *slog.Logger) *sqliteDraftRepository {
	return &sqliteDraftRepository{
		baseRepository: newBaseRepository(db, logger),
		now:            time.Now,
	}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *sqliteDraftRepository) Get(ctx context.Context) (DraftStore, error) {
	return r.load(ctx, r.db.ReadOnly, contexthelpers.AuthenticatedUserID(ctx))
}

func (r *sqliteDraftRepository) Update(
	ctx context.Context,
	updateFn func(store *DraftStore) (bool, error),
) (DraftStore, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return DraftStore{}, fmt.Errorf("%w: begin transaction: %w", sqlite.ErrPersistenceFailure, err)
	}
	defer r.db.Rollback(ctx, tx)()

	store, err := r.load(ctx, tx, userID)
	if err != nil {
		return DraftStore{}, err
	}
	updated, err := updateFn(&store)
	if err != nil {
		return DraftStore{}, err
	}
	if !updated {
		return store, nil
	}

	updatedAt := sqlite.FormatTimestamp(r.now())
	for _, day := range Weekdays() {
		d, ok := store.Drafts[day]
		if !ok {
			continue
		}
		exercises, marshalErr := json.Marshal(d.Exercises)
		if marshalErr != nil {
			return DraftStore{}, fmt.Errorf("marshal exercises of %s: %w", day, marshalErr)
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO drafts (user_id, weekday, title, week_label, exercises, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, weekday) DO UPDATE SET title      = excluded.title,
			                                             week_label = excluded.week_label,
			                                             exercises  = excluded.exercises,
			                                             updated_at = excluded.updated_at`,
			userID, string(day), d.Title, d.WeekLabel, string(exercises), updatedAt); err != nil {
			return DraftStore{}, fmt.Errorf("%w: upsert draft %s: %w", sqlite.ErrPersistenceFailure, day, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return DraftStore{}, fmt.Errorf("%w: commit drafts: %w", sqlite.ErrPersistenceFailure, err)
	}
	return store, nil
}

// load seeds every weekday and overlays the stored drafts.
func (r *sqliteDraftRepository) load(ctx context.Context, q queryer, userID int) (_ DraftStore, err error) {
	rows, err := q.QueryContext(ctx, `
		SELECT weekday, title, week_label, exercises
		FROM drafts
		WHERE user_id = ?`, userID)
	if err != nil {
		return DraftStore{}, fmt.Errorf("%w: query drafts: %w", sqlite.ErrPersistenceFailure, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "close rows", errors.SlogError(closeErr))
		}
	}()

	store := NewDraftStore()
	for rows.Next() {
		var (
			d         Draft
			weekday   string
			exercises string
		)
		if err = rows.Scan(&weekday, &d.Title, &d.WeekLabel, &exercises); err != nil {
			return DraftStore{}, fmt.Errorf("%w: scan draft: %w", sqlite.ErrPersistenceFailure, err)
		}
		day, ok := ParseWeekday(weekday)
		if !ok {
			return DraftStore{}, fmt.Errorf("%w: %q", ErrUnknownWeekday, weekday)
		}
		d.Weekday = day
		if err = json.Unmarshal([]byte(exercises), &d.Exercises); err != nil {
			return DraftStore{}, fmt.Errorf("unmarshal exercises of draft %s: %w", day, err)
		}
		store.Drafts[day] = d
	}
	if err = rows.Err(); err != nil {
		return DraftStore{}, fmt.Errorf("%w: iterate drafts: %w", sqlite.ErrPersistenceFailure, err)
	}
	return store, nil
}

// sqlitePendingPlanRepository implements pendingPlanRepository.
type sqlitePendingPlanRepository struct {
	baseRepository
}

func newSQLitePendingPlanRepository(db *sqlite.Database, logger *slog.Logger) *sqlitePendingPlanRepository {
	return &sqlitePendingPlanRepository{
		baseRepository: newBaseRepository(db, logger),
	}
}

func (r *sqlitePendingPlanRepository) Get(ctx context.Context) (PendingPlan, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	var (
		p         PendingPlan
		plan      string
		createdAt string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT plan, difficulty, created_at
		FROM pending_plans
		WHERE user_id = ?`, userID).Scan(&plan, &p.Difficulty, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return PendingPlan{}, ErrNotFound
	}
	if err != nil {
		return PendingPlan{}, fmt.Errorf("%w: query pending plan: %w", sqlite.ErrPersistenceFailure, err)
	}
	if err = json.Unmarshal([]byte(plan), &p.Plan); err != nil {
		return PendingPlan{}, fmt.Errorf("unmarshal pending plan: %w", err)
	}
	if p.CreatedAt, err = sqlite.ParseTimestamp(createdAt); err != nil {
		return PendingPlan{}, err
	}
	return p, nil
}

// Put replaces the pending plan of the user.
func (r *sqlitePendingPlanRepository) Put(ctx context.Context, p PendingPlan) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	plan, err := json.Marshal(p.Plan)
	if err != nil {
		return fmt.Errorf("marshal pending plan: %w", err)
	}
	_, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO pending_plans (user_id, plan, difficulty, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET plan       = excluded.plan,
		                                    difficulty = excluded.difficulty,
		                                    created_at = excluded.created_at`,
		userID, string(plan), p.Difficulty, sqlite.FormatTimestamp(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("%w: upsert pending plan: %w", sqlite.ErrPersistenceFailure, err)
	}
	return nil
}

// Delete removes the pending plan. Deleting a missing plan is not an error.
func (r *sqlitePendingPlanRepository) Delete(ctx context.Context) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	if _, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM pending_plans WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("%w: delete pending plan: %w", sqlite.ErrPersistenceFailure, err)
	}
	return nil
}
