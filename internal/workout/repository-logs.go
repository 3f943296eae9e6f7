package workout

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/sqlite"
)

// sqliteLogRepository implements logRepository. Exercises are stored as a JSON snapshot.
type sqliteLogRepository struct {
	baseRepository
}

func newSQLiteLogRepository(db *sqlite.Database, logger *slog.Logger) *sqliteLogRepository {
	return &sqliteLogRepository{
		baseRepository: newBaseRepository(db, logger),
	}
}

func (r *sqliteLogRepository) List(ctx context.Context) (_ []Log, err error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, title, weekday, week_label, exercises, created_at
		FROM workout_logs
		WHERE user_id = ?
		ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: query workout logs: %w", sqlite.ErrPersistenceFailure, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "close rows", errors.SlogError(closeErr))
		}
	}()

	logs := make([]Log, 0)
	for rows.Next() {
		var log Log
		if log, err = scanLog(rows); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate workout logs: %w", sqlite.ErrPersistenceFailure, err)
	}
	return logs, nil
}

func (r *sqliteLogRepository) Get(ctx context.Context, id string) (Log, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, title, weekday, week_label, exercises, created_at
		FROM workout_logs
		WHERE id = ? AND user_id = ?`, id, userID)
	log, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Log{}, ErrNotFound
	}
	if err != nil {
		return Log{}, err
	}
	return log, nil
}

func (r *sqliteLogRepository) Create(ctx context.Context, log Log) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	exercises, err := json.Marshal(log.Exercises)
	if err != nil {
		return fmt.Errorf("marshal exercises: %w", err)
	}
	_, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO workout_logs (id, user_id, title, weekday, week_label, exercises, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		log.ID, userID, log.Title, string(log.Weekday), log.WeekLabel, string(exercises),
		sqlite.FormatTimestamp(log.CreatedAt))
	if err != nil {
		return fmt.Errorf("%w: insert workout log: %w", sqlite.ErrPersistenceFailure, err)
	}
	return nil
}

func (r *sqliteLogRepository) Delete(ctx context.Context, id string) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx,
		`DELETE FROM workout_logs WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("%w: delete workout log: %w", sqlite.ErrPersistenceFailure, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %w", sqlite.ErrPersistenceFailure, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (Log, error) {
	var (
		log       Log
		weekday   string
		exercises string
		createdAt string
	)
	if err := row.Scan(&log.ID, &log.Title, &weekday, &log.WeekLabel, &exercises, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Log{}, err
		}
		return Log{}, fmt.Errorf("%w: scan workout log: %w", sqlite.ErrPersistenceFailure, err)
	}
	log.Weekday = Weekday(weekday)
	if err := json.Unmarshal([]byte(exercises), &log.Exercises); err != nil {
		return Log{}, fmt.Errorf("unmarshal exercises of log %s: %w", log.ID, err)
	}
	var err error
	if log.CreatedAt, err = sqlite.ParseTimestamp(createdAt); err != nil {
		return Log{}, err
	}
	return log, nil
}
