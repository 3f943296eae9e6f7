package health

import (
	"context"
	"fmt"

	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/sqlite"
)

type sqliteSunLogRepository struct {
	baseRepository
}

func (r *sqliteSunLogRepository) List(ctx context.Context) ([]SunLog, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, created_at FROM sun_logs WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: query sun logs: %w", sqlite.ErrPersistenceFailure, err)
	}
	defer r.closeRows(ctx, rows.Close)

	logs := make([]SunLog, 0)
	for rows.Next() {
		var (
			log       SunLog
			createdAt string
		)
		if err = rows.Scan(&log.ID, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan sun log: %w", sqlite.ErrPersistenceFailure, err)
		}
		if log.CreatedAt, err = sqlite.ParseTimestamp(createdAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate sun logs: %w", sqlite.ErrPersistenceFailure, err)
	}
	return logs, nil
}

func (r *sqliteSunLogRepository) Create(ctx context.Context, log SunLog) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	_, err := r.db.ReadWrite.ExecContext(ctx,
		`INSERT INTO sun_logs (id, user_id, created_at) VALUES (?, ?, ?)`,
		log.ID, userID, sqlite.FormatTimestamp(log.CreatedAt))
	if err != nil {
		return fmt.Errorf("%w: insert sun log: %w", sqlite.ErrPersistenceFailure, err)
	}
	return nil
}

func (r *sqliteSunLogRepository) Delete(ctx context.Context, id string) error {
	return r.deleteOwned(ctx, contexthelpers.AuthenticatedUserID(ctx), "sun_logs", id)
}
