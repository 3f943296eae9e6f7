package health

import (
	"context"
	"fmt"

	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/sqlite"
)

type sqliteNutritionRepository struct {
	baseRepository
}

func (r *sqliteNutritionRepository) List(ctx context.Context) ([]NutritionEntry, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, date, name, protein_grams, calories, created_at
		FROM nutrition_entries
		WHERE user_id = ?
		ORDER BY date DESC, created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: query nutrition entries: %w", sqlite.ErrPersistenceFailure, err)
	}
	defer r.closeRows(ctx, rows.Close)

	entries := make([]NutritionEntry, 0)
	for rows.Next() {
		var (
			e         NutritionEntry
			createdAt string
		)
		if err = rows.Scan(&e.ID, &e.Date, &e.Name, &e.ProteinGrams, &e.Calories, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan nutrition entry: %w", sqlite.ErrPersistenceFailure, err)
		}
		if e.CreatedAt, err = sqlite.ParseTimestamp(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate nutrition entries: %w", sqlite.ErrPersistenceFailure, err)
	}
	return entries, nil
}

func (r *sqliteNutritionRepository) Create(ctx context.Context, e NutritionEntry) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO nutrition_entries (id, user_id, date, name, protein_grams, calories, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, userID, e.Date, e.Name, e.ProteinGrams, e.Calories, sqlite.FormatTimestamp(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("%w: insert nutrition entry: %w", sqlite.ErrPersistenceFailure, err)
	}
	return nil
}

func (r *sqliteNutritionRepository) Delete(ctx context.Context, id string) error {
	return r.deleteOwned(ctx, contexthelpers.AuthenticatedUserID(ctx), "nutrition_entries", id)
}
