package health

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/sqlite"
)

type sqliteProfileRepository struct {
	baseRepository
}

func (r *sqliteProfileRepository) Get(ctx context.Context) (Profile, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	var (
		p         Profile
		gender    string
		age       sql.NullInt64
		height    sql.NullFloat64
		weight    sql.NullFloat64
		tdee      sql.NullInt64
		protein   sql.NullInt64
		updatedAt string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT nickname, motto, age, height_cm, weight_kg, gender, activity_factor, protein_factor,
		       tdee, protein_target_g, updated_at
		FROM profiles
		WHERE user_id = ?`, userID).Scan(&p.Nickname, &p.Motto, &age, &height, &weight, &gender,
		&p.ActivityFactor, &p.ProteinFactor, &tdee, &protein, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("%w: query profile: %w", sqlite.ErrPersistenceFailure, err)
	}
	p.Gender = Gender(gender)
	p.Age = nullInt(age)
	p.HeightCm = nullFloat(height)
	p.WeightKg = nullFloat(weight)
	p.TDEE = nullInt(tdee)
	p.ProteinTargetG = nullInt(protein)
	if p.UpdatedAt, err = sqlite.ParseTimestamp(updatedAt); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Put overwrites the whole profile document.
func (r *sqliteProfileRepository) Put(ctx context.Context, p Profile) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO profiles (user_id, nickname, motto, age, height_cm, weight_kg, gender, activity_factor,
		                      protein_factor, tdee, protein_target_g, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET nickname         = excluded.nickname,
		                                    motto            = excluded.motto,
		                                    age              = excluded.age,
		                                    height_cm        = excluded.height_cm,
		                                    weight_kg        = excluded.weight_kg,
		                                    gender           = excluded.gender,
		                                    activity_factor  = excluded.activity_factor,
		                                    protein_factor   = excluded.protein_factor,
		                                    tdee             = excluded.tdee,
		                                    protein_target_g = excluded.protein_target_g,
		                                    updated_at       = excluded.updated_at`,
		userID, p.Nickname, p.Motto, p.Age, p.HeightCm, p.WeightKg, string(p.Gender), p.ActivityFactor,
		p.ProteinFactor, p.TDEE, p.ProteinTargetG, sqlite.FormatTimestamp(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("%w: upsert profile: %w", sqlite.ErrPersistenceFailure, err)
	}
	return nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
