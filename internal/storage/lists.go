package storage

import (
	"context"
	"fmt"

	"github.com/claude/trackingtfm/internal/models"
)

// ListOrganizations returns the organizations of one group, ordered by acronym.
func (db *DB) ListOrganizations(ctx context.Context, group string) ([]models.Organization, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, acronym, name FROM organizations WHERE grp = $1 ORDER BY acronym`, group)
	if err != nil {
		return nil, fmt.Errorf("querying organizations: %w", err)
	}
	defer rows.Close()

	result := []models.Organization{}
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(&o.ID, &o.Acronym, &o.Name); err != nil {
			return nil, fmt.Errorf("scanning organization: %w", err)
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

// ListExercises returns every TFM exercise type.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, name, required_fields FROM exercises ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	result := []models.Exercise{}
	for rows.Next() {
		var e models.Exercise
		var fields []byte
		if err := rows.Scan(&e.ID, &e.Name, &fields); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		e.RequiredFields = fields
		result = append(result, e)
	}
	return result, rows.Err()
}
