package storage

import (
	"context"
	"fmt"

	"github.com/claude/trackingtfm/internal/models"
	"github.com/google/uuid"
)

// InsertTFMLog stores a training session. A new ID is assigned when row.ID is zero.
func (db *DB) InsertTFMLog(ctx context.Context, row models.TFMLogRow) (*models.TFMLogRow, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	out := row
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO tfm_logs (id, user_id, training_date, perceived_intensity, exercise_id, details)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING created_at`,
		row.ID, row.UserID, row.TrainingDate, row.PerceivedIntensity, row.ExerciseID, nullJSON(row.Details),
	).Scan(&out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting tfm log: %w", err)
	}
	return &out, nil
}

// UpdateTFMLog replaces a session owned by row.UserID.
func (db *DB) UpdateTFMLog(ctx context.Context, row models.TFMLogRow) (*models.TFMLogRow, error) {
	out := row
	err := db.Pool.QueryRow(ctx,
		`UPDATE tfm_logs
		 SET training_date = $3, perceived_intensity = $4, exercise_id = $5, details = $6
		 WHERE id = $1 AND user_id = $2
		 RETURNING created_at`,
		row.ID, row.UserID, row.TrainingDate, row.PerceivedIntensity, row.ExerciseID, nullJSON(row.Details),
	).Scan(&out.CreatedAt)
	if err != nil {
		return nil, noRows(err, "updating tfm log")
	}
	return &out, nil
}

// DeleteTFMLog removes a session owned by userID.
func (db *DB) DeleteTFMLog(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM tfm_logs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting tfm log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting tfm log %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListTFMLogs returns a user's training sessions with exercise names, newest first.
func (db *DB) ListTFMLogs(ctx context.Context, userID int) ([]models.TFMLogRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT t.id, t.user_id, t.training_date, t.perceived_intensity, t.exercise_id, e.name, t.details, t.created_at
		 FROM tfm_logs t
		 JOIN exercises e ON t.exercise_id = e.id
		 WHERE t.user_id = $1
		 ORDER BY t.training_date DESC, t.created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying tfm logs: %w", err)
	}
	defer rows.Close()

	result := []models.TFMLogRow{}
	for rows.Next() {
		var r models.TFMLogRow
		var details []byte
		if err := rows.Scan(&r.ID, &r.UserID, &r.TrainingDate, &r.PerceivedIntensity, &r.ExerciseID,
			&r.ExerciseName, &details, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning tfm log: %w", err)
		}
		r.Details = details
		result = append(result, r)
	}
	return result, rows.Err()
}

// nullJSON stores an absent details object as SQL NULL rather than an empty string.
func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
