package storage

import (
	"context"
	"fmt"

	"github.com/claude/trackingtfm/internal/models"
	"github.com/claude/trackingtfm/internal/tacf"
	"github.com/google/uuid"
)

const tacfColumns = `id, user_id, test_date, cooper_distance, abdominal_reps, pushup_reps, pullup_reps,
	cooper_grade, abdominal_grade, pushup_grade, weight_kg, height_m, waist_cm, created_at`

// InsertTACFLog stores a graded TACF session. A new ID is assigned when row.ID is zero.
func (db *DB) InsertTACFLog(ctx context.Context, row models.TACFLogRow) (*models.TACFLogRow, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	r := db.Pool.QueryRow(ctx,
		`INSERT INTO tacf_logs (id, user_id, test_date, cooper_distance, abdominal_reps, pushup_reps, pullup_reps,
		 cooper_grade, abdominal_grade, pushup_grade, weight_kg, height_m, waist_cm)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 RETURNING `+tacfColumns,
		row.ID, row.UserID, row.TestDate, row.CooperDistance, row.AbdominalReps, row.PushUpReps, row.PullUpReps,
		gradeCode(row.CooperGrade), gradeCode(row.AbdominalGrade), gradeCode(row.PushUpGrade),
		row.WeightKg, row.HeightM, row.WaistCm)
	out, err := scanTACFLog(r)
	if err != nil {
		return nil, fmt.Errorf("inserting tacf log: %w", err)
	}
	return out, nil
}

// UpdateTACFLog replaces a session owned by row.UserID.
func (db *DB) UpdateTACFLog(ctx context.Context, row models.TACFLogRow) (*models.TACFLogRow, error) {
	r := db.Pool.QueryRow(ctx,
		`UPDATE tacf_logs
		 SET test_date = $3, cooper_distance = $4, abdominal_reps = $5, pushup_reps = $6, pullup_reps = $7,
		     cooper_grade = $8, abdominal_grade = $9, pushup_grade = $10,
		     weight_kg = $11, height_m = $12, waist_cm = $13
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+tacfColumns,
		row.ID, row.UserID, row.TestDate, row.CooperDistance, row.AbdominalReps, row.PushUpReps, row.PullUpReps,
		gradeCode(row.CooperGrade), gradeCode(row.AbdominalGrade), gradeCode(row.PushUpGrade),
		row.WeightKg, row.HeightM, row.WaistCm)
	out, err := scanTACFLog(r)
	if err != nil {
		return nil, noRows(err, "updating tacf log")
	}
	return out, nil
}

// DeleteTACFLog removes a session owned by userID.
func (db *DB) DeleteTACFLog(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM tacf_logs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting tacf log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting tacf log %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListTACFLogs returns a user's sessions, newest first.
func (db *DB) ListTACFLogs(ctx context.Context, userID int) ([]models.TACFLogRow, error) {
	return db.queryTACFLogs(ctx, `SELECT `+tacfColumns+` FROM tacf_logs WHERE user_id = $1 ORDER BY test_date DESC, created_at DESC`, userID)
}

// TACFHistory returns a user's sessions oldest first, for evolution charts.
func (db *DB) TACFHistory(ctx context.Context, userID int) ([]models.TACFLogRow, error) {
	return db.queryTACFLogs(ctx, `SELECT `+tacfColumns+` FROM tacf_logs WHERE user_id = $1 ORDER BY test_date ASC, created_at ASC`, userID)
}

func (db *DB) queryTACFLogs(ctx context.Context, query string, userID int) ([]models.TACFLogRow, error) {
	rows, err := db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying tacf logs: %w", err)
	}
	defer rows.Close()

	result := []models.TACFLogRow{}
	for rows.Next() {
		row, err := scanTACFLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tacf log: %w", err)
		}
		result = append(result, *row)
	}
	return result, rows.Err()
}

func scanTACFLog(row interface{ Scan(dest ...any) error }) (*models.TACFLogRow, error) {
	var (
		r                  models.TACFLogRow
		cooper, abd, pushU *string
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.TestDate, &r.CooperDistance, &r.AbdominalReps, &r.PushUpReps, &r.PullUpReps,
		&cooper, &abd, &pushU, &r.WeightKg, &r.HeightM, &r.WaistCm, &r.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if r.CooperGrade, err = parseGradeCode(cooper); err != nil {
		return nil, err
	}
	if r.AbdominalGrade, err = parseGradeCode(abd); err != nil {
		return nil, err
	}
	if r.PushUpGrade, err = parseGradeCode(pushU); err != nil {
		return nil, err
	}
	return &r, nil
}

func gradeCode(g *tacf.Grade) *string {
	if g == nil {
		return nil
	}
	s := g.String()
	return &s
}

func parseGradeCode(s *string) (*tacf.Grade, error) {
	if s == nil {
		return nil, nil
	}
	g, err := tacf.ParseGrade(*s)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
