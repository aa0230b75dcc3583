package storage

import (
	"context"
	"fmt"
)

// StatsFilter narrows manager statistics. Nil fields mean "all".
type StatsFilter struct {
	OrganizationID *int
	Sex            *string
}

// UnitStats aggregates TACF and TFM data for the manager dashboard.
type UnitStats struct {
	TotalUsers         int64                       `json:"total_users"`
	TrainingByExercise []NamedCount                `json:"training_by_exercise"`
	TrainingByOrg      []NamedCount                `json:"training_by_organization"`
	TACFAverages       TACFAverages                `json:"tacf_averages"`
	GradeDistribution  map[string]map[string]int64 `json:"grade_distribution"`
	TotalTFM           int64                       `json:"total_tfm"`
	AvgPerceivedEffort *float64                    `json:"avg_perceived_intensity"`
}

// NamedCount is a label with a row count.
type NamedCount struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

// TACFAverages holds mean TACF results and anthropometrics. BMI is only
// averaged over sessions with a recorded height.
type TACFAverages struct {
	Cooper    *float64 `json:"cooper"`
	Abdominal *float64 `json:"abdominal"`
	PushUp    *float64 `json:"pushup"`
	PullUp    *float64 `json:"pullup"`
	WeightKg  *float64 `json:"weight_kg"`
	WaistCm   *float64 `json:"waist_cm"`
	BMI       *float64 `json:"bmi"`
}

const userFilter = `($1::int IS NULL OR u.organization_id = $1::int)
	AND ($2::text IS NULL OR u.sex = $2::text)`

// GetUnitStats returns dashboard aggregates. The per-organization training
// counts ignore the filter so every organization of the group is compared.
func (db *DB) GetUnitStats(ctx context.Context, f StatsFilter, group string) (*UnitStats, error) {
	stats := &UnitStats{GradeDistribution: map[string]map[string]int64{}}
	args := []any{f.OrganizationID, f.Sex}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users u WHERE `+userFilter+` AND u.access_level = 'usuario'`, args...,
	).Scan(&stats.TotalUsers)
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}

	stats.TrainingByExercise, err = db.namedCounts(ctx,
		`SELECT e.name, COUNT(t.id) AS total
		 FROM tfm_logs t
		 JOIN exercises e ON t.exercise_id = e.id
		 JOIN users u ON t.user_id = u.id
		 WHERE `+userFilter+`
		 GROUP BY e.name
		 ORDER BY total DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("counting training by exercise: %w", err)
	}

	stats.TrainingByOrg, err = db.namedCounts(ctx,
		`SELECT o.acronym, COUNT(t.id) AS total
		 FROM tfm_logs t
		 JOIN users u ON t.user_id = u.id
		 JOIN organizations o ON u.organization_id = o.id
		 WHERE o.grp = $1
		 GROUP BY o.acronym
		 ORDER BY total DESC`, group)
	if err != nil {
		return nil, fmt.Errorf("counting training by organization: %w", err)
	}

	a := &stats.TACFAverages
	err = db.Pool.QueryRow(ctx,
		`SELECT AVG(t.cooper_distance)::float8, AVG(t.abdominal_reps)::float8, AVG(t.pushup_reps)::float8,
		        AVG(t.pullup_reps)::float8, AVG(t.weight_kg)::float8, AVG(t.waist_cm)::float8,
		        AVG(CASE WHEN t.height_m > 0 THEN t.weight_kg / (t.height_m * t.height_m) END)::float8
		 FROM tacf_logs t
		 JOIN users u ON t.user_id = u.id
		 WHERE `+userFilter, args...,
	).Scan(&a.Cooper, &a.Abdominal, &a.PushUp, &a.PullUp, &a.WeightKg, &a.WaistCm, &a.BMI)
	if err != nil {
		return nil, fmt.Errorf("averaging tacf results: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT exercise, grade, COUNT(*) FROM (
			SELECT 'cooper' AS exercise, t.cooper_grade AS grade FROM tacf_logs t JOIN users u ON t.user_id = u.id
			 WHERE t.cooper_grade IS NOT NULL AND `+userFilter+`
			UNION ALL
			SELECT 'abdominal', t.abdominal_grade FROM tacf_logs t JOIN users u ON t.user_id = u.id
			 WHERE t.abdominal_grade IS NOT NULL AND `+userFilter+`
			UNION ALL
			SELECT 'pushup', t.pushup_grade FROM tacf_logs t JOIN users u ON t.user_id = u.id
			 WHERE t.pushup_grade IS NOT NULL AND `+userFilter+`
		 ) g
		 GROUP BY exercise, grade`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying grade distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var exercise, grade string
		var n int64
		if err := rows.Scan(&exercise, &grade, &n); err != nil {
			return nil, fmt.Errorf("scanning grade distribution: %w", err)
		}
		if stats.GradeDistribution[exercise] == nil {
			stats.GradeDistribution[exercise] = map[string]int64{}
		}
		stats.GradeDistribution[exercise][grade] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(t.id), AVG(t.perceived_intensity)::float8
		 FROM tfm_logs t
		 JOIN users u ON t.user_id = u.id
		 WHERE `+userFilter, args...,
	).Scan(&stats.TotalTFM, &stats.AvgPerceivedEffort)
	if err != nil {
		return nil, fmt.Errorf("counting tfm logs: %w", err)
	}

	return stats, nil
}

func (db *DB) namedCounts(ctx context.Context, query string, args ...any) ([]NamedCount, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []NamedCount{}
	for rows.Next() {
		var c NamedCount
		if err := rows.Scan(&c.Name, &c.Total); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
