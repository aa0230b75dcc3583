package models

import (
	"encoding/json"
	"time"

	"github.com/claude/trackingtfm/internal/tacf"
	"github.com/google/uuid"
)

// Access levels carried in the auth token.
const (
	AccessUser    = "usuario"
	AccessManager = "gerencial"
)

// SexLabel is how sex is stored on the user profile.
func SexLabel(s tacf.Sex) string {
	if s == tacf.Female {
		return "Feminino"
	}
	return "Masculino"
}

// User is a row of the users table, without the password hash.
type User struct {
	ID             int        `json:"id"`
	SARAM          string     `json:"saram"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Rank           *string    `json:"rank"`
	BirthDate      *time.Time `json:"birth_date"`
	Sex            *string    `json:"sex"`
	OrganizationID *int       `json:"organization_id"`
	AccessLevel    string     `json:"access_level"`
}

// UserUpdate holds the profile fields a user may change themselves.
type UserUpdate struct {
	Name           string
	Rank           *string
	BirthDate      *time.Time
	Sex            *string
	OrganizationID *int
}

// TACFLogRow is a row of the tacf_logs table. Grades are nil when the
// exercise was not administered.
type TACFLogRow struct {
	ID             uuid.UUID   `json:"id"`
	UserID         int         `json:"user_id"`
	TestDate       time.Time   `json:"test_date"`
	CooperDistance *int        `json:"cooper_distance"`
	AbdominalReps  *int        `json:"abdominal_reps"`
	PushUpReps     *int        `json:"pushup_reps"`
	PullUpReps     *int        `json:"pullup_reps"`
	CooperGrade    *tacf.Grade `json:"cooper_grade"`
	AbdominalGrade *tacf.Grade `json:"abdominal_grade"`
	PushUpGrade    *tacf.Grade `json:"pushup_grade"`
	WeightKg       *float64    `json:"weight_kg"`
	HeightM        *float64    `json:"height_m"`
	WaistCm        *float64    `json:"waist_cm"`
	CreatedAt      time.Time   `json:"created_at"`
}

// TFMLogRow is a row of the tfm_logs table joined with its exercise name.
type TFMLogRow struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             int             `json:"user_id"`
	TrainingDate       time.Time       `json:"training_date"`
	PerceivedIntensity *int            `json:"perceived_intensity"`
	ExerciseID         int             `json:"exercise_id"`
	ExerciseName       string          `json:"exercise_name,omitempty"`
	Details            json.RawMessage `json:"details"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Organization is a military organization (OM).
type Organization struct {
	ID      int    `json:"id"`
	Acronym string `json:"acronym"`
	Name    string `json:"name"`
}

// Exercise is a TFM exercise type with the detail fields the client asks for.
type Exercise struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	RequiredFields json.RawMessage `json:"required_fields"`
}
