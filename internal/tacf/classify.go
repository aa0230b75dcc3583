package tacf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Score is an optional raw result. The zero value is NoScore, meaning the
// exercise was not administered, which is distinct from ScoreOf(0).
type Score struct {
	value float64
	set   bool
}

// NoScore marks an exercise that was not performed.
var NoScore = Score{}

// ScoreOf wraps a recorded result.
func ScoreOf(v float64) Score {
	return Score{value: v, set: true}
}

// ScoreFromPtr maps a nil pointer to NoScore.
func ScoreFromPtr(v *float64) Score {
	if v == nil {
		return NoScore
	}
	return ScoreOf(*v)
}

// Value returns the recorded result and whether one exists.
func (s Score) Value() (float64, bool) {
	return s.value, s.set
}

// Ptr is the inverse of ScoreFromPtr.
func (s Score) Ptr() *float64 {
	if !s.set {
		return nil
	}
	v := s.value
	return &v
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

func (s *Score) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = NoScore
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidScore, b)
	}
	*s = ScoreOf(v)
	return nil
}

// Classify grades a raw result for the given exercise, sex and age.
//
// Each threshold is an inclusive upper bound: a score equal to a bound gets
// the lower grade.
func Classify(kind ExerciseKind, sex Sex, age int, score Score) (Grade, error) {
	v, ok := score.Value()
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingScore, kind)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %s = %v", ErrInvalidScore, kind, v)
	}

	bracket, err := BracketFor(age)
	if err != nil {
		return 0, err
	}
	t, err := Lookup(kind, sex, bracket)
	if err != nil {
		return 0, err
	}
	return t.grade(v), nil
}

func (t Thresholds) grade(v float64) Grade {
	switch {
	case v <= t[0]:
		return BelowMinimum
	case v <= t[1]:
		return BelowAverage
	case v <= t[2]:
		return Average
	case v <= t[3]:
		return AboveAverage
	default:
		return WellAboveAverage
	}
}
