package tacf

import (
	"errors"
	"time"
)

// TestInput is one administered TACF session. Pull-ups are recorded by the
// caller but carry no grade, so they are not part of the input.
type TestInput struct {
	BirthDate time.Time
	TestDate  time.Time
	Sex       Sex
	Cooper    Score
	Abdominal Score
	PushUp    Score
}

// Assessment holds the grades for a session. A nil grade means the exercise
// was not administered.
type Assessment struct {
	Age       int        `json:"age"`
	Bracket   AgeBracket `json:"bracket"`
	Cooper    *Grade     `json:"cooper_grade"`
	Abdominal *Grade     `json:"abdominal_grade"`
	PushUp    *Grade     `json:"pushup_grade"`
}

// Assess grades every exercise in a session. Exercises without a score are
// left ungraded; any other validation failure fails the whole assessment.
func Assess(in TestInput) (Assessment, error) {
	if !in.Sex.Valid() {
		return Assessment{}, ErrInvalidSex
	}
	age, err := AgeInYears(in.BirthDate, in.TestDate)
	if err != nil {
		return Assessment{}, err
	}
	bracket, err := BracketFor(age)
	if err != nil {
		return Assessment{}, err
	}

	a := Assessment{Age: age, Bracket: bracket}
	for _, item := range []struct {
		kind  ExerciseKind
		score Score
		dst   **Grade
	}{
		{Cooper, in.Cooper, &a.Cooper},
		{Abdominal, in.Abdominal, &a.Abdominal},
		{PushUp, in.PushUp, &a.PushUp},
	} {
		g, err := Classify(item.kind, in.Sex, age, item.score)
		if errors.Is(err, ErrMissingScore) {
			continue
		}
		if err != nil {
			return Assessment{}, err
		}
		*item.dst = &g
	}
	return a, nil
}
