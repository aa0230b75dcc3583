// Package tacf grades TACF physical-fitness test results.
//
// A raw result (Cooper distance in meters or a repetition count) is mapped to
// one of five mentions using the regulation tables for the subject's sex and
// age bracket. Everything in this package is a pure function over value types;
// it performs no I/O and keeps no mutable state.
package tacf

import (
	"fmt"
	"strings"
)

// ExerciseKind identifies a graded TACF exercise.
type ExerciseKind int

const (
	Cooper ExerciseKind = iota + 1
	Abdominal
	PushUp
)

// exerciseKinds lists every graded exercise in display order.
var exerciseKinds = []ExerciseKind{Cooper, Abdominal, PushUp}

func (k ExerciseKind) String() string {
	switch k {
	case Cooper:
		return "cooper"
	case Abdominal:
		return "abdominal"
	case PushUp:
		return "pushup"
	}
	return fmt.Sprintf("ExerciseKind(%d)", int(k))
}

// Valid reports whether k is one of the defined exercises.
func (k ExerciseKind) Valid() bool {
	return k >= Cooper && k <= PushUp
}

// ParseExerciseKind accepts the canonical names plus the Portuguese "flexao".
func ParseExerciseKind(s string) (ExerciseKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cooper":
		return Cooper, nil
	case "abdominal":
		return Abdominal, nil
	case "pushup", "push_up", "push-up", "flexao":
		return PushUp, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownExercise, s)
}

func (k ExerciseKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownExercise, int(k))
	}
	return []byte(k.String()), nil
}

func (k *ExerciseKind) UnmarshalText(b []byte) error {
	parsed, err := ParseExerciseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Sex selects the table partition. The zero value is not a valid sex.
type Sex int

const (
	Male Sex = iota + 1
	Female
)

func (s Sex) String() string {
	switch s {
	case Male:
		return "M"
	case Female:
		return "F"
	}
	return fmt.Sprintf("Sex(%d)", int(s))
}

// Valid reports whether s is Male or Female.
func (s Sex) Valid() bool {
	return s == Male || s == Female
}

// ParseSex accepts "M"/"F", "Masculino"/"Feminino" and "male"/"female",
// case-insensitively. Anything else is rejected.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "masculino", "male":
		return Male, nil
	case "f", "feminino", "female":
		return Female, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSex, s)
}

func (s Sex) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSex, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Sex) UnmarshalText(b []byte) error {
	parsed, err := ParseSex(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AgeBracket is one of the five regulation age ranges.
type AgeBracket int

const (
	Under30 AgeBracket = iota + 1
	Age30to39
	Age40to49
	Age50to59
	Age60Plus
)

// ageBrackets lists the brackets from youngest to oldest.
var ageBrackets = []AgeBracket{Under30, Age30to39, Age40to49, Age50to59, Age60Plus}

func (b AgeBracket) String() string {
	switch b {
	case Under30:
		return "<=29"
	case Age30to39:
		return "30-39"
	case Age40to49:
		return "40-49"
	case Age50to59:
		return "50-59"
	case Age60Plus:
		return ">=60"
	}
	return fmt.Sprintf("AgeBracket(%d)", int(b))
}

func (b AgeBracket) MarshalText() ([]byte, error) {
	if b < Under30 || b > Age60Plus {
		return nil, fmt.Errorf("invalid age bracket %d", int(b))
	}
	return []byte(b.String()), nil
}

// Grade is a TACF mention, ordered from worst to best so grades compare with <.
type Grade int

const (
	BelowMinimum Grade = iota + 1
	BelowAverage
	Average
	AboveAverage
	WellAboveAverage
)

var gradeCodes = map[Grade]string{
	BelowMinimum:     "MAB",
	BelowAverage:     "ABN",
	Average:          "NOR",
	AboveAverage:     "ACN",
	WellAboveAverage: "MAC",
}

// String returns the short mention code (MAB, ABN, NOR, ACN, MAC).
func (g Grade) String() string {
	if code, ok := gradeCodes[g]; ok {
		return code
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// ParseGrade converts a mention code back to a Grade.
func ParseGrade(code string) (Grade, error) {
	want := strings.ToUpper(strings.TrimSpace(code))
	for g, c := range gradeCodes {
		if c == want {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unknown grade code %q", code)
}

// MarshalText encodes the grade as its mention code.
func (g Grade) MarshalText() ([]byte, error) {
	code, ok := gradeCodes[g]
	if !ok {
		return nil, fmt.Errorf("invalid grade %d", int(g))
	}
	return []byte(code), nil
}

// UnmarshalText decodes a mention code.
func (g *Grade) UnmarshalText(b []byte) error {
	parsed, err := ParseGrade(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
