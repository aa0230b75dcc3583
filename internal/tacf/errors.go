package tacf

import "errors"

// Validation failures. All of them are recoverable by the caller; check with
// errors.Is since returned errors carry the offending value.
var (
	ErrInvalidDateRange   = errors.New("test date precedes birth date")
	ErrInvalidAge         = errors.New("invalid age")
	ErrUnknownCombination = errors.New("no threshold entry for combination")
	ErrMissingScore       = errors.New("score not recorded")
	ErrInvalidScore       = errors.New("invalid score")
	ErrInvalidSex         = errors.New("invalid sex")
	ErrUnknownExercise    = errors.New("unknown exercise")
)
