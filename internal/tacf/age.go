package tacf

import (
	"fmt"
	"time"
)

// AgeInYears returns the completed years between birth and asOf.
//
// Both values are reduced to their calendar dates in their own locations
// before comparing, so the time of day never shifts the result. The age
// increments on the birthday itself.
func AgeInYears(birth, asOf time.Time) (int, error) {
	by, bm, bd := birth.Date()
	ty, tm, td := asOf.Date()

	if ty < by || (ty == by && (tm < bm || (tm == bm && td < bd))) {
		return 0, fmt.Errorf("%w: birth %04d-%02d-%02d, test %04d-%02d-%02d",
			ErrInvalidDateRange, by, bm, bd, ty, tm, td)
	}

	age := ty - by
	if tm < bm || (tm == bm && td < bd) {
		age--
	}
	return age, nil
}

// BracketFor maps an age in years to its regulation bracket.
func BracketFor(age int) (AgeBracket, error) {
	switch {
	case age < 0:
		return 0, fmt.Errorf("%w: %d", ErrInvalidAge, age)
	case age <= 29:
		return Under30, nil
	case age <= 39:
		return Age30to39, nil
	case age <= 49:
		return Age40to49, nil
	case age <= 59:
		return Age50to59, nil
	default:
		return Age60Plus, nil
	}
}
