package tacf

import "fmt"

// Thresholds holds the four ascending upper bounds for MAB, ABN, NOR and ACN.
// Anything above the last bound is MAC.
type Thresholds [4]float64

type tableKey struct {
	Exercise ExerciseKind
	Sex      Sex
	Bracket  AgeBracket
}

// thresholdTable is ICA 54-1 (2011), Annex H. Values are copied verbatim from
// the regulation and must not be interpolated. Never written after init.
var thresholdTable = map[tableKey]Thresholds{
	// Male, Cooper 12 min (meters)
	{Cooper, Male, Under30}:   {1880, 2070, 2590, 2830},
	{Cooper, Male, Age30to39}: {1800, 2040, 2490, 2720},
	{Cooper, Male, Age40to49}: {1740, 1950, 2410, 2660},
	{Cooper, Male, Age50to59}: {1550, 1810, 2270, 2540},
	{Cooper, Male, Age60Plus}: {1280, 1570, 2070, 2490},

	// Male, abdominal (reps)
	{Abdominal, Male, Under30}:   {20, 29, 41, 49},
	{Abdominal, Male, Age30to39}: {14, 22, 34, 42},
	{Abdominal, Male, Age40to49}: {9, 18, 30, 36},
	{Abdominal, Male, Age50to59}: {7, 14, 25, 34},
	{Abdominal, Male, Age60Plus}: {2, 8, 21, 26},

	// Male, push-up (reps)
	{PushUp, Male, Under30}:   {9, 17, 34, 48},
	{PushUp, Male, Age30to39}: {5, 13, 27, 36},
	{PushUp, Male, Age40to49}: {4, 9, 21, 30},
	{PushUp, Male, Age50to59}: {2, 6, 17, 28},
	{PushUp, Male, Age60Plus}: {1, 5, 16, 25},

	// Female, Cooper 12 min (meters)
	{Cooper, Female, Under30}:   {1420, 1730, 2120, 2330},
	{Cooper, Female, Age30to39}: {1410, 1640, 2060, 2240},
	{Cooper, Female, Age40to49}: {1330, 1540, 1960, 2160},
	{Cooper, Female, Age50to59}: {1280, 1450, 1850, 2090},
	{Cooper, Female, Age60Plus}: {1200, 1350, 1710, 1900},

	// Female, abdominal (reps); MAB bound is 0 from 40 up
	{Abdominal, Female, Under30}:   {11, 21, 34, 43},
	{Abdominal, Female, Age30to39}: {6, 15, 27, 34},
	{Abdominal, Female, Age40to49}: {0, 9, 23, 28},
	{Abdominal, Female, Age50to59}: {0, 4, 17, 26},
	{Abdominal, Female, Age60Plus}: {0, 3, 15, 20},

	// Female, push-up (reps); MAB bound is 0 from 50 up
	{PushUp, Female, Under30}:   {2, 10, 25, 37},
	{PushUp, Female, Age30to39}: {1, 9, 24, 36},
	{PushUp, Female, Age40to49}: {1, 6, 22, 32},
	{PushUp, Female, Age50to59}: {0, 6, 17, 30},
	{PushUp, Female, Age60Plus}: {0, 3, 15, 29},
}

// Lookup returns the thresholds for an exercise, sex and age bracket.
func Lookup(kind ExerciseKind, sex Sex, bracket AgeBracket) (Thresholds, error) {
	t, ok := thresholdTable[tableKey{kind, sex, bracket}]
	if !ok {
		return Thresholds{}, fmt.Errorf("%w: %s/%s/%s", ErrUnknownCombination, kind, sex, bracket)
	}
	return t, nil
}

// TableEntry is one row of the threshold table.
type TableEntry struct {
	Exercise   ExerciseKind `json:"exercise"`
	Sex        Sex          `json:"sex"`
	Bracket    AgeBracket   `json:"bracket"`
	Thresholds Thresholds   `json:"thresholds"`
}

// Entries returns a copy of the table ordered by exercise, sex and bracket.
func Entries() []TableEntry {
	out := make([]TableEntry, 0, len(thresholdTable))
	for _, kind := range exerciseKinds {
		for _, sex := range []Sex{Male, Female} {
			for _, b := range ageBrackets {
				if t, ok := thresholdTable[tableKey{kind, sex, b}]; ok {
					out = append(out, TableEntry{Exercise: kind, Sex: sex, Bracket: b, Thresholds: t})
				}
			}
		}
	}
	return out
}
