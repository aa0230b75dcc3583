package tacf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTableComplete verifies every exercise, sex and bracket has a row.
func TestTableComplete(t *testing.T) {
	assert.Len(t, thresholdTable, 30)
	for _, kind := range exerciseKinds {
		for _, sex := range []Sex{Male, Female} {
			for _, b := range ageBrackets {
				_, err := Lookup(kind, sex, b)
				assert.NoError(t, err, "%s/%s/%s", kind, sex, b)
			}
		}
	}
}

// TestTableMonotonic verifies the four bounds of each row never decrease.
func TestTableMonotonic(t *testing.T) {
	for key, th := range thresholdTable {
		for i := 1; i < len(th); i++ {
			assert.LessOrEqual(t, th[i-1], th[i], "%s/%s/%s bound %d", key.Exercise, key.Sex, key.Bracket, i)
		}
	}
}

// TestTableValues pins every row against ICA 54-1 Annex H so an accidental
// edit to any single bound shows up as a failure.
func TestTableValues(t *testing.T) {
	cases := []struct {
		kind    ExerciseKind
		sex     Sex
		bracket AgeBracket
		want    Thresholds
	}{
		{Cooper, Male, Under30, Thresholds{1880, 2070, 2590, 2830}},
		{Cooper, Male, Age30to39, Thresholds{1800, 2040, 2490, 2720}},
		{Cooper, Male, Age40to49, Thresholds{1740, 1950, 2410, 2660}},
		{Cooper, Male, Age50to59, Thresholds{1550, 1810, 2270, 2540}},
		{Cooper, Male, Age60Plus, Thresholds{1280, 1570, 2070, 2490}},

		{Abdominal, Male, Under30, Thresholds{20, 29, 41, 49}},
		{Abdominal, Male, Age30to39, Thresholds{14, 22, 34, 42}},
		{Abdominal, Male, Age40to49, Thresholds{9, 18, 30, 36}},
		{Abdominal, Male, Age50to59, Thresholds{7, 14, 25, 34}},
		{Abdominal, Male, Age60Plus, Thresholds{2, 8, 21, 26}},

		{PushUp, Male, Under30, Thresholds{9, 17, 34, 48}},
		{PushUp, Male, Age30to39, Thresholds{5, 13, 27, 36}},
		{PushUp, Male, Age40to49, Thresholds{4, 9, 21, 30}},
		{PushUp, Male, Age50to59, Thresholds{2, 6, 17, 28}},
		{PushUp, Male, Age60Plus, Thresholds{1, 5, 16, 25}},

		{Cooper, Female, Under30, Thresholds{1420, 1730, 2120, 2330}},
		{Cooper, Female, Age30to39, Thresholds{1410, 1640, 2060, 2240}},
		{Cooper, Female, Age40to49, Thresholds{1330, 1540, 1960, 2160}},
		{Cooper, Female, Age50to59, Thresholds{1280, 1450, 1850, 2090}},
		{Cooper, Female, Age60Plus, Thresholds{1200, 1350, 1710, 1900}},

		{Abdominal, Female, Under30, Thresholds{11, 21, 34, 43}},
		{Abdominal, Female, Age30to39, Thresholds{6, 15, 27, 34}},
		{Abdominal, Female, Age40to49, Thresholds{0, 9, 23, 28}},
		{Abdominal, Female, Age50to59, Thresholds{0, 4, 17, 26}},
		{Abdominal, Female, Age60Plus, Thresholds{0, 3, 15, 20}},

		{PushUp, Female, Under30, Thresholds{2, 10, 25, 37}},
		{PushUp, Female, Age30to39, Thresholds{1, 9, 24, 36}},
		{PushUp, Female, Age40to49, Thresholds{1, 6, 22, 32}},
		{PushUp, Female, Age50to59, Thresholds{0, 6, 17, 30}},
		{PushUp, Female, Age60Plus, Thresholds{0, 3, 15, 29}},
	}
	require.Len(t, cases, len(thresholdTable), "every table row must be pinned")

	seen := make(map[tableKey]bool)
	for _, tc := range cases {
		key := tableKey{tc.kind, tc.sex, tc.bracket}
		require.False(t, seen[key], "duplicate case %s/%s/%s", tc.kind, tc.sex, tc.bracket)
		seen[key] = true

		got, err := Lookup(tc.kind, tc.sex, tc.bracket)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s/%s/%s", tc.kind, tc.sex, tc.bracket)
	}
}

// TestEntriesIsACopy verifies callers cannot change the table through the
// slice Entries returns.
func TestEntriesIsACopy(t *testing.T) {
	entries := Entries()
	entries[0].Thresholds[0] = 9999
	entries[0].Bracket = Age60Plus

	got, err := Lookup(Cooper, Male, Under30)
	require.NoError(t, err)
	assert.Equal(t, Thresholds{1880, 2070, 2590, 2830}, got)
	assert.Equal(t, Under30, Entries()[0].Bracket)
}

// TestLookupUnknownCombination verifies out-of-range keys are rejected.
func TestLookupUnknownCombination(t *testing.T) {
	_, err := Lookup(ExerciseKind(0), Male, Under30)
	assert.ErrorIs(t, err, ErrUnknownCombination)

	_, err = Lookup(Cooper, Sex(0), Under30)
	assert.ErrorIs(t, err, ErrUnknownCombination)

	_, err = Lookup(Cooper, Male, AgeBracket(99))
	assert.ErrorIs(t, err, ErrUnknownCombination)
}

// TestEntriesOrdered verifies rows come out by exercise, sex and bracket.
func TestEntriesOrdered(t *testing.T) {
	entries := Entries()
	require.Len(t, entries, 30)
	assert.Equal(t, Cooper, entries[0].Exercise)
	assert.Equal(t, Male, entries[0].Sex)
	assert.Equal(t, Under30, entries[0].Bracket)
	assert.Equal(t, PushUp, entries[29].Exercise)
	assert.Equal(t, Female, entries[29].Sex)
	assert.Equal(t, Age60Plus, entries[29].Bracket)
}
