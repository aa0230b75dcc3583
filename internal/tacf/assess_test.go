package tacf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessPartial(t *testing.T) {
	a, err := Assess(TestInput{
		BirthDate: date(1990, 6, 1),
		TestDate:  date(2024, 5, 31),
		Sex:       Female,
		Cooper:    ScoreOf(2100),
		Abdominal: NoScore,
		PushUp:    ScoreOf(0),
	})
	require.NoError(t, err)

	assert.Equal(t, 33, a.Age)
	assert.Equal(t, Age30to39, a.Bracket)
	require.NotNil(t, a.Cooper)
	assert.Equal(t, AboveAverage, *a.Cooper)
	assert.Nil(t, a.Abdominal)
	require.NotNil(t, a.PushUp)
	assert.Equal(t, BelowMinimum, *a.PushUp)
}

func TestAssessNothingAdministered(t *testing.T) {
	a, err := Assess(TestInput{BirthDate: date(1980, 1, 1), TestDate: date(2024, 1, 1), Sex: Male})
	require.NoError(t, err)
	assert.Nil(t, a.Cooper)
	assert.Nil(t, a.Abdominal)
	assert.Nil(t, a.PushUp)
	assert.Equal(t, Age40to49, a.Bracket)
}

func TestAssessErrors(t *testing.T) {
	_, err := Assess(TestInput{BirthDate: date(2000, 1, 1), TestDate: date(1999, 1, 1), Sex: Male})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = Assess(TestInput{BirthDate: date(1990, 1, 1), TestDate: date(2024, 1, 1)})
	assert.ErrorIs(t, err, ErrInvalidSex)

	_, err = Assess(TestInput{BirthDate: date(1990, 1, 1), TestDate: date(2024, 1, 1), Sex: Male, PushUp: ScoreOf(-2)})
	assert.ErrorIs(t, err, ErrInvalidScore)
}
