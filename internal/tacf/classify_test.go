package tacf

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassifyMaleCooperUnder30 walks the literal boundaries of the male
// Cooper table for the youngest bracket.
func TestClassifyMaleCooperUnder30(t *testing.T) {
	cases := []struct {
		score float64
		want  Grade
	}{
		{0, BelowMinimum},
		{1880, BelowMinimum},
		{1881, BelowAverage},
		{2070, BelowAverage},
		{2071, Average},
		{2590, Average},
		{2591, AboveAverage},
		{2830, AboveAverage},
		{2831, WellAboveAverage},
		{4000, WellAboveAverage},
	}
	for _, tc := range cases {
		got, err := Classify(Cooper, Male, 25, ScoreOf(tc.score))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "score %v", tc.score)
	}
}

func TestClassifyMissingScore(t *testing.T) {
	_, err := Classify(Cooper, Male, 25, NoScore)
	assert.ErrorIs(t, err, ErrMissingScore)

	_, err = Classify(Cooper, Male, 25, ScoreFromPtr(nil))
	assert.ErrorIs(t, err, ErrMissingScore)
}

// TestClassifyZeroIsNotMissing ensures a recorded zero is graded rather than
// treated as not administered.
func TestClassifyZeroIsNotMissing(t *testing.T) {
	for _, kind := range exerciseKinds {
		for _, sex := range []Sex{Male, Female} {
			g, err := Classify(kind, sex, 45, ScoreOf(0))
			require.NoError(t, err, "%s/%s", kind, sex)
			assert.Equal(t, BelowMinimum, g, "%s/%s", kind, sex)
		}
	}
}

func TestClassifyInvalidScore(t *testing.T) {
	for _, v := range []float64{-1, -0.5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Classify(PushUp, Female, 30, ScoreOf(v))
		assert.ErrorIs(t, err, ErrInvalidScore, "score %v", v)
	}
}

func TestClassifyInvalidInputs(t *testing.T) {
	_, err := Classify(Cooper, Male, -3, ScoreOf(2000))
	assert.ErrorIs(t, err, ErrInvalidAge)

	_, err = Classify(Cooper, Sex(0), 25, ScoreOf(2000))
	assert.ErrorIs(t, err, ErrUnknownCombination)

	_, err = Classify(ExerciseKind(7), Male, 25, ScoreOf(2000))
	assert.ErrorIs(t, err, ErrUnknownCombination)
}

// TestClassifyBoundaryExactness checks every bound of every row: a score
// equal to bound i gets grade i, one unit above gets the next grade.
func TestClassifyBoundaryExactness(t *testing.T) {
	ages := map[AgeBracket]int{Under30: 20, Age30to39: 35, Age40to49: 45, Age50to59: 55, Age60Plus: 65}
	for _, e := range Entries() {
		age := ages[e.Bracket]
		for i, bound := range e.Thresholds {
			at, err := Classify(e.Exercise, e.Sex, age, ScoreOf(bound))
			require.NoError(t, err)
			assert.Equal(t, Grade(i+1), at, "%s/%s/%s at %v", e.Exercise, e.Sex, e.Bracket, bound)

			// Rows with repeated bounds would skip a grade; none exist today.
			if i+1 < len(e.Thresholds) && e.Thresholds[i+1] == bound {
				continue
			}
			above, err := Classify(e.Exercise, e.Sex, age, ScoreOf(bound+1))
			require.NoError(t, err)
			assert.Equal(t, Grade(i+2), above, "%s/%s/%s at %v", e.Exercise, e.Sex, e.Bracket, bound+1)
		}
	}
}

// TestClassifyMonotonic verifies that a higher score never gives a lower grade.
func TestClassifyMonotonic(t *testing.T) {
	for _, e := range Entries() {
		step, limit := 1.0, 100.0
		if e.Exercise == Cooper {
			step, limit = 10, 4000
		}
		prev := BelowMinimum
		for v := 0.0; v <= limit; v += step {
			g, err := Classify(e.Exercise, e.Sex, bracketAge(e.Bracket), ScoreOf(v))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, g, prev, "%s/%s/%s score %v", e.Exercise, e.Sex, e.Bracket, v)
			prev = g
		}
		assert.Equal(t, WellAboveAverage, prev)
	}
}

func bracketAge(b AgeBracket) int {
	return map[AgeBracket]int{Under30: 18, Age30to39: 30, Age40to49: 49, Age50to59: 50, Age60Plus: 70}[b]
}

func TestScoreJSON(t *testing.T) {
	var in struct {
		A Score `json:"a"`
		B Score `json:"b"`
		C Score `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": null, "b": 0, "c": 12.5}`), &in))

	_, ok := in.A.Value()
	assert.False(t, ok)
	v, ok := in.B.Value()
	assert.True(t, ok)
	assert.Zero(t, v)
	v, ok = in.C.Value()
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	out, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": null, "b": 0, "c": 12.5}`, string(out))

	err = json.Unmarshal([]byte(`{"a": "ten"}`), &in)
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestGradeCodes(t *testing.T) {
	codes := []string{"MAB", "ABN", "NOR", "ACN", "MAC"}
	for i, code := range codes {
		g, err := ParseGrade(code)
		require.NoError(t, err)
		assert.Equal(t, Grade(i+1), g)
		assert.Equal(t, code, g.String())
	}
	_, err := ParseGrade("XYZ")
	assert.Error(t, err)

	b, err := json.Marshal(struct {
		G *Grade `json:"g"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"g": null}`, string(b))
}

func TestParseSex(t *testing.T) {
	for _, s := range []string{"M", "m", "Masculino", "male"} {
		got, err := ParseSex(s)
		require.NoError(t, err)
		assert.Equal(t, Male, got)
	}
	for _, s := range []string{"F", "Feminino", "FEMALE"} {
		got, err := ParseSex(s)
		require.NoError(t, err)
		assert.Equal(t, Female, got)
	}
	for _, s := range []string{"", "X", "Mulher"} {
		_, err := ParseSex(s)
		assert.ErrorIs(t, err, ErrInvalidSex, "input %q", s)
	}
}

func TestParseExerciseKind(t *testing.T) {
	for in, want := range map[string]ExerciseKind{"cooper": Cooper, "Abdominal": Abdominal, "flexao": PushUp, "push_up": PushUp} {
		got, err := ParseExerciseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseExerciseKind("barra")
	assert.ErrorIs(t, err, ErrUnknownExercise)
}
