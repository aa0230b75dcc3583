package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/claude/trackingtfm/internal/tacf"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGradeCodeRoundTrip verifies grades survive the text column encoding,
// including the nil "not administered" case.
func TestGradeCodeRoundTrip(t *testing.T) {
	assert.Nil(t, gradeCode(nil))
	g, err := parseGradeCode(nil)
	require.NoError(t, err)
	assert.Nil(t, g)

	for _, want := range []tacf.Grade{tacf.BelowMinimum, tacf.BelowAverage, tacf.Average, tacf.AboveAverage, tacf.WellAboveAverage} {
		code := gradeCode(&want)
		got, err := parseGradeCode(code)
		require.NoError(t, err, "parseGradeCode(%q)", *code)
		assert.Equal(t, want, *got)
	}
}

// TestParseGradeCodeRejectsUnknown verifies a corrupted column surfaces as an error.
func TestParseGradeCodeRejectsUnknown(t *testing.T) {
	bad := "BOM"
	_, err := parseGradeCode(&bad)
	assert.Error(t, err)
}

// TestNoRows verifies that missing rows map to ErrNotFound and other errors do not.
func TestNoRows(t *testing.T) {
	assert.ErrorIs(t, noRows(pgx.ErrNoRows, "querying user"), ErrNotFound)
	assert.ErrorIs(t, noRows(fmt.Errorf("scan: %w", pgx.ErrNoRows), "x"), ErrNotFound)

	other := errors.New("connection refused")
	err := noRows(other, "x")
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, other, "underlying error should stay wrapped")
}

// TestNullJSON verifies empty details are stored as NULL.
func TestNullJSON(t *testing.T) {
	assert.Nil(t, nullJSON(nil))
	assert.Equal(t, `{"distance_km":5}`, nullJSON([]byte(`{"distance_km":5}`)))
}
