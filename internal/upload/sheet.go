package upload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Session is one row of a TACF sheet in the shape the server's create
// endpoint expects. Nil results were not administered.
type Session struct {
	TestDate       string   `json:"test_date"`
	CooperDistance *int     `json:"cooper_distance"`
	AbdominalReps  *int     `json:"abdominal_reps"`
	PushUpReps     *int     `json:"pushup_reps"`
	PullUpReps     *int     `json:"pullup_reps"`
	WeightKg       *float64 `json:"weight_kg"`
	HeightCm       *float64 `json:"height_cm"`
	WaistCm        *float64 `json:"waist_cm"`

	// Line is the 1-based line in the sheet, for error messages.
	Line int `json:"-"`
}

var errNoDateColumn = errors.New("sheet has no test_date column")

// sheet columns; test_date is the only required one.
var intColumns = map[string]func(*Session) **int{
	"cooper_distance": func(s *Session) **int { return &s.CooperDistance },
	"abdominal_reps":  func(s *Session) **int { return &s.AbdominalReps },
	"pushup_reps":     func(s *Session) **int { return &s.PushUpReps },
	"pullup_reps":     func(s *Session) **int { return &s.PullUpReps },
}

var floatColumns = map[string]func(*Session) **float64{
	"weight_kg": func(s *Session) **float64 { return &s.WeightKg },
	"height_cm": func(s *Session) **float64 { return &s.HeightCm },
	"waist_cm":  func(s *Session) **float64 { return &s.WaistCm },
}

// ParseSheet reads a TACF sheet. The first row is a header naming the
// columns in any order; unknown columns are ignored. Both comma and
// semicolon separators are accepted, and decimals may use a comma when the
// separator is a semicolon. Blank lines are skipped.
func ParseSheet(r io.Reader) ([]Session, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = detectSeparator(text)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errNoDateColumn
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	dateCol, ok := cols["test_date"]
	if !ok {
		return nil, errNoDateColumn
	}

	var sessions []Session
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading sheet: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if blankRecord(record) {
			continue
		}

		cell := func(i int) string {
			if i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		s := Session{Line: line}
		s.TestDate, err = normalizeDate(cell(dateCol))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for name, field := range intColumns {
			i, ok := cols[name]
			if !ok {
				continue
			}
			v, err := parseInt(cell(i))
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, name, err)
			}
			*field(&s) = v
		}
		for name, field := range floatColumns {
			i, ok := cols[name]
			if !ok {
				continue
			}
			v, err := parseFloat(cell(i))
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, name, err)
			}
			*field(&s) = v
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// detectSeparator picks ';' when the header uses it, as spreadsheets in
// comma-decimal locales export that way.
func detectSeparator(text string) rune {
	header, _, _ := strings.Cut(text, "\n")
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// normalizeDate accepts YYYY-MM-DD or DD/MM/YYYY and returns YYYY-MM-DD.
func normalizeDate(s string) (string, error) {
	if s == "" {
		return "", errors.New("test_date is empty")
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006", "2/1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid test_date %q", s)
}

func parseInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return &v, nil
}

func parseFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return &v, nil
}
