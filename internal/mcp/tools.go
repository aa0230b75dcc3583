package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/claude/trackingtfm/internal/models"
	"github.com/claude/trackingtfm/internal/storage"
	"github.com/claude/trackingtfm/internal/tacf"
	"github.com/mark3labs/mcp-go/mcp"
)

// dateRange parses optional start/end bounds. A zero time means unbounded.
func dateRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end is before start")
	}
	return start, end, nil
}

func inRange(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolClassifyTACFResult = mcp.NewTool("classify_tacf_result",
	mcp.WithDescription("Grade one TACF exercise result. Returns the age bracket, the four thresholds of the matching table row and the mention (MAB, ABN, NOR, ACN or MAC). Give either age or birth_date."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise"), mcp.Enum("cooper", "abdominal", "pushup")),
	mcp.WithString("sex", mcp.Required(), mcp.Description("Sex of the examinee"), mcp.Enum("M", "F")),
	mcp.WithNumber("score", mcp.Required(), mcp.Description("Cooper distance in meters, or repetitions for abdominal and pushup")),
	mcp.WithNumber("age", mcp.Description("Age in whole years on the test date")),
	mcp.WithString("birth_date", mcp.Description("Birth date (YYYY-MM-DD). Used when age is not given.")),
	mcp.WithString("test_date", mcp.Description("Test date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetTACFHistory = mcp.NewTool("get_tacf_history",
	mcp.WithDescription("List the user's TACF sessions with raw results and stored grades, newest first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to the first session.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetTFMLogs = mcp.NewTool("get_tfm_logs",
	mcp.WithDescription("List the user's TFM training logs with exercise name, perceived intensity and details, newest first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD).")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD).")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (exact match)")),
)

var toolGetUnitStats = mcp.NewTool("get_unit_stats",
	mcp.WithDescription("Manager dashboard aggregates: user count, training counts per exercise and organization, TACF averages, grade distribution and mean perceived intensity."),
	mcp.WithNumber("organization_id", mcp.Description("Restrict to one organization")),
	mcp.WithString("sex", mcp.Description("Restrict to one sex"), mcp.Enum("M", "F")),
)

// --- Tool handlers ---

// classification is the result of classify_tacf_result.
type classification struct {
	Exercise   tacf.ExerciseKind `json:"exercise"`
	Sex        tacf.Sex          `json:"sex"`
	Age        int               `json:"age"`
	Bracket    tacf.AgeBracket   `json:"bracket"`
	Thresholds tacf.Thresholds   `json:"thresholds"`
	Score      float64           `json:"score"`
	Grade      tacf.Grade        `json:"grade"`
}

func (h *handlers) classifyTACFResult(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	kind, err := tacf.ParseExerciseKind(exercise)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sexStr, err := req.RequireString("sex")
	if err != nil {
		return mcp.NewToolResultError("sex parameter is required"), nil
	}
	sex, err := tacf.ParseSex(sexStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	score, err := req.RequireFloat("score")
	if err != nil {
		return mcp.NewToolResultError("score parameter is required"), nil
	}

	age, err := ageArgument(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bracket, err := tacf.BracketFor(age)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	thresholds, err := tacf.Lookup(kind, sex, bracket)
	if err != nil {
		h.log.Error("mcp classify_tacf_result", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	grade, err := tacf.Classify(kind, sex, age, tacf.ScoreOf(score))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(classification{
		Exercise:   kind,
		Sex:        sex,
		Age:        age,
		Bracket:    bracket,
		Thresholds: thresholds,
		Score:      score,
		Grade:      grade,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// ageArgument takes age directly or derives it from birth_date and test_date.
func ageArgument(req mcp.CallToolRequest) (int, error) {
	if _, ok := req.GetArguments()["age"]; ok {
		return req.GetInt("age", -1), nil
	}
	birthStr := req.GetString("birth_date", "")
	if birthStr == "" {
		return 0, errors.New("either age or birth_date is required")
	}
	birth, err := time.Parse("2006-01-02", birthStr)
	if err != nil {
		return 0, errors.New("invalid birth_date: " + err.Error())
	}
	testDate := time.Now().UTC()
	if s := req.GetString("test_date", ""); s != "" {
		testDate, err = time.Parse("2006-01-02", s)
		if err != nil {
			return 0, errors.New("invalid test_date: " + err.Error())
		}
	}
	return tacf.AgeInYears(birth, testDate)
}

func (h *handlers) getTACFHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := dateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date range: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	logs, err := h.ds.ListTACFLogs(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_tacf_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	filtered := make([]models.TACFLogRow, 0, len(logs))
	for _, l := range logs {
		if inRange(l.TestDate, start, end) {
			filtered = append(filtered, l)
		}
	}

	result, err := mcp.NewToolResultJSON(filtered)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTFMLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := dateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date range: " + err.Error()), nil
	}
	exercise := req.GetString("exercise", "")

	uid := UserIDFromContext(ctx)
	logs, err := h.ds.ListTFMLogs(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_tfm_logs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	filtered := make([]models.TFMLogRow, 0, len(logs))
	for _, l := range logs {
		if !inRange(l.TrainingDate, start, end) {
			continue
		}
		if exercise != "" && l.ExerciseName != exercise {
			continue
		}
		filtered = append(filtered, l)
	}

	result, err := mcp.NewToolResultJSON(filtered)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getUnitStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !IsManager(ctx) {
		return mcp.NewToolResultError("unit statistics are restricted to managers"), nil
	}

	var f storage.StatsFilter
	if _, ok := req.GetArguments()["organization_id"]; ok {
		id := req.GetInt("organization_id", 0)
		f.OrganizationID = &id
	}
	if s := req.GetString("sex", ""); s != "" {
		sex, err := tacf.ParseSex(s)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		label := models.SexLabel(sex)
		f.Sex = &label
	}

	stats, err := h.ds.GetUnitStats(ctx, f, h.group)
	if err != nil {
		h.log.Error("mcp get_unit_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
