package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/claude/trackingtfm/internal/models"
	"github.com/claude/trackingtfm/internal/tacf"
)

// tacfRequest is the body for creating or editing a TACF session. Null
// results mean the exercise was not administered.
type tacfRequest struct {
	TestDate       string   `json:"test_date"`
	CooperDistance *int     `json:"cooper_distance"`
	AbdominalReps  *int     `json:"abdominal_reps"`
	PushUpReps     *int     `json:"pushup_reps"`
	PullUpReps     *int     `json:"pullup_reps"`
	WeightKg       *float64 `json:"weight_kg"`
	HeightCm       *float64 `json:"height_cm"`
	WaistCm        *float64 `json:"waist_cm"`
}

// errIncompleteProfile means the user has no birth date or sex on file.
var errIncompleteProfile = errors.New("user profile is missing birth date or sex")

func (s *Server) handleListTACF(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	logs, err := s.db.ListTACFLogs(r.Context(), uid)
	if err != nil {
		s.storeError(w, err, "tacf logs")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleCreateTACF(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req tacfRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	row, err := s.gradeSession(r.Context(), uid, req)
	if err != nil {
		s.gradeError(w, err)
		return
	}

	saved, err := s.db.InsertTACFLog(r.Context(), row)
	if err != nil {
		s.storeError(w, err, "tacf log")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleUpdateTACF(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := urlUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tacf log ID")
		return
	}
	var req tacfRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	row, err := s.gradeSession(r.Context(), uid, req)
	if err != nil {
		s.gradeError(w, err)
		return
	}
	row.ID = id

	saved, err := s.db.UpdateTACFLog(r.Context(), row)
	if err != nil {
		s.storeError(w, err, "tacf log")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteTACF(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := urlUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tacf log ID")
		return
	}
	if err := s.db.DeleteTACFLog(r.Context(), id, uid); err != nil {
		s.storeError(w, err, "tacf log")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// gradeSession loads the user's birth date and sex and grades the request.
func (s *Server) gradeSession(ctx context.Context, uid int, req tacfRequest) (models.TACFLogRow, error) {
	testDate, err := parseDate(req.TestDate)
	if err != nil {
		return models.TACFLogRow{}, fmt.Errorf("%w: test_date", errBadRequest)
	}
	if req.PullUpReps != nil && *req.PullUpReps < 0 {
		return models.TACFLogRow{}, fmt.Errorf("%w: pullup_reps = %d", tacf.ErrInvalidScore, *req.PullUpReps)
	}

	user, err := s.db.GetUser(ctx, uid)
	if err != nil {
		return models.TACFLogRow{}, err
	}
	if user.BirthDate == nil || user.Sex == nil {
		return models.TACFLogRow{}, errIncompleteProfile
	}
	sex, err := tacf.ParseSex(*user.Sex)
	if err != nil {
		return models.TACFLogRow{}, err
	}

	a, err := tacf.Assess(tacf.TestInput{
		BirthDate: *user.BirthDate,
		TestDate:  testDate,
		Sex:       sex,
		Cooper:    intScore(req.CooperDistance),
		Abdominal: intScore(req.AbdominalReps),
		PushUp:    intScore(req.PushUpReps),
	})
	if err != nil {
		return models.TACFLogRow{}, err
	}

	row := models.TACFLogRow{
		UserID:         uid,
		TestDate:       testDate,
		CooperDistance: req.CooperDistance,
		AbdominalReps:  req.AbdominalReps,
		PushUpReps:     req.PushUpReps,
		PullUpReps:     req.PullUpReps,
		CooperGrade:    a.Cooper,
		AbdominalGrade: a.Abdominal,
		PushUpGrade:    a.PushUp,
		WeightKg:       req.WeightKg,
		WaistCm:        req.WaistCm,
	}
	if req.HeightCm != nil && *req.HeightCm > 0 {
		m := *req.HeightCm / 100
		row.HeightM = &m
	}
	return row, nil
}

var errBadRequest = errors.New("invalid field")

// gradeError turns a grading failure into a response. Validation errors are
// the client's fault; anything else came from storage.
func (s *Server) gradeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, errIncompleteProfile),
		errors.Is(err, tacf.ErrInvalidDateRange),
		errors.Is(err, tacf.ErrInvalidAge),
		errors.Is(err, tacf.ErrInvalidScore),
		errors.Is(err, tacf.ErrInvalidSex):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tacf.ErrUnknownCombination):
		s.log.Error("threshold table incomplete", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		s.storeError(w, err, "user")
	}
}

func intScore(v *int) tacf.Score {
	if v == nil {
		return tacf.NoScore
	}
	return tacf.ScoreOf(float64(*v))
}

func (s *Server) handleThresholds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tacf.Entries())
}

// classifyPreview is the response of the stateless grading endpoint. Grade is
// null when no score was given.
type classifyPreview struct {
	Exercise   tacf.ExerciseKind `json:"exercise"`
	Sex        tacf.Sex          `json:"sex"`
	Age        int               `json:"age"`
	Bracket    tacf.AgeBracket   `json:"bracket"`
	Thresholds tacf.Thresholds   `json:"thresholds"`
	Score      tacf.Score        `json:"score"`
	Grade      *tacf.Grade       `json:"grade"`
}

func (s *Server) handleClassifyPreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, err := tacf.ParseExerciseKind(q.Get("exercise"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sex, err := tacf.ParseSex(q.Get("sex"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	age, err := strconv.Atoi(q.Get("age"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "age must be an integer")
		return
	}
	score := tacf.NoScore
	if v := q.Get("score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "score must be a number")
			return
		}
		score = tacf.ScoreOf(f)
	}

	bracket, err := tacf.BracketFor(age)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	thresholds, err := tacf.Lookup(kind, sex, bracket)
	if err != nil {
		s.gradeError(w, err)
		return
	}

	resp := classifyPreview{Exercise: kind, Sex: sex, Age: age, Bracket: bracket, Thresholds: thresholds, Score: score}
	g, err := tacf.Classify(kind, sex, age, score)
	switch {
	case errors.Is(err, tacf.ErrMissingScore):
	case err != nil:
		s.gradeError(w, err)
		return
	default:
		resp.Grade = &g
	}
	writeJSON(w, http.StatusOK, resp)
}
