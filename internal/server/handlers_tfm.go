package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/trackingtfm/internal/models"
)

type tfmRequest struct {
	TrainingDate       string          `json:"training_date"`
	PerceivedIntensity *int            `json:"perceived_intensity"`
	ExerciseID         int             `json:"exercise_id"`
	Details            json.RawMessage `json:"details"`
}

// toRow validates the request. Details must be a JSON object or null.
func (req tfmRequest) toRow(uid int) (models.TFMLogRow, error) {
	date, err := parseDate(req.TrainingDate)
	if err != nil {
		return models.TFMLogRow{}, err
	}
	if req.ExerciseID <= 0 {
		return models.TFMLogRow{}, errors.New("exercise_id is required")
	}
	if p := req.PerceivedIntensity; p != nil && (*p < 0 || *p > 10) {
		return models.TFMLogRow{}, errors.New("perceived_intensity must be between 0 and 10")
	}
	details := bytes.TrimSpace(req.Details)
	if bytes.Equal(details, []byte("null")) {
		details = nil
	}
	if len(details) > 0 && details[0] != '{' {
		return models.TFMLogRow{}, errors.New("details must be a JSON object")
	}
	return models.TFMLogRow{
		UserID:             uid,
		TrainingDate:       date,
		PerceivedIntensity: req.PerceivedIntensity,
		ExerciseID:         req.ExerciseID,
		Details:            details,
	}, nil
}

func (s *Server) handleListTFM(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	logs, err := s.db.ListTFMLogs(r.Context(), uid)
	if err != nil {
		s.storeError(w, err, "tfm logs")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleCreateTFM(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req tfmRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	row, err := req.toRow(uid)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	saved, err := s.db.InsertTFMLog(r.Context(), row)
	if err != nil {
		s.storeError(w, err, "tfm log")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleUpdateTFM(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := urlUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tfm log ID")
		return
	}
	var req tfmRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	row, err := req.toRow(uid)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	row.ID = id

	saved, err := s.db.UpdateTFMLog(r.Context(), row)
	if err != nil {
		s.storeError(w, err, "tfm log")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteTFM(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := urlUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tfm log ID")
		return
	}
	if err := s.db.DeleteTFMLog(r.Context(), id, uid); err != nil {
		s.storeError(w, err, "tfm log")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
