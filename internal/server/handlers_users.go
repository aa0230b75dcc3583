package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/claude/trackingtfm/internal/models"
	"github.com/claude/trackingtfm/internal/tacf"
)

type userRequest struct {
	Name           string  `json:"name"`
	Rank           *string `json:"rank"`
	BirthDate      *string `json:"birth_date"`
	Sex            *string `json:"sex"`
	OrganizationID *int    `json:"organization_id"`
}

// historyPoint is one TACF session on the evolution chart.
type historyPoint struct {
	Date     string   `json:"date"`
	WeightKg *float64 `json:"weight_kg"`
	Cooper   *int     `json:"cooper"`
	PushUp   *int     `json:"pushup"`
	PullUp   *int     `json:"pullup"`
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	user, err := s.db.GetUser(r.Context(), uid)
	if err != nil {
		s.storeError(w, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	upd := models.UserUpdate{
		Name:           strings.TrimSpace(req.Name),
		Rank:           req.Rank,
		OrganizationID: req.OrganizationID,
	}
	if upd.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.BirthDate != nil && *req.BirthDate != "" {
		d, err := parseDate(*req.BirthDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if d.After(time.Now()) {
			writeError(w, http.StatusBadRequest, "birth_date is in the future")
			return
		}
		upd.BirthDate = &d
	}
	if req.Sex != nil && *req.Sex != "" {
		sex, err := tacf.ParseSex(*req.Sex)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		label := models.SexLabel(sex)
		upd.Sex = &label
	}

	user, err := s.db.UpdateUser(r.Context(), uid, upd)
	if err != nil {
		s.storeError(w, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	logs, err := s.db.TACFHistory(r.Context(), uid)
	if err != nil {
		s.storeError(w, err, "tacf history")
		return
	}

	points := make([]historyPoint, 0, len(logs))
	for _, l := range logs {
		points = append(points, historyPoint{
			Date:     l.TestDate.UTC().Format("02/01/2006"),
			WeightKg: l.WeightKg,
			Cooper:   l.CooperDistance,
			PushUp:   l.PushUpReps,
			PullUp:   l.PullUpReps,
		})
	}
	writeJSON(w, http.StatusOK, points)
}
