package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/trackingtfm/internal/models"
	"github.com/claude/trackingtfm/internal/storage"
	"github.com/claude/trackingtfm/internal/tacf"
)

func (s *Server) handleUnitStats(w http.ResponseWriter, r *http.Request) {
	f, err := statsFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, err := s.db.GetUnitStats(r.Context(), f, s.orgGroup)
	if err != nil {
		s.storeError(w, err, "stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// statsFilter reads the om_id and sex query parameters. Empty or "todos"
// means no filter.
func statsFilter(r *http.Request) (storage.StatsFilter, error) {
	var f storage.StatsFilter
	q := r.URL.Query()
	if v := q.Get("om_id"); v != "" && v != "todos" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return f, errors.New("om_id must be an integer")
		}
		f.OrganizationID = &id
	}
	if v := q.Get("sex"); v != "" && v != "todos" {
		sex, err := tacf.ParseSex(v)
		if err != nil {
			return f, err
		}
		label := models.SexLabel(sex)
		f.Sex = &label
	}
	return f, nil
}
