package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/gradeparse/internal/domain/model"
)

type statsRequest struct {
	Courses []model.Course `json:"courses"`
}

// handleStoredStats serves GET /stats?include_planned=true|false.
func (s *Server) handleStoredStats(w http.ResponseWriter, r *http.Request) {
	include := false
	if raw := r.URL.Query().Get("include_planned"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.fail(w, r, fmt.Errorf("%w: include_planned must be a boolean", ErrBadRequest))
			return
		}
		include = v
	}
	report, err := s.svc.Stats(r.Context(), include)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handlePostedStats serves POST /stats over client supplied courses.
func (s *Server) handlePostedStats(w http.ResponseWriter, r *http.Request) {
	var req statsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := s.svc.StatsFor(req.Courses)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleStatus serves GET /status.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	out := s.svc.GetStats()
	out["uptime"] = time.Since(s.started).Round(time.Second).String()
	writeJSON(w, http.StatusOK, out)
}
