package api

import (
	"net/http"

	"github.com/okian/gradeparse/internal/domain/model"
	"github.com/okian/gradeparse/internal/domain/stats"
)

type textRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Courses      []model.Course    `json:"courses"`
	Lines        int               `json:"lines"`
	Rejected     int               `json:"rejected"`
	Source       string            `json:"source"`
	Summary      stats.Summary     `json:"summary"`
	Distribution []stats.BandTotal `json:"distribution"`
	Message      string            `json:"message,omitempty"`
}

type importResponse struct {
	Status   string `json:"status"`
	Key      string `json:"key"`
	Imported int    `json:"imported"`
	Rejected int    `json:"rejected"`
	Source   string `json:"source,omitempty"`
	Message  string `json:"message,omitempty"`
}

// handleParse serves POST /parse. Nothing is stored.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.Parse(r.Context(), req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	courses := res.Courses
	if courses == nil {
		courses = []model.Course{}
	}
	report := stats.Compute(courses)
	resp := parseResponse{
		Courses:      courses,
		Lines:        res.Lines,
		Rejected:     res.Rejected,
		Source:       res.Source,
		Summary:      report.Summary,
		Distribution: report.Distribution,
	}
	if len(courses) == 0 {
		resp.Message = noCoursesMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleImport serves POST /courses/import: parse and store synchronously.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.svc.Import(r.Context(), r.Header.Get(IdempotencyHeader), req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if out.Duplicate {
		writeJSON(w, http.StatusOK, importResponse{Status: "duplicate", Key: out.Key})
		return
	}
	resp := importResponse{
		Status:   "imported",
		Key:      out.Key,
		Imported: out.Imported,
		Rejected: out.Rejected,
		Source:   out.Source,
	}
	if out.Imported == 0 {
		resp.Message = noCoursesMessage
	}
	writeJSON(w, http.StatusCreated, resp)
}
