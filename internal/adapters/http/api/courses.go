package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/gradeparse/internal/domain/model"
)

type coursesResponse struct {
	Courses []model.Course `json:"courses"`
	Count   int            `json:"count"`
}

type patchRequest struct {
	Planned *bool `json:"planned"`
}

// handleListCourses serves GET /courses?planned=true|false.
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	var planned *bool
	if raw := r.URL.Query().Get("planned"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.fail(w, r, fmt.Errorf("%w: planned must be a boolean", ErrBadRequest))
			return
		}
		planned = &v
	}
	courses, err := s.svc.Courses(r.Context(), planned)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}
	writeJSON(w, http.StatusOK, coursesResponse{Courses: courses, Count: len(courses)})
}

// handlePatchCourse serves PATCH /courses/{id}.
func (s *Server) handlePatchCourse(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Planned == nil {
		s.fail(w, r, fmt.Errorf("%w: planned is required", ErrBadRequest))
		return
	}
	c, err := s.svc.SetPlanned(r.Context(), r.PathValue("id"), *req.Planned)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleDeleteCourse serves DELETE /courses/{id}.
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearCourses serves DELETE /courses.
func (s *Server) handleClearCourses(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.Clear(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}
