package api

import (
	"net/http"

	"github.com/okian/gradeparse/internal/domain/types"
)

type submitResponse struct {
	Status    string         `json:"status"`
	Duplicate bool           `json:"duplicate"`
	JobID     string         `json:"job_id,omitempty"`
	State     types.JobState `json:"state,omitempty"`
}

// handleSubmitImport serves POST /imports.
func (s *Server) handleSubmitImport(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	st, dup, err := s.svc.SubmitImport(r.Context(), r.Header.Get(IdempotencyHeader), req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, submitResponse{Status: "duplicate", Duplicate: true})
		return
	}
	w.Header().Set("Location", "/imports/"+st.ID)
	writeJSON(w, http.StatusAccepted, submitResponse{Status: "accepted", JobID: st.ID, State: st.State})
}

// handleGetImport serves GET /imports/{id}.
func (s *Server) handleGetImport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		s.fail(w, r, ErrMissingID)
		return
	}
	st, err := s.svc.Job(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
