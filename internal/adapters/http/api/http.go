// Package api exposes the course service over a JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"github.com/okian/gradeparse/internal/adapters/repository"
	service "github.com/okian/gradeparse/internal/app"
	"github.com/okian/gradeparse/internal/domain/extract"
	"github.com/okian/gradeparse/internal/domain/model"
	"github.com/okian/gradeparse/internal/domain/stats"
	"github.com/okian/gradeparse/internal/domain/types"
	"github.com/okian/gradeparse/pkg/logger"
)

// Service is the behaviour the handlers depend on. *service.Service
// satisfies it.
type Service interface {
	Parse(ctx context.Context, text string) (extract.Result, error)
	Import(ctx context.Context, key, text string) (types.ImportOutcome, error)
	SubmitImport(ctx context.Context, key, text string) (types.JobStatus, bool, error)
	Job(ctx context.Context, id string) (types.JobStatus, error)

	Courses(ctx context.Context, planned *bool) ([]model.Course, error)
	SetPlanned(ctx context.Context, id string, planned bool) (model.Course, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) (int, error)

	Stats(ctx context.Context, includePlanned bool) (stats.Report, error)
	StatsFor(courses []model.Course) (stats.Report, error)
	GetStats() map[string]interface{}
}

var _ Service = (*service.Service)(nil)

// IdempotencyHeader carries a client supplied import key.
const IdempotencyHeader = "Idempotency-Key"

const noCoursesMessage = "no valid courses recognized"

// Server wires HTTP routes for the business API.
type Server struct {
	svc            Service
	logger         logger.Logger
	maxBodyBytes   int64
	allowedOrigins []string
	started        time.Time
}

// NewServer creates a new API server around svc.
func NewServer(svc Service, opts ...Option) *Server {
	s := &Server{
		svc:            svc,
		logger:         logger.Nop(),
		maxBodyBytes:   defaultMaxBodyBytes,
		allowedOrigins: []string{"*"},
		started:        time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(HandleHealth, "healthz"))
	mux.HandleFunc("GET /status", MetricsMiddleware(s.handleStatus, "status"))

	mux.HandleFunc("POST /parse", MetricsMiddleware(s.handleParse, "parse"))
	mux.HandleFunc("POST /courses/import", MetricsMiddleware(s.handleImport, "courses_import"))
	mux.HandleFunc("POST /imports", MetricsMiddleware(s.handleSubmitImport, "imports"))
	mux.HandleFunc("GET /imports/{id}", MetricsMiddleware(s.handleGetImport, "imports_get"))

	mux.HandleFunc("GET /courses", MetricsMiddleware(s.handleListCourses, "courses"))
	mux.HandleFunc("DELETE /courses", MetricsMiddleware(s.handleClearCourses, "courses"))
	mux.HandleFunc("PATCH /courses/{id}", MetricsMiddleware(s.handlePatchCourse, "course"))
	mux.HandleFunc("DELETE /courses/{id}", MetricsMiddleware(s.handleDeleteCourse, "course"))

	mux.HandleFunc("GET /stats", MetricsMiddleware(s.handleStoredStats, "stats"))
	mux.HandleFunc("POST /stats", MetricsMiddleware(s.handlePostedStats, "stats"))
}

// Wrap applies the CORS policy to h.
func (s *Server) Wrap(h http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", IdempotencyHeader},
		MaxAge:         300,
	})(h)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decode reads a size limited JSON body into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit %d bytes", ErrPayloadTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// fail maps err onto a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrPayloadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err)
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrMissingID), errors.Is(err, service.ErrInvalidCourse):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrDuplicateID):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	case errors.Is(err, extract.ErrRemoteFailed):
		writeError(w, http.StatusBadGateway, "upstream_error", err)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", err)
	default:
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("method", r.Method),
			logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
