// Package server exposes the layout pipeline as an HTTP service.
//
// The core engine is a plain value with no shared state, so the server
// simply runs one pipeline execution per request; concurrency comes for
// free from net/http's per-request goroutines. The wire format is the
// same circuit JSON the CLI reads, plus inline options.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pcbflow/pcbflow/pkg/board"
	"github.com/pcbflow/pcbflow/pkg/buildinfo"
	apperrors "github.com/pcbflow/pcbflow/pkg/errors"
	"github.com/pcbflow/pcbflow/pkg/observability"
	"github.com/pcbflow/pcbflow/pkg/pipeline"
)

// maxBodyBytes caps request bodies; board netlists are small, so anything
// larger is a client error.
const maxBodyBytes = 8 << 20

// Server routes layout requests to a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around the given runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	return &Server{runner: runner, logger: logger}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/layout", s.handleLayout)
	r.Post("/v1/route", s.handleRoute)
	return r
}

// layoutRequest is the wire format of a layout request.
type layoutRequest struct {
	Circuit board.Circuit    `json:"circuit"`
	Options pipeline.Options `json:"options"`
}

// layoutResponse wraps a pipeline result with cache provenance.
type layoutResponse struct {
	pipeline.Result
	CacheHit bool `json:"cache_hit"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidCircuit, err, "decode request"))
		return
	}

	result, cacheHit, err := s.runner.Execute(r.Context(), req.Circuit, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, layoutResponse{Result: result, CacheHit: cacheHit})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidCircuit, err, "decode request"))
		return
	}

	routes, err := s.runner.RouteOnly(r.Context(), req.Circuit, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"routes": routes})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// errorResponse is the wire format of an error.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case code == apperrors.ErrCodeNotFound, code == apperrors.ErrCodeNodeNotFound,
		code == apperrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.Is(err, r.Context().Err()) && r.Context().Err() != nil:
		status = 499 // client closed request
	}

	s.logger.Error("request failed", "path", r.URL.Path, "code", code, "err", err)
	s.writeJSON(w, status, errorResponse{Code: string(code), Message: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// logRequests logs each request with a generated ID and emits HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logger.Info("request",
			"id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", elapsed.Round(time.Millisecond))
	})
}
