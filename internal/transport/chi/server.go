// Package chi exposes the matcher over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dogreid/internal/domain"
	dommatch "github.com/kailas-cloud/dogreid/internal/domain/match"
	"github.com/kailas-cloud/dogreid/internal/logger"
	healthuc "github.com/kailas-cloud/dogreid/internal/usecase/health"
)

// DefaultMaxUploadBytes caps a multipart image upload.
const DefaultMaxUploadBytes = 10 << 20

// imageField is the multipart form field carrying the photo.
const imageField = "image"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the search and operational endpoints.
type Server struct {
	identify       Identifier
	matcher        Matcher
	health         HealthChecker
	gatherer       prometheus.Gatherer
	maxUploadBytes int64
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. identify may be nil when no embedder is configured.
func NewServer(identify Identifier, matcher Matcher, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		identify:       identify,
		matcher:        matcher,
		health:         health,
		gatherer:       prometheus.DefaultGatherer,
		maxUploadBytes: DefaultMaxUploadBytes,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrInvalidTopK, http.StatusBadRequest, codeInvalidTopK),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusServiceUnavailable, codeEmbeddingUnavailable),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable),
	}
	return s
}

// WithMaxUploadBytes overrides the upload cap.
func (s *Server) WithMaxUploadBytes(n int64) *Server {
	if n > 0 {
		s.maxUploadBytes = n
	}
	return s
}

// WithGatherer serves /metrics from g instead of the default registry.
func (s *Server) WithGatherer(g prometheus.Gatherer) *Server {
	if g != nil {
		s.gatherer = g
	}
	return s
}

// Routes mounts the endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Post("/search", s.SearchImage)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.SearchImage)
		r.Post("/search/vector", s.SearchVector)
	})
}

// SearchImage handles POST /api/v1/search with a multipart "image" field.
func (s *Server) SearchImage(w http.ResponseWriter, r *http.Request) {
	if s.identify == nil {
		writeError(w, http.StatusServiceUnavailable, codeEmbeddingUnavailable, domain.ErrEmbeddingUnavailable.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	file, _, err := r.FormFile(imageField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "image exceeds upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, `multipart field "image" is required`)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "failed to read image")
		return
	}

	res, err := s.identify.Identify(r.Context(), data)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeResult(w, r, res)
}

// SearchVector handles POST /api/v1/search/vector for callers that embed themselves.
func (s *Server) SearchVector(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	var req VectorSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "request body exceeds upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Vector) == 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "vector is required")
		return
	}

	topK := s.matcher.TopK()
	if req.TopK != nil {
		topK = *req.TopK
	}

	res, err := s.matcher.MatchK(r.Context(), req.Vector, topK)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeResult(w, r, res)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, res dommatch.Result) {
	resp := resultToResponse(res)
	logger.FromContext(r.Context()).Debug("search result",
		zap.String("status", resp.Status),
		zap.String("match_level", resp.MatchLevel),
		zap.Int("candidates", len(resp.Candidates)),
	)
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		var dimErr *domain.DimensionError
		if errors.As(err, &dimErr) {
			msg = dimErr.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Code:      codeInternalError,
		Message:   "internal error",
		RequestID: logger.RequestID(r.Context()),
	})
}
