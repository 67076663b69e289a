package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nivosearch/internal/domain"
	"github.com/kailas-cloud/nivosearch/internal/logger"
	healthuc "github.com/kailas-cloud/nivosearch/internal/usecase/health"
)

// ErrorCode is the machine-readable failure code in the response envelope.
type ErrorCode string

// Failure codes.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeQueryTooShort      ErrorCode = "query_too_short"
	CodeSearchDisabled     ErrorCode = "search_disabled"
	CodeCatalogUnavailable ErrorCode = "catalog_unavailable"
	CodeNotFound           ErrorCode = "not_found"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeInternalError      ErrorCode = "internal_error"
)

// Client-facing messages. Internals never reach the response.
const (
	msgQueryTooShort = "Query too short"
	msgDisabled      = "AJAX search is disabled"
	msgUnavailable   = "Search is temporarily unavailable"
	msgInternal      = "internal error"
)

const maxBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server exposes the search, admin and health endpoints.
type Server struct {
	search        SearchService
	settings      SettingsService
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search SearchService, settings SettingsService, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:   search,
		settings: settings,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		queryTooShortHandler,
		sentinelHandler(domain.ErrSearchDisabled, http.StatusOK, CodeSearchDisabled, msgDisabled),
		sentinelHandler(domain.ErrCatalogUnavailable,
			http.StatusServiceUnavailable, CodeCatalogUnavailable, msgUnavailable),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound, domain.ErrNotFound.Error()),
		validationHandler(domain.ErrInvalidRequest),
		validationHandler(domain.ErrInvalidSettings),
	}
	return s
}

// Mount registers all routes on r. Admin routes require one of adminKeys
// when any are configured.
func (s *Server) Mount(r gochi.Router, adminKeys []string) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/wc-ajax/nivo_search", s.Search)
	r.Route("/api/v1", func(r gochi.Router) {
		r.Post("/search", s.Search)
		r.Get("/presets/{id}/style.css", s.PresetStyle)

		r.Group(func(r gochi.Router) {
			r.Use(BearerAuthMiddleware(adminKeys))
			r.Get("/options", s.GetOptions)
			r.Put("/options", s.PutOptions)
			r.Get("/presets", s.ListPresets)
			r.Post("/presets", s.CreatePreset)
			r.Get("/presets/{id}", s.GetPreset)
			r.Put("/presets/{id}", s.PutPreset)
			r.Delete("/presets/{id}", s.DeletePreset)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type failureData struct {
	Message string    `json:"message"`
	Code    ErrorCode `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, envelope{Data: failureData{Message: message, Code: code}})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeFailure(w, status, code, msg)
		return true
	}
}

// validationHandler reports input errors with their own message; those only
// ever describe client input.
func validationHandler(sentinel error) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeFailure(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return true
	}
}

// queryTooShortHandler answers 200 so the client renders an empty state
// rather than an error.
func queryTooShortHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrQueryTooShort) {
		return false
	}
	var tooShort *domain.QueryTooShortError
	if errors.As(err, &tooShort) {
		w.Header().Set("X-Min-Chars", strconv.Itoa(tooShort.MinLength))
	}
	writeFailure(w, http.StatusOK, CodeQueryTooShort, msgQueryTooShort)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			if errors.Is(err, domain.ErrCatalogUnavailable) {
				log.Error("catalog unavailable", zap.Error(err))
			} else {
				log.Debug("domain error", zap.Error(err))
			}
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeFailure(w, http.StatusInternalServerError, CodeInternalError, msgInternal)
}

// requestLogger prefers the request-scoped logger set by the access log middleware.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if l, ok := logger.Lookup(r.Context()); ok {
		return l
	}
	return s.logger
}
